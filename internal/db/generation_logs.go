package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/speak-out/internal/letters"
)

// LogGeneration records one generation request. It satisfies letters.AuditSink.
func (db *DB) LogGeneration(ctx context.Context, entry letters.AuditEntry) error {
	requestedAt := entry.RequestedAt
	if requestedAt.IsZero() {
		requestedAt = time.Now().UTC()
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO generation_logs (batch_id, chamber, electorate, state, candidate_count,
		                              concern, tone, stance, requested_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.BatchID, nullIfEmpty(string(entry.Chamber)), nullIfEmpty(entry.Electorate),
		nullIfEmpty(entry.State), entry.CandidateCount, entry.Concern,
		string(entry.Tone), string(entry.Stance), requestedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to log generation %s: %w", entry.BatchID, err)
	}
	return nil
}

// ListGenerationLogs returns the most recent audit log rows.
func (db *DB) ListGenerationLogs(ctx context.Context, limit int) ([]GenerationLog, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, batch_id, chamber, electorate, state, candidate_count,
		        concern, tone, stance, requested_at
		 FROM generation_logs ORDER BY requested_at DESC LIMIT $1`,
		clampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list generation logs: %w", err)
	}
	defer rows.Close()

	var logs []GenerationLog
	for rows.Next() {
		var l GenerationLog
		var chamber, electorate, state *string
		if err := rows.Scan(&l.ID, &l.BatchID, &chamber, &electorate, &state, &l.CandidateCount,
			&l.Concern, &l.Tone, &l.Stance, &l.RequestedAt); err != nil {
			return nil, fmt.Errorf("failed to scan generation log: %w", err)
		}
		l.Chamber = derefString(chamber)
		l.Electorate = derefString(electorate)
		l.State = derefString(state)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
