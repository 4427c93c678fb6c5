package letters

import (
	"context"
	"time"

	"github.com/jonathan/speak-out/internal/types"
)

// AuditEntry describes one generation request for the audit log.
type AuditEntry struct {
	BatchID        string
	Chamber        types.Chamber
	Electorate     string
	State          string
	CandidateCount int
	Concern        string
	Tone           types.Tone
	Stance         types.Stance
	RequestedAt    time.Time
}

// AuditSink records generation requests. Failures never affect generation.
type AuditSink interface {
	LogGeneration(ctx context.Context, entry AuditEntry) error
}

// AuditFunc adapts a function to AuditSink.
type AuditFunc func(ctx context.Context, entry AuditEntry) error

// LogGeneration calls f.
func (f AuditFunc) LogGeneration(ctx context.Context, entry AuditEntry) error {
	return f(ctx, entry)
}
