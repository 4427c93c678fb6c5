package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
	"unicode/utf8"
)

// Source describes how an uploaded document was interpreted.
type Source string

// Source values
const (
	SourceText Source = "text"
	SourceHTML Source = "html"
)

// Metadata describes a prepared upload.
type Metadata struct {
	Source    Source `json:"source"`
	Hash      string `json:"hash"` // SHA256 of the raw upload
	RawChars  int    `json:"raw_chars"`
	Chars     int    `json:"chars"`
	Truncated bool   `json:"truncated"`
	Timestamp string `json:"timestamp"` // RFC3339
}

// NewMetadata records how raw became text.
func NewMetadata(raw, text string, source Source, truncated bool) *Metadata {
	return &Metadata{
		Source:    source,
		Hash:      computeHash(raw),
		RawChars:  utf8.RuneCountInString(raw),
		Chars:     utf8.RuneCountInString(text),
		Truncated: truncated,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
