package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testCandidates = `[
  {"id": "c1", "name": "Alex Smith", "party": "Independent", "email": "alex@example.org",
   "chamber": "house", "division": "Wentworth", "role": "mp"},
  {"id": "c2", "name": "Jordan Lee", "party": "Greens", "email": "jordan@example.org",
   "chamber": "senate", "state": "NSW", "role": "candidate"}
]`

// writeTestFile writes content to name inside a fresh temp dir and returns the path.
func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
