package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// CVGrammar is a small grammar with six reachable words.
const CVGrammar = `name: cv
pattern: "{C}{V}"
count: 10
definitions:
  - C: p/t/k
  - V: a/i
`

// WriteFile writes content to name inside dir, creating parent directories,
// and returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// SetupProject creates a temporary project directory holding cv.yaml and
// returns the directory.
func SetupProject(t testing.TB) string {
	t.Helper()

	dir := t.TempDir()
	WriteFile(t, dir, "cv.yaml", CVGrammar)
	return dir
}
