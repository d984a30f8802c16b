package ledger

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileArtifactWriter writes diagnostic payloads into a directory.
type FileArtifactWriter struct {
	Dir string
}

// WriteArtifact writes payload to Dir/name and returns the file path.
func (w FileArtifactWriter) WriteArtifact(name string, payload []byte) (string, error) {
	dir := w.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return "", fmt.Errorf("write artifact %s: %w", path, err)
	}
	return path, nil
}
