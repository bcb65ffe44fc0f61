package generator

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFiles writes every generated file into dir, creating it when missing.
// Existing files are overwritten.
func (r *GenerateResult) WriteFiles(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("generator: failed to create output directory: %w", err)
	}
	for _, file := range r.Files {
		path := filepath.Join(dir, file.Name)
		if err := os.WriteFile(path, file.Content, 0o644); err != nil {
			return fmt.Errorf("generator: failed to write %s: %w", file.Name, err)
		}
	}
	return nil
}
