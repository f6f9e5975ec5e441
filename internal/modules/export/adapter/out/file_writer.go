package out

import (
	"fmt"
	"os"
	"path/filepath"
)

// OSFileWriter writes export artifacts to disk, creating the target
// directory when needed.
type OSFileWriter struct{}

func (OSFileWriter) Write(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}
