package digest

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile replaces the file at path with the rendered document. The new
// content is written to a temporary file in the same directory first so a
// failed run never leaves a truncated page behind.
func WriteFile(path, document string) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".digest-*.html")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(document); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close document: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}
