package manifest

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultFileMode = 0o644

// writeFileAtomic replaces path with content through a temporary file in the
// same directory, so readers see either the old or the new file.
func writeFileAtomic(path string, content []byte) error {
	mode := os.FileMode(defaultFileMode)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %q: %w", path, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err = tmp.Write(content); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("failed to sync %q: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close %q: %w", path, err)
	}
	if err = os.Chmod(tmpPath, mode); err != nil {
		cleanup()
		return fmt.Errorf("failed to set mode of %q: %w", path, err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("failed to replace %q: %w", path, err)
	}
	return nil
}
