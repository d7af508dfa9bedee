// Package fsync writes files durably. Generated images are often the last
// artifact before flashing hardware, so a write that only reached the page
// cache is not good enough.
package fsync

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile writes data to path, creating parent directories as needed, and
// flushes it to stable storage before returning. The file is truncated if it
// already exists.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("fsync: create parent dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := flush(f); err != nil {
		f.Close()
		return fmt.Errorf("fsync: flush %s: %w", path, err)
	}
	return f.Close()
}
