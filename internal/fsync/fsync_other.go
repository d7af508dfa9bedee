//go:build !linux && !freebsd && !darwin && !windows

package fsync

import "os"

// flush falls back to portable fsync when no platform-specific call is
// available.
func flush(f *os.File) error {
	return f.Sync()
}
