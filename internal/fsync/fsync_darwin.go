//go:build darwin

package fsync

import (
	"os"

	"golang.org/x/sys/unix"
)

// flush pushes file contents to stable storage.
//
// macOS has no fdatasync; F_FULLFSYNC pushes the data past the drive cache,
// which plain fsync does not guarantee there.
func flush(f *os.File) error {
	if _, err := unix.FcntlInt(f.Fd(), unix.F_FULLFSYNC, 0); err == nil {
		return nil
	}
	return unix.Fsync(int(f.Fd()))
}
