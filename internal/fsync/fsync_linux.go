//go:build linux || freebsd

package fsync

import (
	"os"

	"golang.org/x/sys/unix"
)

// flush pushes file contents to stable storage.
//
// On Linux/FreeBSD, fdatasync() provides sufficient guarantees for freshly
// written image files: the data reaches the disk and the file size is
// persisted with it.
func flush(f *os.File) error {
	return unix.Fdatasync(int(f.Fd()))
}
