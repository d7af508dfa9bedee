//go:build windows

package fsync

import (
	"os"

	"golang.org/x/sys/windows"
)

// flush pushes file contents to stable storage.
//
// On Windows, FlushFileBuffers writes all buffered data and metadata for the
// handle to disk.
func flush(f *os.File) error {
	return windows.FlushFileBuffers(windows.Handle(f.Fd()))
}
