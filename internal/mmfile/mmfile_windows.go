//go:build windows

package mmfile

import (
	"os"
)

// Map reads the whole file when mmap semantics are not worth the Windows
// handle bookkeeping. Images are parsed once and released, so a plain read
// is equivalent.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	return data, func() error { return nil }, nil
}
