//go:build !linux && !darwin

package image

import (
	"os"

	"github.com/bytedance/gopkg/lang/dirtmake"
)

// mapRW loads the file into an anonymous buffer on platforms without the
// mmap path. The buffer is requested without zeroing since ReadAt fills
// every byte. Flushing writes modified ranges back with WriteAt.
func mapRW(f *os.File, size int) ([]byte, error) {
	buf := dirtmake.Bytes(size, size)
	if _, err := f.ReadAt(buf, 0); err != nil {
		return nil, err
	}
	return buf, nil
}

// unmap is a no-op for the in-memory loader.
func unmap(data []byte) error {
	return nil
}
