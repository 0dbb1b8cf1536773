//go:build linux || darwin

package image

import (
	"errors"
	"os"
	"syscall"
)

// mapRW maps size bytes of f read-write and shared, so heap mutations hit
// the page cache without an explicit write path.
func mapRW(f *os.File, size int) ([]byte, error) {
	return syscall.Mmap(
		int(f.Fd()),
		0,
		size,
		syscall.PROT_READ|syscall.PROT_WRITE,
		syscall.MAP_SHARED,
	)
}

// unmap releases a mapping. Double-unmap is treated as a no-op.
func unmap(data []byte) error {
	err := syscall.Munmap(data)
	if errors.Is(err, syscall.EINVAL) {
		return nil
	}
	return err
}
