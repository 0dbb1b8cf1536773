//go:build linux

package image

import (
	"golang.org/x/sys/unix"

	"github.com/joshuapare/heapkit/heap/dirty"
)

// osPageSize is the typical OS page size (4KB).
const osPageSize = 4096

// flushRanges flushes individual dirty ranges to disk.
//
// On Linux, msync() handles sub-slices of a mapping correctly, so each
// coalesced range is synced on its own.
func (img *Image) flushRanges(ranges []dirty.Range) error {
	for _, r := range ranges {
		start := int(r.Off)
		end := int(r.Off + r.Len)
		if end > len(img.data) {
			end = len(img.data)
		}
		if start >= end {
			continue
		}
		if err := unix.Msync(img.data[start:end], unix.MS_SYNC); err != nil {
			return err
		}
	}
	return nil
}

// flushSuperblock flushes the superblock's OS page.
func (img *Image) flushSuperblock() error {
	n := osPageSize
	if n > len(img.data) {
		n = len(img.data)
	}
	return unix.Msync(img.data[:n], unix.MS_SYNC)
}

// syncFile syncs the file descriptor.
//
// On Linux, fdatasync() provides sufficient guarantees; the full parameter
// is ignored.
func (img *Image) syncFile(_ bool) error {
	return unix.Fdatasync(int(img.f.Fd()))
}
