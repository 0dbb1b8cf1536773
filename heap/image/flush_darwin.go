//go:build darwin

package image

import (
	"golang.org/x/sys/unix"

	"github.com/joshuapare/heapkit/heap/dirty"
)

// flushRanges flushes dirty ranges to disk.
//
// On macOS, msync() requires the address to match the original mmap()
// address. We cannot pass sub-slices because their base pointer differs from
// the mmap address. Solution: flush the entire mapped region. The kernel
// only writes pages that are actually dirty.
func (img *Image) flushRanges(_ []dirty.Range) error {
	return unix.Msync(img.data, unix.MS_SYNC)
}

// flushSuperblock flushes the superblock.
//
// Same macOS restriction as flushRanges: sync the whole mapping.
func (img *Image) flushSuperblock() error {
	return unix.Msync(img.data, unix.MS_SYNC)
}

// syncFile syncs the file descriptor.
//
// On macOS, if full is true, use F_FULLFSYNC for maximum durability.
// F_FULLFSYNC ensures data is written to the physical disk, not just the
// drive cache. Otherwise, use regular fsync (macOS has no fdatasync).
func (img *Image) syncFile(full bool) error {
	if full {
		_, err := unix.FcntlInt(img.f.Fd(), unix.F_FULLFSYNC, 0)
		return err
	}
	return unix.Fsync(int(img.f.Fd()))
}
