//go:build !linux && !darwin

package image

import (
	"github.com/joshuapare/heapkit/heap/dirty"
	"github.com/joshuapare/heapkit/internal/format"
)

// flushRanges writes dirty ranges back to the file.
//
// Without a mapping the buffer and the file are separate; each coalesced
// range is copied out with WriteAt.
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
		if _, err := img.f.WriteAt(img.data[start:end], int64(start)); err != nil {
			return err
		}
	}
	return nil
}

// flushSuperblock writes the superblock region back to the file.
func (img *Image) flushSuperblock() error {
	_, err := img.f.WriteAt(img.data[:format.SuperblockSize], 0)
	return err
}

// syncFile syncs the file descriptor. There is no fdatasync distinction
// here; the full parameter is ignored.
func (img *Image) syncFile(_ bool) error {
	return img.f.Sync()
}
