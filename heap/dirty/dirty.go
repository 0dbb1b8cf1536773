// Package dirty provides tracking of modified heap pages between flushes.
//
// The tracker records which 1KB heap pages have changed, plus whether the
// superblock has, and turns them into OS-page-aligned, coalesced byte
// ranges that heap/image flushes with platform-specific system calls.
package dirty

import (
	"github.com/joshuapare/heapkit/internal/bitmap"
	"github.com/joshuapare/heapkit/internal/format"
)

// standardPageSize is the typical OS page size (4KB).
const standardPageSize = 4096

// FlushMode controls durability guarantees for image flushes.
type FlushMode int

const (
	// FlushAuto provides safe defaults for most use cases:
	// - msync() dirty data pages
	// - fdatasync() after the superblock write
	// - On macOS, uses F_FULLFSYNC for maximum durability.
	FlushAuto FlushMode = iota

	// FlushDataOnly only flushes dirty data pages via msync().
	// The caller is responsible for syncing the file descriptor later.
	// Use this when batching multiple flushes together.
	FlushDataOnly

	// FlushFull provides ultra-safe durability:
	// - msync() dirty data pages
	// - msync() the superblock page
	// - fdatasync() the file descriptor
	// - On macOS, uses F_FULLFSYNC
	// Use this for power-loss sensitive workflows.
	FlushFull
)

// Range represents a dirty byte range (absolute file offsets).
type Range struct {
	Off int64 // Absolute offset in file
	Len int64 // Length in bytes
}

// Tracker accumulates dirty heap pages as a bitmap and reports them as
// coalesced byte ranges. Marking a page twice costs nothing extra, which
// suits allocator workloads that touch the same page many times between
// flushes.
//
// NOT thread-safe. Only one goroutine should use it at a time.
type Tracker struct {
	pages  [(format.PageCount + 7) / 8]byte
	header bool
	base   int64 // File offset of heap page 0
}

// NewTracker creates a tracker for a heap whose page 0 lives at the given
// file offset. Use base 0 for a heap that is the whole file.
func NewTracker(base int64) *Tracker {
	return &Tracker{base: base}
}

// MarkPage marks one heap page as dirty. Out-of-range pages are ignored.
//
// Performance: a bounds check and one bit set, no allocations.
func (t *Tracker) MarkPage(page int) {
	if page < 0 || page >= format.PageCount {
		return
	}
	bitmap.Set(t.pages[:], page)
}

// MarkHeader marks the superblock as dirty.
func (t *Tracker) MarkHeader() {
	t.header = true
}

// HeaderDirty reports whether the superblock has been marked since the
// last Reset.
func (t *Tracker) HeaderDirty() bool {
	return t.header
}

// Reset clears all tracked pages and the header mark.
//
// Callers do this after a successful flush, or when discarding a heap.
func (t *Tracker) Reset() {
	clear(t.pages[:])
	t.header = false
}

// Dirty returns one Range per marked heap page, in ascending page order,
// without alignment or merging. Intended for tests and debugging; flushing
// uses Coalesced.
func (t *Tracker) Dirty() []Range {
	var out []Range
	for page := 0; page < format.PageCount; page++ {
		if !bitmap.IsSet(t.pages[:], page) {
			continue
		}
		out = append(out, Range{
			Off: t.base + int64(page)<<format.PageShift,
			Len: format.PageSize,
		})
	}
	return out
}

// Coalesced returns the marked pages as OS-page-aligned, non-overlapping,
// sorted byte ranges ready to msync. Heap pages are smaller than OS pages,
// so neighboring marks usually collapse into a handful of ranges.
func (t *Tracker) Coalesced() []Range {
	var merged []Range
	// Pages are visited in ascending order, so the aligned ranges arrive
	// sorted and a single merge pass suffices.
	for page := 0; page < format.PageCount; page++ {
		if !bitmap.IsSet(t.pages[:], page) {
			continue
		}
		off := t.base + int64(page)<<format.PageShift
		end := off + format.PageSize

		// Round down start, round up end to OS page boundaries.
		start := (off / standardPageSize) * standardPageSize
		if end%standardPageSize != 0 {
			end = ((end / standardPageSize) + 1) * standardPageSize
		}

		if n := len(merged); n > 0 && start <= merged[n-1].Off+merged[n-1].Len {
			if end > merged[n-1].Off+merged[n-1].Len {
				merged[n-1].Len = end - merged[n-1].Off
			}
			continue
		}
		merged = append(merged, Range{Off: start, Len: end - start})
	}
	return merged
}

var _ DirtyTracker = (*Tracker)(nil)
