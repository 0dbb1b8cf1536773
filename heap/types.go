package heap

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

// Ref is a heap-relative byte offset naming the first byte of an allocated
// segment. Refs stay valid until the segment is freed; the heap never moves
// live blocks. Zero is not a valid segment address (it points at page 0's
// header region), but Free absorbs it like any other stale value.
type Ref = uint32

// Heap geometry, re-exported for callers that size buffers or reason about
// capacity. All values are fixed at build time; see internal/format for the
// derivations and the guards that keep them consistent.
const (
	// Size is the total heap size in bytes. Buffers handed to NewWithBuffer
	// and Resume must be exactly this long.
	Size = format.HeapSize

	// PageSize is the size of one page, the unit of promotion and
	// reclamation.
	PageSize = format.PageSize

	// PageCount is the number of pages in the heap.
	PageCount = format.PageCount

	// SmallMax and BigMax are the class boundaries: requests of 1..SmallMax
	// bytes are served from small pages, SmallMax+1..BigMax from big pages,
	// and anything larger fails.
	SmallMax = format.SmallPayloadMax
	BigMax   = format.BigPayloadMax
)

// PageState is the lifecycle state of one heap page. An occupied page serves
// exactly one size class and returns to PageFree when its last segment is
// freed. The numeric values are stable; they are stored in heap image files.
type PageState uint8

const (
	PageFree  PageState = 0
	PageSmall PageState = 1
	PageBig   PageState = 2
)

// String returns the state's display name.
func (s PageState) String() string {
	switch s {
	case PageFree:
		return "FREE"
	case PageSmall:
		return "SMALL"
	case PageBig:
		return "BIG"
	default:
		return fmt.Sprintf("PageState(%d)", uint8(s))
	}
}

// valid reports whether s is one of the three defined states.
func (s PageState) valid() bool {
	return s == PageFree || s == PageSmall || s == PageBig
}

// SegmentSize returns the slot size pages of this state serve, or 0 for
// PageFree (a free page serves nothing).
func (s PageState) SegmentSize() int {
	switch s {
	case PageSmall:
		return format.SmallSegmentSize
	case PageBig:
		return format.BigSegmentSize
	default:
		return 0
	}
}

// SegmentCount returns the per-page slot capacity for this state, or 0 for
// PageFree.
func (s PageState) SegmentCount() int {
	switch s {
	case PageSmall:
		return format.SmallSegmentsPerPage
	case PageBig:
		return format.BigSegmentsPerPage
	default:
		return 0
	}
}
