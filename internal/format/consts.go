// Package format houses the compile-time geometry of the heap and the on-disk
// layout of heap image files. The goal is to keep every size, offset, and
// derived count in one place, independent from the allocator itself, so the
// higher-level packages can share a single source of truth for the format.
package format

// ============================================================================
// Heap Geometry
// ============================================================================
// The heap is one contiguous region carved into fixed-size pages. Every value
// here is fixed at build time; there is no runtime configuration.
const (
	// HeapSize is the total size of the backing heap region in bytes.
	HeapSize = 64 * 1024

	// PageSize is the size of one heap page in bytes. Must be a power of two
	// matching PageShift; the guards below enforce the pairing.
	PageSize = 1024

	// PageShift is the base-two logarithm of PageSize. Page indexes are
	// recovered from heap offsets with a single right shift.
	PageShift = 10

	// PageCount is the number of pages in the heap.
	PageCount = HeapSize / PageSize

	// PageHeaderSize is the size of the header region at the start of every
	// page. The header bytes are the page's occupancy bitmap, one bit per
	// segment slot, so a page can track at most PageHeaderBits segments.
	PageHeaderSize = 16

	// PageHeaderBits is the bitmap capacity of a page header.
	PageHeaderBits = PageHeaderSize * 8

	// PageDataSize is the usable payload space in a page (total size minus
	// the header region).
	PageDataSize = PageSize - PageHeaderSize
)

// ============================================================================
// Size Classes
// ============================================================================
// Exactly two block-size classes exist. A page serves one class for its whole
// occupied lifetime; the classes never share a page and never borrow pages
// from each other.
const (
	// SmallPayloadMax is the largest request the small class accepts.
	SmallPayloadMax = 15

	// SmallSegmentSize is the slot size small-class blocks occupy. Requests
	// of 1..SmallPayloadMax bytes each consume one small segment.
	SmallSegmentSize = 16

	// BigPayloadMax is the largest request the big class accepts. Anything
	// above this fails: there is no large-object path.
	BigPayloadMax = 180

	// BigSegmentSize is the slot size big-class blocks occupy.
	BigSegmentSize = 192

	// SmallSegmentsPerPage is the small-class slot capacity of one page.
	SmallSegmentsPerPage = PageDataSize / SmallSegmentSize // 63

	// BigSegmentsPerPage is the big-class slot capacity of one page.
	BigSegmentsPerPage = PageDataSize / BigSegmentSize // 5
)

// ============================================================================
// Configuration Guards
// ============================================================================
// Each expression below is negative when its relationship is violated, and a
// negative untyped constant overflows uint, so a bad configuration fails to
// compile instead of silently corrupting page headers at run time.
const (
	// PageSize and PageShift must describe the same power of two.
	_ uint = PageSize - 1<<PageShift
	_ uint = 1<<PageShift - PageSize

	// The heap must divide into whole pages.
	_ uint = -(HeapSize % PageSize)

	// A segment must be able to hold its class's largest payload.
	_ uint = SmallSegmentSize - SmallPayloadMax
	_ uint = BigSegmentSize - BigPayloadMax

	// The class boundaries must be ordered, with the big class strictly
	// wider than the small one.
	_ uint = BigPayloadMax - SmallPayloadMax - 1

	// The header bitmap must have a bit for every segment of either class.
	// The current geometry leaves 65 spare bits on the small class.
	_ uint = PageHeaderBits - SmallSegmentsPerPage
	_ uint = PageHeaderBits - BigSegmentsPerPage

	// Each page must hold at least one segment of each class.
	_ uint = SmallSegmentsPerPage - 1
	_ uint = BigSegmentsPerPage - 1
)
