package heap

import "github.com/joshuapare/heapkit/internal/format"

// OpStats holds cumulative operation counters for instrumentation.
type OpStats struct {
	AllocCalls   int // Total Alloc() calls
	AllocFailed  int // Alloc() calls that returned ErrNoMemory
	FreeCalls    int // Total Free() calls
	FreeIgnored  int // Free() calls absorbed as no-ops
	Promotions   int // FREE pages promoted to a class
	Reclamations int // Class pages returned to FREE
}

// Stats is a point-in-time summary of heap occupancy. The occupancy fields
// are derived from the page table on each call rather than tracked
// incrementally, so they cannot drift from the real state.
type Stats struct {
	FreePages  int // Pages in state FREE
	SmallPages int // Pages in state SMALL
	BigPages   int // Pages in state BIG
	SmallUsed  int // Allocated small segments across all SMALL pages
	SmallCap   int // Total small segments across all SMALL pages
	BigUsed    int // Allocated big segments across all BIG pages
	BigCap     int // Total big segments across all BIG pages
	LiveBytes  int // Total segment bytes currently allocated

	Ops OpStats
}

// PageInfo describes a single page for inspection tooling.
type PageInfo struct {
	Index    int
	State    PageState
	Used     int // Allocated segments
	Capacity int // Segment slots in this page's class, 0 when FREE
}

// Stats scans the page table and returns a summary of the heap's state.
func (h *Heap) Stats() Stats {
	s := Stats{Ops: h.ops}
	for page := range h.pages {
		d := &h.pages[page]
		switch d.state {
		case PageSmall:
			s.SmallPages++
			s.SmallUsed += int(d.used)
			s.SmallCap += format.SmallSegmentsPerPage
		case PageBig:
			s.BigPages++
			s.BigUsed += int(d.used)
			s.BigCap += format.BigSegmentsPerPage
		default:
			s.FreePages++
		}
	}
	s.LiveBytes = s.SmallUsed*format.SmallSegmentSize + s.BigUsed*format.BigSegmentSize
	return s
}

// Page returns inspection info for one page. The second return is false
// when page is out of range.
func (h *Heap) Page(page int) (PageInfo, bool) {
	if page < 0 || page >= format.PageCount {
		return PageInfo{}, false
	}
	d := &h.pages[page]
	return PageInfo{
		Index:    page,
		State:    d.state,
		Used:     int(d.used),
		Capacity: d.state.SegmentCount(),
	}, true
}
