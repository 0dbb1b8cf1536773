package heap

import (
	"github.com/joshuapare/heapkit/internal/format"
)

// pageDesc is one entry of the page-descriptor table. The invariant tying it
// to the page header: used always equals the popcount of the header bitmap,
// and a PageFree page has a fully zero header.
type pageDesc struct {
	state PageState
	used  uint16
}

// PageDescriptor is the exported snapshot form of one page descriptor. It
// mirrors the entry serialized into heap image superblocks.
type PageDescriptor struct {
	State PageState
	Used  uint16
}

// pageBase returns the heap offset where page's bytes begin.
func pageBase(page int) int {
	return page << format.PageShift
}

// pageDataStart returns the heap offset of page's data region, just past the
// header bitmap.
func pageDataStart(page int) int {
	return pageBase(page) + format.PageHeaderSize
}

// header returns page's header bytes, which double as its occupancy bitmap.
func (h *Heap) header(page int) []byte {
	base := pageBase(page)
	return h.buf[base : base+format.PageHeaderSize]
}

// locateSegment maps a heap offset to the segment index it names inside
// page, for the class the page currently serves. ok is false when the offset
// points into the header region, is misaligned for the class, exceeds the
// class's segment range, or the page is FREE and serves nothing. The checks
// short-circuit in order, so the modulo never sees a negative offset.
func locateSegment(page, off int, st PageState) (seg int, ok bool) {
	segSize := st.SegmentSize()
	if segSize == 0 {
		return 0, false
	}
	rel := off - pageDataStart(page)
	if rel < 0 || rel%segSize != 0 {
		return 0, false
	}
	seg = rel / segSize
	if seg >= st.SegmentCount() {
		return 0, false
	}
	return seg, true
}

// toFree resets page to FREE and wipes its header bitmap. This is the only
// transition that touches the header; promotion relies on the header having
// been zeroed here (or by the constructor).
func (h *Heap) toFree(page int) {
	h.pages[page] = pageDesc{state: PageFree}
	clear(h.header(page))
}

// toSmall promotes page to the small class with no occupants yet. The
// caller immediately claims segment 0, so used moves 0 -> 1 in the engine,
// never here.
func (h *Heap) toSmall(page int) {
	h.pages[page] = pageDesc{state: PageSmall}
}

// toBig promotes page to the big class with no occupants yet.
func (h *Heap) toBig(page int) {
	h.pages[page] = pageDesc{state: PageBig}
}
