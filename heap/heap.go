package heap

import (
	"fmt"

	"github.com/bytedance/gopkg/lang/dirtmake"

	"github.com/joshuapare/heapkit/internal/bitmap"
	"github.com/joshuapare/heapkit/internal/format"
)

// Heap is a fixed-size two-class segment allocator over a flat byte buffer.
// It owns the buffer's bookkeeping (page descriptors and per-page occupancy
// bitmaps stored in the page headers) for its whole lifetime; callers own
// only the refs and payload slices returned by Alloc.
//
// A Heap is not safe for concurrent use. Callers in concurrent settings
// must supply their own mutual exclusion.
type Heap struct {
	buf   []byte // backing store, always exactly Size bytes
	pages [format.PageCount]pageDesc

	// dt, when non-nil, is told about every page whose header or
	// descriptor changes. Nil costs one branch per mutation.
	dt DirtyTracker

	ops OpStats
}

// New returns a heap backed by a buffer it allocates itself, with every page
// FREE. The buffer is requested without zeroing; Reset wipes the page
// headers, which is the only part whose prior contents matter.
func New() *Heap {
	return newHeap(dirtmake.Bytes(format.HeapSize, format.HeapSize), nil)
}

// NewWithBuffer returns a heap that adopts buf as its backing store, wiping
// all bookkeeping so every page starts FREE. buf must be exactly Size bytes.
// dt may be nil.
func NewWithBuffer(buf []byte, dt DirtyTracker) (*Heap, error) {
	if len(buf) != format.HeapSize {
		return nil, ErrBadBuffer
	}
	return newHeap(buf, dt), nil
}

func newHeap(buf []byte, dt DirtyTracker) *Heap {
	h := &Heap{buf: buf, dt: dt}
	h.Reset()
	return h
}

// Resume returns a heap that adopts buf together with an existing page
// descriptor table, without wiping anything. Every descriptor is validated
// against its page header before adoption: the state byte must be defined,
// used must equal the header's popcount over the class's segment range, a
// FREE page must have an all-zero header, and no bits may be set beyond the
// class's range. Any violation fails with ErrBadPageTable.
func Resume(buf []byte, descs []PageDescriptor, dt DirtyTracker) (*Heap, error) {
	if len(buf) != format.HeapSize {
		return nil, ErrBadBuffer
	}
	if len(descs) != format.PageCount {
		return nil, fmt.Errorf("heap: %d descriptors for %d pages: %w",
			len(descs), format.PageCount, ErrBadPageTable)
	}
	h := &Heap{buf: buf, dt: dt}
	for page, d := range descs {
		if err := h.adoptPage(page, d); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// adoptPage validates one descriptor against its header and installs it.
func (h *Heap) adoptPage(page int, d PageDescriptor) error {
	if !d.State.valid() {
		return fmt.Errorf("heap: page %d has unknown state %d: %w",
			page, uint8(d.State), ErrBadPageTable)
	}
	hdr := h.header(page)
	allBits := bitmap.Popcount(hdr, format.PageHeaderBits)

	if d.State == PageFree {
		if d.Used != 0 || allBits != 0 {
			return fmt.Errorf("heap: page %d is FREE with used=%d, %d header bits set: %w",
				page, d.Used, allBits, ErrBadPageTable)
		}
	} else {
		count := d.State.SegmentCount()
		inRange := bitmap.Popcount(hdr, count)
		switch {
		case d.Used == 0:
			// A zero-occupancy page must have been reclaimed to FREE.
			return fmt.Errorf("heap: page %d is %v with no occupants: %w",
				page, d.State, ErrBadPageTable)
		case int(d.Used) > count:
			return fmt.Errorf("heap: page %d used=%d exceeds capacity %d: %w",
				page, d.Used, count, ErrBadPageTable)
		case inRange != int(d.Used):
			return fmt.Errorf("heap: page %d used=%d but %d header bits set: %w",
				page, d.Used, inRange, ErrBadPageTable)
		case allBits != inRange:
			return fmt.Errorf("heap: page %d has header bits beyond its %d segments: %w",
				page, count, ErrBadPageTable)
		}
	}

	h.pages[page] = pageDesc{state: d.State, used: d.Used}
	return nil
}

// Reset returns every page to FREE and wipes all page headers, restoring the
// freshly-constructed state. Live refs from before the reset become stale;
// freeing them afterwards is absorbed like any other invalid free.
func (h *Heap) Reset() {
	for page := range h.pages {
		h.toFree(page)
		h.markDirty(page)
	}
}

// Alloc returns a block of at least size bytes: its ref and a payload slice
// whose capacity runs to the end of the backing segment. Requests of
// 1..SmallMax bytes come from small pages, SmallMax+1..BigMax from big
// pages. Everything else, and exhaustion of the needed class, fails with
// ErrNoMemory; the cause is deliberately not distinguishable.
func (h *Heap) Alloc(size int) (Ref, []byte, error) {
	h.ops.AllocCalls++

	var st PageState
	switch {
	case size <= 0 || size > format.BigPayloadMax:
		h.ops.AllocFailed++
		return 0, nil, ErrNoMemory
	case size <= format.SmallPayloadMax:
		st = PageSmall
	default:
		st = PageBig
	}

	ref, mem, err := h.allocClass(st, size)
	if err != nil {
		h.ops.AllocFailed++
		debugLogf("alloc %d: %v class exhausted", size, st)
	}
	return ref, mem, err
}

// allocClass runs the two-pass search for one class: first an existing page
// of the class with a spare slot, then promotion of the first FREE page.
// Classes never borrow pages from each other, so a heap full of small pages
// fails big requests even when small slots remain.
func (h *Heap) allocClass(st PageState, size int) (Ref, []byte, error) {
	segSize := st.SegmentSize()
	segCount := st.SegmentCount()

	// Pass 1: lowest-indexed page of this class with room. Within the page
	// the bitmap scan is first-fit too, so allocations pack toward low
	// pages and low segments.
	for page := range h.pages {
		d := &h.pages[page]
		if d.state != st || int(d.used) >= segCount {
			continue
		}
		seg := bitmap.FindFree(h.header(page), segCount)
		if seg == bitmap.None {
			// Counter says there is room but the bitmap disagrees.
			// Unreachable while the invariants hold; treat the page
			// as full.
			continue
		}
		bitmap.Set(h.header(page), seg)
		d.used++
		h.markDirty(page)
		return h.segment(page, seg, segSize, size)
	}

	// Pass 2: promote the lowest-indexed FREE page and hand out its
	// segment 0.
	for page := range h.pages {
		if h.pages[page].state != PageFree {
			continue
		}
		if st == PageSmall {
			h.toSmall(page)
		} else {
			h.toBig(page)
		}
		bitmap.Set(h.header(page), 0)
		h.pages[page].used = 1
		h.ops.Promotions++
		h.markDirty(page)
		debugLogf("promoted page %d to %v", page, st)
		return h.segment(page, 0, segSize, size)
	}

	return 0, nil, ErrNoMemory
}

// segment returns the ref and payload slice for one segment. The slice is
// size bytes long with capacity to the segment boundary, so a caller can
// grow into its own slot but never past it.
func (h *Heap) segment(page, seg, segSize, size int) (Ref, []byte, error) {
	off := pageDataStart(page) + seg*segSize
	return Ref(off), h.buf[off : off+size : off+segSize], nil
}

// Free releases the block at ref. Every invalid input is silently ignored:
// refs outside the heap, refs into header regions, refs misaligned for
// their page's class, refs past the class's segment range, and refs whose
// segment is already free all leave the heap untouched. Free never reports
// an outcome; callers that pass speculative addresses rely on that.
func (h *Heap) Free(ref Ref) {
	h.ops.FreeCalls++

	off := int(ref)
	if off >= format.HeapSize {
		h.ops.FreeIgnored++
		return
	}
	page := off >> format.PageShift
	d := &h.pages[page]

	// An empty page has nothing to free. This also covers FREE pages and
	// doubles as the double-free guard for pages already reclaimed.
	if d.used == 0 {
		h.ops.FreeIgnored++
		return
	}

	seg, ok := locateSegment(page, off, d.state)
	if !ok {
		h.ops.FreeIgnored++
		return
	}
	hdr := h.header(page)
	if !bitmap.IsSet(hdr, seg) {
		h.ops.FreeIgnored++
		return
	}

	bitmap.Clear(hdr, seg)
	d.used--
	h.markDirty(page)
	if d.used == 0 {
		h.toFree(page)
		h.ops.Reclamations++
		debugLogf("reclaimed page %d", page)
	}
}

// Descriptors returns a snapshot of the page-descriptor table in page
// order, in the form serialized into heap images.
func (h *Heap) Descriptors() []PageDescriptor {
	out := make([]PageDescriptor, format.PageCount)
	for page, d := range h.pages {
		out[page] = PageDescriptor{State: d.state, Used: d.used}
	}
	return out
}

func (h *Heap) markDirty(page int) {
	if h.dt != nil {
		h.dt.MarkPage(page)
	}
}
