package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joshuapare/heapkit/internal/bitmap"
	"github.com/joshuapare/heapkit/internal/format"
)

func Test_PageState_String(t *testing.T) {
	assert.Equal(t, "FREE", PageFree.String())
	assert.Equal(t, "SMALL", PageSmall.String())
	assert.Equal(t, "BIG", PageBig.String())
	assert.Equal(t, "PageState(9)", PageState(9).String())
}

func Test_PageState_Geometry(t *testing.T) {
	tests := []struct {
		state PageState
		size  int
		count int
	}{
		{PageFree, 0, 0},
		{PageSmall, 16, 63},
		{PageBig, 192, 5},
		{PageState(7), 0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.size, tt.state.SegmentSize(), "%v segment size", tt.state)
		assert.Equal(t, tt.count, tt.state.SegmentCount(), "%v segment count", tt.state)
	}
}

func Test_PageTransitions(t *testing.T) {
	h := New()

	h.toSmall(5)
	assert.Equal(t, PageSmall, h.pages[5].state)

	// Dirty the header the way a live page would, then reclaim.
	bitmap.Set(h.header(5), 0)
	bitmap.Set(h.header(5), 62)
	h.pages[5].used = 2

	h.toFree(5)
	assert.Equal(t, PageFree, h.pages[5].state)
	assert.Zero(t, h.pages[5].used)
	assert.Zero(t, bitmap.Popcount(h.header(5), format.PageHeaderBits),
		"reclaim must wipe the whole header")

	h.toBig(5)
	assert.Equal(t, PageBig, h.pages[5].state)
}

func Test_LocateSegment(t *testing.T) {
	dataStart := func(page int) int {
		return page<<format.PageShift + format.PageHeaderSize
	}

	tests := []struct {
		name    string
		page    int
		off     int
		state   PageState
		wantSeg int
		wantOK  bool
	}{
		{"small seg 0", 0, dataStart(0), PageSmall, 0, true},
		{"small seg 1", 0, dataStart(0) + 16, PageSmall, 1, true},
		{"small last seg", 0, dataStart(0) + 62*16, PageSmall, 62, true},
		{"small high page", 63, dataStart(63) + 10*16, PageSmall, 10, true},
		{"big seg 0", 0, dataStart(0), PageBig, 0, true},
		{"big last seg", 2, dataStart(2) + 4*192, PageBig, 4, true},
		{"free page", 0, dataStart(0), PageFree, 0, false},
		{"header byte", 0, 8, PageSmall, 0, false},
		{"page base", 3, 3 << format.PageShift, PageBig, 0, false},
		{"misaligned small", 0, dataStart(0) + 5, PageSmall, 0, false},
		{"misaligned big", 0, dataStart(0) + 100, PageBig, 0, false},
		{"big tail", 0, dataStart(0) + 5*192, PageBig, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seg, ok := locateSegment(tt.page, tt.off, tt.state)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantSeg, seg)
			}
		})
	}
}

func Test_Descriptors_Snapshot(t *testing.T) {
	h := New()
	allocN(t, h, 8, 2)
	allocN(t, h, 100, 1)

	descs := h.Descriptors()
	assert.Len(t, descs, PageCount)
	assert.Equal(t, PageDescriptor{State: PageSmall, Used: 2}, descs[0])
	assert.Equal(t, PageDescriptor{State: PageBig, Used: 1}, descs[1])
	assert.Equal(t, PageDescriptor{State: PageFree}, descs[2])

	// The snapshot is detached from the live table.
	descs[0].Used = 99
	fresh := h.Descriptors()
	assert.Equal(t, uint16(2), fresh[0].Used)
}
