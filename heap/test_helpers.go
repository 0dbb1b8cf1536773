package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/bitmap"
	"github.com/joshuapare/heapkit/internal/format"
)

// ============================================================================
// Allocation Utilities
// ============================================================================

// mustAlloc allocates one block and fails the test on error.
func mustAlloc(t testing.TB, h *Heap, size int) (Ref, []byte) {
	t.Helper()

	ref, buf, err := h.Alloc(size)
	require.NoError(t, err, "alloc of %d bytes failed", size)
	require.Len(t, buf, size, "payload length should match request")
	return ref, buf
}

// allocN allocates n blocks of the given size and returns their refs.
func allocN(t testing.TB, h *Heap, size, n int) []Ref {
	t.Helper()

	refs := make([]Ref, n)
	for i := range refs {
		ref, _ := mustAlloc(t, h, size)
		refs[i] = ref
	}
	return refs
}

// ============================================================================
// Snapshots
// ============================================================================

// heapSnapshot captures the full observable state of a heap: the page table
// and every backing byte. Used to prove invalid operations are true no-ops.
type heapSnapshot struct {
	pages [format.PageCount]pageDesc
	buf   []byte
}

func snapshot(h *Heap) heapSnapshot {
	return heapSnapshot{
		pages: h.pages,
		buf:   append([]byte(nil), h.buf...),
	}
}

// assertUnchanged fails if anything observable differs from the snapshot.
func assertUnchanged(t testing.TB, h *Heap, snap heapSnapshot) {
	t.Helper()

	assert.Equal(t, snap.pages, h.pages, "page table changed")
	assert.Equal(t, snap.buf, h.buf, "heap bytes changed")
}

// ============================================================================
// Mock Dirty Tracker
// ============================================================================

// MockDirtyTracker is a spy that records all MarkPage() calls for testing.
type MockDirtyTracker struct {
	Calls []int
}

// newMockDirtyTracker creates a new mock dirty tracker.
func newMockDirtyTracker() *MockDirtyTracker {
	return &MockDirtyTracker{
		Calls: make([]int, 0, 32),
	}
}

// MarkPage records a dirty page.
func (m *MockDirtyTracker) MarkPage(page int) {
	m.Calls = append(m.Calls, page)
}

// WasCalledFor returns true if MarkPage() was called with the given page.
func (m *MockDirtyTracker) WasCalledFor(page int) bool {
	for _, p := range m.Calls {
		if p == page {
			return true
		}
	}
	return false
}

// CallCount returns the total number of MarkPage() calls.
func (m *MockDirtyTracker) CallCount() int {
	return len(m.Calls)
}

// Reset clears all recorded calls.
func (m *MockDirtyTracker) Reset() {
	m.Calls = m.Calls[:0]
}

// ============================================================================
// Invariant Checking
// ============================================================================

// assertInvariants checks every page descriptor against its header bitmap.
// Fails the test if any page violates the state rules.
func assertInvariants(t testing.TB, h *Heap) {
	t.Helper()

	for page := range h.pages {
		d := h.pages[page]
		hdr := h.header(page)
		allBits := bitmap.Popcount(hdr, format.PageHeaderBits)

		switch d.state {
		case PageFree:
			assert.Zero(t, d.used, "page %d: FREE with used=%d", page, d.used)
			assert.Zero(t, allBits, "page %d: FREE with %d header bits set", page, allBits)
		case PageSmall, PageBig:
			count := d.state.SegmentCount()
			inRange := bitmap.Popcount(hdr, count)
			assert.NotZero(t, d.used, "page %d: %v with no occupants", page, d.state)
			assert.LessOrEqual(t, int(d.used), count, "page %d: used exceeds capacity", page)
			assert.Equal(t, int(d.used), inRange, "page %d: used disagrees with bitmap", page)
			assert.Equal(t, inRange, allBits, "page %d: bits set beyond class range", page)
		default:
			assert.Fail(t, "unknown page state", "page %d: state %d", page, d.state)
		}
	}
}
