package dirty

import (
	"testing"
)

// Test 1: OS Page Alignment.
func Test_Tracker_PageAlignment(t *testing.T) {
	tracker := NewTracker(1024)

	// Heap page 0 lives at file offset 1024, length 1024. Neither edge is
	// OS-page aligned.
	tracker.MarkPage(0)

	coalesced := tracker.Coalesced()

	// Start: 1024 rounds down to 0
	// End: 1024+1024=2048 rounds up to 4096
	if len(coalesced) != 1 {
		t.Fatalf("Expected 1 coalesced range, got %d", len(coalesced))
	}
	if coalesced[0].Off != 0 {
		t.Errorf("Start not aligned: got %d, want 0", coalesced[0].Off)
	}
	if coalesced[0].Len != 4096 {
		t.Errorf("Length not aligned: got %d, want 4096", coalesced[0].Len)
	}
}

// Test 2: Coalescing Adjacent Pages.
func Test_Tracker_Coalesce_Adjacent(t *testing.T) {
	tracker := NewTracker(0)

	// Heap pages 0-7 span OS pages 0 and 1.
	for page := 0; page < 8; page++ {
		tracker.MarkPage(page)
	}

	coalesced := tracker.Coalesced()

	if len(coalesced) != 1 {
		t.Fatalf("Expected 1 merged range, got %d", len(coalesced))
	}
	if coalesced[0].Off != 0 || coalesced[0].Len != 8192 {
		t.Errorf("Merged range: got {%d, %d}, want {0, 8192}", coalesced[0].Off, coalesced[0].Len)
	}
}

// Test 3: Separated Pages Stay Separate.
func Test_Tracker_Coalesce_Separated(t *testing.T) {
	tracker := NewTracker(0)

	// Heap page 0 is in OS page 0; heap page 32 (offset 32768) is in OS
	// page 8. Nothing in between is dirty.
	tracker.MarkPage(0)
	tracker.MarkPage(32)

	coalesced := tracker.Coalesced()

	if len(coalesced) != 2 {
		t.Fatalf("Expected 2 ranges, got %d", len(coalesced))
	}
	if coalesced[0].Off != 0 || coalesced[0].Len != 4096 {
		t.Errorf("First range: got {%d, %d}, want {0, 4096}", coalesced[0].Off, coalesced[0].Len)
	}
	if coalesced[1].Off != 32768 || coalesced[1].Len != 4096 {
		t.Errorf("Second range: got {%d, %d}, want {32768, 4096}", coalesced[1].Off, coalesced[1].Len)
	}
}

// Test 4: Repeated Marks Are Idempotent.
func Test_Tracker_RepeatedMarks(t *testing.T) {
	tracker := NewTracker(0)

	tracker.MarkPage(5)
	tracker.MarkPage(5)
	tracker.MarkPage(5)

	dirty := tracker.Dirty()
	if len(dirty) != 1 {
		t.Fatalf("Expected 1 dirty page, got %d", len(dirty))
	}
	if dirty[0].Off != 5*1024 || dirty[0].Len != 1024 {
		t.Errorf("Dirty range: got {%d, %d}, want {5120, 1024}", dirty[0].Off, dirty[0].Len)
	}
}

// Test 5: Out-of-Range Pages Ignored.
func Test_Tracker_OutOfRange(t *testing.T) {
	tracker := NewTracker(0)

	tracker.MarkPage(-1)
	tracker.MarkPage(64)
	tracker.MarkPage(1000)

	if got := tracker.Dirty(); len(got) != 0 {
		t.Errorf("Expected no dirty pages, got %d", len(got))
	}
}

// Test 6: Dirty Honors Base Offset and Order.
func Test_Tracker_DirtyBaseOffset(t *testing.T) {
	tracker := NewTracker(1024)

	// Mark out of order; Dirty reports in ascending page order.
	tracker.MarkPage(63)
	tracker.MarkPage(1)

	dirty := tracker.Dirty()
	if len(dirty) != 2 {
		t.Fatalf("Expected 2 dirty pages, got %d", len(dirty))
	}
	if dirty[0].Off != 1024+1*1024 {
		t.Errorf("First page offset: got %d, want %d", dirty[0].Off, 1024+1*1024)
	}
	if dirty[1].Off != 1024+63*1024 {
		t.Errorf("Second page offset: got %d, want %d", dirty[1].Off, 1024+63*1024)
	}
}

// Test 7: Header Marking.
func Test_Tracker_Header(t *testing.T) {
	tracker := NewTracker(1024)

	if tracker.HeaderDirty() {
		t.Error("New tracker should not have a dirty header")
	}
	tracker.MarkHeader()
	if !tracker.HeaderDirty() {
		t.Error("Header should be dirty after MarkHeader")
	}

	// Header marks do not produce data ranges.
	if got := tracker.Dirty(); len(got) != 0 {
		t.Errorf("Header mark produced %d data ranges", len(got))
	}
}

// Test 8: Reset Clears Everything.
func Test_Tracker_Reset(t *testing.T) {
	tracker := NewTracker(0)

	tracker.MarkPage(3)
	tracker.MarkPage(17)
	tracker.MarkHeader()

	tracker.Reset()

	if got := tracker.Dirty(); len(got) != 0 {
		t.Errorf("Expected no dirty pages after Reset, got %d", len(got))
	}
	if tracker.HeaderDirty() {
		t.Error("Header should not be dirty after Reset")
	}

	// The tracker stays usable after Reset.
	tracker.MarkPage(3)
	if got := tracker.Dirty(); len(got) != 1 {
		t.Errorf("Expected 1 dirty page after re-mark, got %d", len(got))
	}
}
