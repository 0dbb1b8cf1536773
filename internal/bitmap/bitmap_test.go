package bitmap

import "testing"

func TestSetClearIsSet(t *testing.T) {
	bm := make([]byte, 16)

	for _, i := range []int{0, 1, 7, 8, 62, 127} {
		if IsSet(bm, i) {
			t.Fatalf("bit %d set in fresh bitmap", i)
		}
		Set(bm, i)
		if !IsSet(bm, i) {
			t.Fatalf("bit %d not set after Set", i)
		}
		Clear(bm, i)
		if IsSet(bm, i) {
			t.Fatalf("bit %d still set after Clear", i)
		}
	}

	// Neighbor bits stay untouched.
	Set(bm, 9)
	if IsSet(bm, 8) || IsSet(bm, 10) {
		t.Fatalf("Set(9) disturbed neighbors: %08b", bm[1])
	}
}

func TestFindFreeFirstFit(t *testing.T) {
	bm := make([]byte, 8)

	if got := FindFree(bm, 63); got != 0 {
		t.Fatalf("FindFree on empty bitmap = %d, want 0", got)
	}

	// Occupying the low bits moves the result up one at a time.
	for i := 0; i < 20; i++ {
		Set(bm, i)
		if got := FindFree(bm, 63); got != i+1 {
			t.Fatalf("after setting 0..%d FindFree = %d, want %d", i, got, i+1)
		}
	}

	// A hole below the frontier wins again.
	Clear(bm, 4)
	if got := FindFree(bm, 63); got != 4 {
		t.Fatalf("FindFree with hole at 4 = %d", got)
	}
}

func TestFindFreeExhausted(t *testing.T) {
	bm := make([]byte, 8)
	for i := 0; i < 63; i++ {
		Set(bm, i)
	}
	// Bit 63 is clear but out of range; the bitmap is full for 63 bits.
	if got := FindFree(bm, 63); got != None {
		t.Fatalf("FindFree on full bitmap = %d, want None", got)
	}
	// The same bytes scanned with a wider range find bit 63.
	if got := FindFree(bm, 64); got != 63 {
		t.Fatalf("FindFree with 64-bit range = %d, want 63", got)
	}
}

func TestFindFreeShortRange(t *testing.T) {
	bm := make([]byte, 8)
	for i := 0; i < 5; i++ {
		Set(bm, i)
	}
	if got := FindFree(bm, 5); got != None {
		t.Fatalf("FindFree over 5 set bits = %d, want None", got)
	}
	Clear(bm, 2)
	if got := FindFree(bm, 5); got != 2 {
		t.Fatalf("FindFree = %d, want 2", got)
	}
}

func TestPopcount(t *testing.T) {
	bm := make([]byte, 8)
	if got := Popcount(bm, 63); got != 0 {
		t.Fatalf("Popcount empty = %d", got)
	}

	for _, i := range []int{0, 3, 8, 17, 62} {
		Set(bm, i)
	}
	if got := Popcount(bm, 63); got != 5 {
		t.Fatalf("Popcount = %d, want 5", got)
	}

	// Bits at or past bitCount do not count.
	Set(bm, 63)
	if got := Popcount(bm, 63); got != 5 {
		t.Fatalf("Popcount counted out-of-range bit: %d", got)
	}
	if got := Popcount(bm, 64); got != 6 {
		t.Fatalf("Popcount over 64 bits = %d, want 6", got)
	}
}
