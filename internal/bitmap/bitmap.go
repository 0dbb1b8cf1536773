// Package bitmap implements the bit-level operations behind per-page
// occupancy bitmaps: single-bit set/clear/test, a deterministic first-fit
// scan for a clear bit, and a ranged popcount.
//
// None of the operations validate bounds. Callers are expected to have
// validated index < bitCount and len(bm)*8 >= bitCount already; the heap
// engine owns that discipline, and repeating it at every bit access would
// double the cost of the hot path.
package bitmap

import "math/bits"

// None is returned by FindFree when every bit in range is already set.
const None = -1

// Set sets bit i.
func Set(bm []byte, i int) {
	bm[i>>3] |= 1 << (i & 7)
}

// Clear clears bit i.
func Clear(bm []byte, i int) {
	bm[i>>3] &^= 1 << (i & 7)
}

// IsSet reports whether bit i is set.
func IsSet(bm []byte, i int) bool {
	return bm[i>>3]&(1<<(i&7)) != 0
}

// FindFree returns the index of the lowest clear bit among the first
// bitCount bits, or None when all of them are set. The scan is strict
// first-fit: the lowest index always wins, which concentrates use in
// low-numbered slots and leaves high slots untouched longest.
func FindFree(bm []byte, bitCount int) int {
	for byteIdx := 0; byteIdx*8 < bitCount; byteIdx++ {
		b := bm[byteIdx]
		if b == 0xFF {
			continue
		}
		// First clear bit lives in this byte. If it falls past bitCount,
		// every in-range bit before it is set, so the scan is over.
		i := byteIdx*8 + bits.TrailingZeros8(^b)
		if i >= bitCount {
			return None
		}
		return i
	}
	return None
}

// Popcount returns the number of set bits among the first bitCount bits.
func Popcount(bm []byte, bitCount int) int {
	n := 0
	full := bitCount / 8
	for _, b := range bm[:full] {
		n += bits.OnesCount8(b)
	}
	if rem := bitCount % 8; rem != 0 {
		n += bits.OnesCount8(bm[full] & (1<<rem - 1))
	}
	return n
}
