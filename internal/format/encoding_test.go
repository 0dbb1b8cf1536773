package format

import "testing"

func TestEncodingRoundTrip(t *testing.T) {
	b := make([]byte, 16)

	PutU32(b, 4, 0xDEADBEEF)
	if got := ReadU32(b, 4); got != 0xDEADBEEF {
		t.Fatalf("ReadU32 = 0x%x", got)
	}

	PutU16(b, 10, 0xBEEF)
	if got := ReadU16(b, 10); got != 0xBEEF {
		t.Fatalf("ReadU16 = 0x%x", got)
	}

	// Little-endian byte order on disk.
	if b[4] != 0xEF || b[5] != 0xBE || b[6] != 0xAD || b[7] != 0xDE {
		t.Fatalf("PutU32 wrote %x", b[4:8])
	}
}
