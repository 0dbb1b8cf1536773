package format

// ============================================================================
// Heap Image Superblock Constants
// ============================================================================
// A heap image file is a fixed-size superblock followed immediately by the
// raw heap bytes. The superblock records the geometry the image was written
// with so an opener can refuse a file that does not match the compiled
// constants, plus identity and integrity fields.

var (
	// SBSignature is the four-byte signature at the start of every heap
	// image file.
	// Layout:
	//   0x00  'h' 'k' 'i' 'm'
	SBSignature = []byte{'h', 'k', 'i', 'm'}
)

const (
	// SuperblockSize is the size of the on-disk superblock in bytes. The
	// heap region begins at exactly this offset.
	SuperblockSize = 1024

	// ImageSize is the total size of a heap image file.
	ImageSize = SuperblockSize + HeapSize

	// SBVersion is the current image format version. Openers reject any
	// other value; there is no cross-version migration.
	SBVersion = 1
)

// Superblock field offsets.
const (
	SBSignatureOffset = 0x000 // 4 bytes, "hkim"
	SBSignatureSize   = 4
	SBVersionOffset   = 0x004 // uint32, format version

	// Geometry echoes. Each must equal its compiled counterpart on open;
	// a mismatch means the image was written by a differently-tuned build.
	SBHeapSizeOffset       = 0x008 // uint32, HeapSize
	SBPageSizeOffset       = 0x00C // uint32, PageSize
	SBPageHeaderSizeOffset = 0x010 // uint32, PageHeaderSize
	SBSmallSegmentOffset   = 0x014 // uint32, SmallSegmentSize
	SBBigSegmentOffset     = 0x018 // uint32, BigSegmentSize

	// SBFlagsOffset is reserved for future use and must read zero.
	SBFlagsOffset = 0x01C // uint32

	// SBUUIDOffset is the image identity, assigned once at creation.
	SBUUIDOffset = 0x020 // 16 bytes

	// SBDescTableOffset is the serialized page-descriptor table, one entry
	// per heap page.
	SBDescTableOffset = 0x040

	// SBUUIDCopyOffset is a second copy of the identity UUID at the
	// superblock midpoint. Both copies must agree on open; a lone corrupted
	// sector cannot silently change the image's identity.
	SBUUIDCopyOffset = SuperblockSize / 2 // 0x200

	// SBChecksumOffset is an XOR checksum over every superblock dword
	// before it, stored in the last four bytes.
	SBChecksumOffset = SuperblockSize - 4 // 0x3FC
)

// UUIDSize is the size of the identity field (RFC 4122).
const UUIDSize = 16

// Descriptor table entry layout. One entry mirrors one page descriptor:
//
//	0x00  uint8   page state (free / small / big)
//	0x01  uint8   reserved, must be zero
//	0x02  uint16  used segment count
const (
	SBDescEntrySize       = 4
	SBDescStateOffset     = 0x00
	SBDescReservedOffset  = 0x01
	SBDescUsedOffset      = 0x02
	SBDescTableSize       = PageCount * SBDescEntrySize
	SBDescTableEndOffset  = SBDescTableOffset + SBDescTableSize // 0x140
)

// The checksum covers the superblock up to its own field: 255 dwords.
const (
	SBChecksumRegionLen = SBChecksumOffset
	SBChecksumDwords    = SBChecksumRegionLen / 4
)

// Layout guards, in the spirit of the geometry guards in consts.go.
const (
	// The descriptor table must end before the UUID backup copy.
	_ uint = SBUUIDCopyOffset - SBDescTableEndOffset

	// The UUID backup must end before the checksum field.
	_ uint = SBChecksumOffset - (SBUUIDCopyOffset + UUIDSize)

	// The checksum region must cover whole dwords.
	_ uint = -(SBChecksumRegionLen % 4)
)
