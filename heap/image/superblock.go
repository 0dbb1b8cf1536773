package image

import (
	"bytes"
	"fmt"

	uuid "github.com/satori/go.uuid"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/format"
)

// writeSuperblock lays down a fresh superblock over data: signature,
// version, geometry echoes, both identity copies, an all-FREE descriptor
// table, and the checksum.
func writeSuperblock(data []byte, id uuid.UUID) {
	sb := data[:format.SuperblockSize]
	clear(sb)
	copy(sb[format.SBSignatureOffset:], format.SBSignature)
	format.PutU32(sb, format.SBVersionOffset, format.SBVersion)
	format.PutU32(sb, format.SBHeapSizeOffset, format.HeapSize)
	format.PutU32(sb, format.SBPageSizeOffset, format.PageSize)
	format.PutU32(sb, format.SBPageHeaderSizeOffset, format.PageHeaderSize)
	format.PutU32(sb, format.SBSmallSegmentOffset, format.SmallSegmentSize)
	format.PutU32(sb, format.SBBigSegmentOffset, format.BigSegmentSize)
	copy(sb[format.SBUUIDOffset:], id.Bytes())
	copy(sb[format.SBUUIDCopyOffset:], id.Bytes())
	updateChecksum(data)
}

// writeDescriptors serializes the page table into the superblock. The
// checksum is not updated here; callers batch that with their other edits.
func writeDescriptors(data []byte, descs []heap.PageDescriptor) {
	for i, d := range descs {
		off := format.SBDescTableOffset + i*format.SBDescEntrySize
		data[off+format.SBDescStateOffset] = byte(d.State)
		data[off+format.SBDescReservedOffset] = 0
		format.PutU16(data, off+format.SBDescUsedOffset, d.Used)
	}
}

// readDescriptors decodes the page table from the superblock.
func readDescriptors(data []byte) []heap.PageDescriptor {
	descs := make([]heap.PageDescriptor, format.PageCount)
	for i := range descs {
		off := format.SBDescTableOffset + i*format.SBDescEntrySize
		descs[i] = heap.PageDescriptor{
			State: heap.PageState(data[off+format.SBDescStateOffset]),
			Used:  format.ReadU16(data, off+format.SBDescUsedOffset),
		}
	}
	return descs
}

// superblockChecksum computes the XOR checksum over the dwords ahead of
// the checksum field.
func superblockChecksum(data []byte) uint32 {
	var xor uint32
	for i := 0; i < format.SBChecksumDwords; i++ {
		xor ^= format.ReadU32(data, i*4)
	}
	return xor
}

// updateChecksum recomputes and stores the superblock checksum.
func updateChecksum(data []byte) {
	format.PutU32(data, format.SBChecksumOffset, superblockChecksum(data))
}

// validateSuperblock checks every superblock field against this build's
// compiled geometry and returns the image identity. Field checks run before
// the checksum so the caller gets the most specific error available.
func validateSuperblock(data []byte) (uuid.UUID, error) {
	sb := data[:format.SuperblockSize]

	sig := sb[format.SBSignatureOffset : format.SBSignatureOffset+format.SBSignatureSize]
	if !bytes.Equal(sig, format.SBSignature) {
		return uuid.Nil, fmt.Errorf("image: signature %q: %w", sig, ErrBadMagic)
	}
	if got := format.ReadU32(sb, format.SBVersionOffset); got != format.SBVersion {
		return uuid.Nil, fmt.Errorf("image: version %d, supported %d: %w",
			got, format.SBVersion, ErrBadVersion)
	}

	geometry := []struct {
		name string
		off  int
		want uint32
	}{
		{"heap size", format.SBHeapSizeOffset, format.HeapSize},
		{"page size", format.SBPageSizeOffset, format.PageSize},
		{"page header size", format.SBPageHeaderSizeOffset, format.PageHeaderSize},
		{"small segment size", format.SBSmallSegmentOffset, format.SmallSegmentSize},
		{"big segment size", format.SBBigSegmentOffset, format.BigSegmentSize},
	}
	for _, g := range geometry {
		if got := format.ReadU32(sb, g.off); got != g.want {
			return uuid.Nil, fmt.Errorf("image: %s %d, compiled for %d: %w",
				g.name, got, g.want, ErrBadGeometry)
		}
	}
	if got := format.ReadU32(sb, format.SBFlagsOffset); got != 0 {
		return uuid.Nil, fmt.Errorf("image: unknown flags %#x: %w", got, ErrBadGeometry)
	}

	id, err := uuid.FromBytes(sb[format.SBUUIDOffset : format.SBUUIDOffset+format.UUIDSize])
	if err != nil {
		return uuid.Nil, fmt.Errorf("image: identity: %v: %w", err, ErrBadUUID)
	}
	if uuid.Equal(id, uuid.Nil) {
		return uuid.Nil, fmt.Errorf("image: nil identity: %w", ErrBadUUID)
	}
	backup, err := uuid.FromBytes(sb[format.SBUUIDCopyOffset : format.SBUUIDCopyOffset+format.UUIDSize])
	if err != nil || !uuid.Equal(id, backup) {
		return uuid.Nil, fmt.Errorf("image: identity copies disagree: %w", ErrBadUUID)
	}

	if got, want := format.ReadU32(sb, format.SBChecksumOffset), superblockChecksum(sb); got != want {
		return uuid.Nil, fmt.Errorf("image: checksum %#08x, computed %#08x: %w",
			got, want, ErrBadChecksum)
	}
	return id, nil
}
