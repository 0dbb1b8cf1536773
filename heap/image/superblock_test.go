package image

import (
	"testing"

	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/format"
)

func newTestSuperblock(t *testing.T) ([]byte, uuid.UUID) {
	t.Helper()

	data := make([]byte, format.ImageSize)
	id := uuid.NewV4()
	writeSuperblock(data, id)
	return data, id
}

func Test_Superblock_FreshIsValid(t *testing.T) {
	data, id := newTestSuperblock(t)

	got, err := validateSuperblock(data)
	require.NoError(t, err)
	assert.True(t, uuid.Equal(id, got))

	// Spot-check the raw fields.
	assert.Equal(t, format.SBSignature, data[0:4])
	assert.Equal(t, uint32(format.SBVersion), format.ReadU32(data, format.SBVersionOffset))
	assert.Equal(t, uint32(format.HeapSize), format.ReadU32(data, format.SBHeapSizeOffset))
	assert.Equal(t, uint32(format.PageSize), format.ReadU32(data, format.SBPageSizeOffset))
	assert.Equal(t, uint32(format.BigSegmentSize), format.ReadU32(data, format.SBBigSegmentOffset))
	assert.Zero(t, format.ReadU32(data, format.SBFlagsOffset))

	// Both identity copies present.
	assert.Equal(t,
		data[format.SBUUIDOffset:format.SBUUIDOffset+format.UUIDSize],
		data[format.SBUUIDCopyOffset:format.SBUUIDCopyOffset+format.UUIDSize])
}

func Test_Superblock_ValidationMatrix(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(data []byte)
		wantErr error
	}{
		{
			name:    "bad signature",
			corrupt: func(data []byte) { data[0] = 'X' },
			wantErr: ErrBadMagic,
		},
		{
			name:    "future version",
			corrupt: func(data []byte) { format.PutU32(data, format.SBVersionOffset, 2) },
			wantErr: ErrBadVersion,
		},
		{
			name:    "wrong heap size",
			corrupt: func(data []byte) { format.PutU32(data, format.SBHeapSizeOffset, 32768) },
			wantErr: ErrBadGeometry,
		},
		{
			name:    "wrong page size",
			corrupt: func(data []byte) { format.PutU32(data, format.SBPageSizeOffset, 4096) },
			wantErr: ErrBadGeometry,
		},
		{
			name:    "wrong segment size",
			corrupt: func(data []byte) { format.PutU32(data, format.SBSmallSegmentOffset, 32) },
			wantErr: ErrBadGeometry,
		},
		{
			name:    "unknown flags",
			corrupt: func(data []byte) { format.PutU32(data, format.SBFlagsOffset, 1) },
			wantErr: ErrBadGeometry,
		},
		{
			name: "nil identity",
			corrupt: func(data []byte) {
				clear(data[format.SBUUIDOffset : format.SBUUIDOffset+format.UUIDSize])
				clear(data[format.SBUUIDCopyOffset : format.SBUUIDCopyOffset+format.UUIDSize])
			},
			wantErr: ErrBadUUID,
		},
		{
			name: "identity copies disagree",
			corrupt: func(data []byte) {
				data[format.SBUUIDCopyOffset] ^= 0xFF
			},
			wantErr: ErrBadUUID,
		},
		{
			name: "flipped reserved byte",
			corrupt: func(data []byte) {
				// Untyped superblock byte between the descriptor table and
				// the identity backup; only the checksum notices.
				data[0x150] ^= 0xFF
			},
			wantErr: ErrBadChecksum,
		},
		{
			name: "flipped stored checksum",
			corrupt: func(data []byte) {
				data[format.SBChecksumOffset] ^= 0xFF
			},
			wantErr: ErrBadChecksum,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, _ := newTestSuperblock(t)
			tt.corrupt(data)

			_, err := validateSuperblock(data)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func Test_Superblock_DescriptorRoundTrip(t *testing.T) {
	data, _ := newTestSuperblock(t)

	descs := make([]heap.PageDescriptor, format.PageCount)
	descs[0] = heap.PageDescriptor{State: heap.PageSmall, Used: 63}
	descs[1] = heap.PageDescriptor{State: heap.PageBig, Used: 3}
	descs[63] = heap.PageDescriptor{State: heap.PageSmall, Used: 1}

	writeDescriptors(data, descs)
	updateChecksum(data)

	_, err := validateSuperblock(data)
	require.NoError(t, err, "descriptor edits plus checksum update must stay valid")

	assert.Equal(t, descs, readDescriptors(data))
}

func Test_Superblock_ChecksumTracksDescriptors(t *testing.T) {
	data, _ := newTestSuperblock(t)

	descs := readDescriptors(data)
	descs[7] = heap.PageDescriptor{State: heap.PageBig, Used: 2}
	writeDescriptors(data, descs)

	// Without the checksum update the superblock must no longer validate.
	_, err := validateSuperblock(data)
	assert.ErrorIs(t, err, ErrBadChecksum)

	updateChecksum(data)
	_, err = validateSuperblock(data)
	assert.NoError(t, err)
}
