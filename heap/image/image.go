package image

import (
	"context"
	"fmt"
	"os"

	uuid "github.com/satori/go.uuid"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/dirty"
	"github.com/joshuapare/heapkit/internal/format"
)

// FlushMode is a type alias for the canonical flush modes defined in heap/dirty.
type FlushMode = dirty.FlushMode

// Flush mode re-exports, so image callers don't need a second import.
const (
	FlushAuto     = dirty.FlushAuto
	FlushDataOnly = dirty.FlushDataOnly
	FlushFull     = dirty.FlushFull
)

// Image is a file-backed heap: a superblock followed by the raw heap bytes.
// On Linux and macOS the file is memory-mapped read-write, so heap mutations
// land in the page cache directly and Flush only has to msync the dirty
// ranges. Elsewhere the file is read into memory and Flush writes the dirty
// ranges back.
//
// An Image is not safe for concurrent use.
type Image struct {
	f    *os.File
	data []byte // superblock + heap, ImageSize bytes
	heap *heap.Heap
	dt   *dirty.Tracker
	id   uuid.UUID
	path string
}

// Create creates a new heap image file at path with every page FREE and a
// freshly assigned identity. The file must not already exist. The image is
// flushed before Create returns, so a crash immediately afterwards still
// leaves an openable file.
func Create(path string) (*Image, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(format.ImageSize); err != nil {
		_ = f.Close()
		return nil, err
	}
	data, err := mapRW(f, format.ImageSize)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("image: map %s: %w", path, err)
	}

	id := uuid.NewV4()
	writeSuperblock(data, id)

	dt := dirty.NewTracker(format.SuperblockSize)
	dt.MarkHeader()
	h, err := heap.NewWithBuffer(data[format.SuperblockSize:], dt)
	if err != nil {
		_ = unmap(data)
		_ = f.Close()
		return nil, err
	}

	img := &Image{f: f, data: data, heap: h, dt: dt, id: id, path: path}
	if err := img.Flush(context.Background(), FlushAuto); err != nil {
		_ = img.Close()
		return nil, err
	}
	return img, nil
}

// Open opens an existing heap image file at path. The superblock is
// validated field by field against this build's geometry, and the stored
// page-descriptor table is validated against the heap's page headers, so a
// torn or corrupted image is refused rather than adopted.
func Open(path string) (*Image, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if st.Size() != format.ImageSize {
		_ = f.Close()
		return nil, fmt.Errorf("image: %s is %d bytes, want %d: %w",
			path, st.Size(), format.ImageSize, ErrBadSize)
	}

	data, err := mapRW(f, format.ImageSize)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("image: map %s: %w", path, err)
	}

	id, err := validateSuperblock(data)
	if err != nil {
		_ = unmap(data)
		_ = f.Close()
		return nil, err
	}

	dt := dirty.NewTracker(format.SuperblockSize)
	h, err := heap.Resume(data[format.SuperblockSize:], readDescriptors(data), dt)
	if err != nil {
		_ = unmap(data)
		_ = f.Close()
		return nil, err
	}

	return &Image{f: f, data: data, heap: h, dt: dt, id: id, path: path}, nil
}

// Heap returns the allocator backed by this image. It stays valid until
// Close.
func (img *Image) Heap() *heap.Heap {
	return img.heap
}

// UUID returns the image's identity, assigned at creation and stable across
// opens.
func (img *Image) UUID() uuid.UUID {
	return img.id
}

// Path returns the file path the image was created or opened with.
func (img *Image) Path() string {
	return img.path
}

// Flush persists all changes since the last flush: the current page
// descriptors and checksum are serialized into the superblock, dirty heap
// ranges are flushed, and then, unless mode is FlushDataOnly, the superblock
// region is flushed and the file descriptor synced (with F_FULLFSYNC on
// macOS when mode is FlushFull).
//
// The superblock shares its OS page with the first heap pages, so a data
// flush can carry superblock bytes with it. Write ordering within one flush
// is therefore not guaranteed; Open's validation is what rejects a torn
// image, not ordering.
//
// If ctx is cancelled partway through, some ranges may have been flushed
// while others have not; the tracker keeps its marks so the next Flush
// retries everything.
func (img *Image) Flush(ctx context.Context, mode FlushMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	writeDescriptors(img.data, img.heap.Descriptors())
	updateChecksum(img.data)

	if ranges := img.dt.Coalesced(); len(ranges) > 0 {
		if err := img.flushRanges(ranges); err != nil {
			return err
		}
	}

	if mode == FlushDataOnly {
		// The superblock still owes a sync; remember that for the next
		// full flush.
		img.dt.Reset()
		img.dt.MarkHeader()
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := img.flushSuperblock(); err != nil {
		return err
	}
	if err := img.syncFile(mode == FlushFull); err != nil {
		return err
	}
	img.dt.Reset()
	return nil
}

// Close unmaps the image and closes the file without flushing. Call Flush
// first if unflushed changes must survive.
func (img *Image) Close() error {
	var err error
	if img.data != nil {
		_ = unmap(img.data)
		img.data = nil
	}
	if img.f != nil {
		err = img.f.Close()
		img.f = nil
	}
	img.heap = nil
	return err
}
