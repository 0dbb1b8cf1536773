// Package image stores heaps in files.
//
// # Overview
//
// A heap image is a fixed-size file: a 1KB superblock followed by the raw
// 64KB heap. The superblock carries a signature, a format version, echoes of
// the compiled heap geometry, a random identity UUID (stored twice), the
// serialized page-descriptor table, and an XOR checksum. Open refuses any
// file whose superblock disagrees with the running build or whose descriptor
// table disagrees with the heap's page headers.
//
// # File Layout
//
//	0x000  signature "hkim"
//	0x004  format version
//	0x008  geometry echoes (heap, page, header, segment sizes)
//	0x020  identity UUID
//	0x040  page-descriptor table (4 bytes per page)
//	0x200  identity UUID, backup copy
//	0x3FC  superblock checksum
//	0x400  heap bytes
//
// # Usage Example
//
//	img, err := image.Create("cache.hkim")
//	if err != nil {
//	    return err
//	}
//	defer img.Close()
//
//	h := img.Heap()
//	ref, buf, err := h.Alloc(32)
//	if err != nil {
//	    return err
//	}
//	copy(buf, payload)
//
//	// Persist everything changed since the last flush
//	if err := img.Flush(ctx, image.FlushAuto); err != nil {
//	    return err
//	}
//
// # Durability
//
// The heap marks every page it touches in a dirty tracker. Flush coalesces
// the marks into OS-page-aligned ranges and syncs only those, then the
// superblock, then the file descriptor. FlushDataOnly skips the last two
// steps for callers batching several flushes; FlushFull adds F_FULLFSYNC on
// macOS. Close never flushes implicitly.
//
// # Thread Safety
//
// Image instances are not thread-safe. Callers must synchronize access
// externally.
//
// # Related Packages
//
//   - github.com/joshuapare/heapkit/heap: The allocator an image is built around
//   - github.com/joshuapare/heapkit/heap/dirty: Dirty-page tracking and flush modes
//   - github.com/joshuapare/heapkit/internal/format: Superblock layout constants
package image
