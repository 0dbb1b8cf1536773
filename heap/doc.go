// Package heap implements a fixed-size, two-class segment allocator over a
// flat 64KB byte buffer.
//
// # Overview
//
// This package carves a 64KB heap into 64 pages of 1KB each. Every page
// starts FREE and is promoted on demand to exactly one of two size classes,
// which it keeps until every segment in it is released:
//
//   - SMALL: 16-byte segments for payloads of 1-15 bytes (63 per page)
//   - BIG: 192-byte segments for payloads of 16-180 bytes (5 per page)
//
// The first 16 bytes of every page are a header holding the page's segment
// occupancy bitmap. The remaining 1008 bytes are segment storage. Which
// class a page belongs to, and how many of its segments are taken, lives in
// a page table held by the Heap itself rather than in the buffer.
//
// # Allocation
//
// Alloc classifies the request by size and runs a two-pass first-fit scan:
// first the lowest-indexed page of the right class with a spare segment,
// then promotion of the lowest-indexed FREE page. Allocation is therefore
// deterministic, and repeated alloc/free sequences pack toward low offsets.
//
//	h := heap.New()
//
//	ref, buf, err := h.Alloc(12)
//	if err != nil {
//	    return err
//	}
//	copy(buf, payload)
//
//	// Later, release the segment
//	h.Free(ref)
//
// All allocation failures, including oversized and non-positive requests,
// return ErrNoMemory.
//
// # Refs
//
// A Ref is the uint32 byte offset of a segment from the start of the heap
// buffer. Refs stay valid until freed (or until Reset), and the zero Ref is
// not distinguished from an invalid one, which is why Alloc's error result
// must be checked rather than its ref.
//
// # Free Semantics
//
// Free never reports failure. Refs that are out of bounds, point into a
// page header, are misaligned for their page's class, fall beyond the
// class's segment range, or name a segment that is already free are all
// silently ignored. Freeing the last live segment of a page reclaims the
// page to FREE and wipes its header, making it eligible for either class.
//
// # Persistence
//
// NewWithBuffer adopts a caller-owned buffer, and Resume additionally adopts
// a saved page-descriptor table, validating every descriptor against its
// page header before accepting it. The heap/image package builds on these to
// store heaps in files.
//
// # Thread Safety
//
// Heap instances are not thread-safe. Callers must synchronize access
// externally.
//
// # Related Packages
//
//   - github.com/joshuapare/heapkit/heap/dirty: Tracks modified pages for flushing
//   - github.com/joshuapare/heapkit/heap/image: File-backed heap images
//   - github.com/joshuapare/heapkit/internal/format: Heap geometry constants
package heap
