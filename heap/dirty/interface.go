package dirty

// DirtyTracker is the minimal interface for recording which heap pages have
// been modified. Implementations remember the pages so a later flush can
// write just those regions back to disk.
//
// This interface is intended for components that only need to notify about
// dirty pages but don't manage flushing themselves (e.g., the allocator).
type DirtyTracker interface {
	// MarkPage marks one heap page as dirty. Page indexes out of range
	// are ignored.
	MarkPage(page int)
}
