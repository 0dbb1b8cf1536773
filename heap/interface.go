package heap

import "github.com/joshuapare/heapkit/heap/dirty"

// DirtyTracker is a type alias for the canonical interface defined in heap/dirty.
// This alias maintains backward compatibility while avoiding duplicate interface definitions.
type DirtyTracker = dirty.DirtyTracker
