package heap

import "errors"

var (
	// ErrNoMemory is the only error Alloc returns. It covers every failure
	// cause the same way: zero or negative size, a request above BigMax,
	// and exhaustion of the requested class. Callers cannot distinguish
	// the causes from the return value; that opacity is part of the
	// allocator's contract.
	ErrNoMemory = errors.New("heap: out of memory")

	// ErrBadBuffer indicates a backing buffer whose length is not exactly
	// Size bytes.
	ErrBadBuffer = errors.New("heap: backing buffer must be exactly Size bytes")

	// ErrBadPageTable indicates a descriptor table that disagrees with the
	// page headers it describes. Returned by Resume when adopting state
	// that violates the heap's invariants.
	ErrBadPageTable = errors.New("heap: page table inconsistent with page headers")
)
