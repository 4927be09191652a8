package alloc

// Allocator is the allocation capability handed to code that needs dynamic
// memory, including interrupt handlers.
//
// Implementations:
//   - *Root: the system allocator over all heaps, safe for concurrent use
//   - *Heap: a single window, for callers that hold its lock
type Allocator interface {
	// Allocate returns a span of at least l.Size bytes aligned to l.Align.
	Allocate(l Layout) (Span, error)

	// Deallocate releases a span previously returned by Allocate. addr and l
	// must match that call exactly.
	Deallocate(addr uintptr, l Layout)
}

var (
	_ Allocator = (*Root)(nil)
	_ Allocator = (*Heap)(nil)
)
