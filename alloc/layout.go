package alloc

import "fmt"

const (
	// WordSize is the platform's natural alignment. Every payload is at least
	// word-aligned (in practice granule-aligned).
	WordSize = 4

	// granule is the block size and block alignment unit.
	granule = 8

	// headerSize is the in-band header kept in front of every payload.
	headerSize = 8

	// MinFragment is the smallest block that is split off and kept on the free
	// list. Smaller remainders stay attached to the allocation.
	MinFragment = 16

	// maxAllocSize bounds Size and Align so block arithmetic cannot overflow
	// the 32-bit in-band fields.
	maxAllocSize = 1 << 30
)

// Layout describes an allocation request.
type Layout struct {
	Size  uintptr // Requested bytes. Zero is served as a minimal block.
	Align uintptr // Required alignment, a power of two. Zero means WordSize.
}

// NewLayout returns a validated layout.
func NewLayout(size, align uintptr) (Layout, error) {
	l := Layout{Size: size, Align: align}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Validate checks that the layout can be served by a heap.
func (l Layout) Validate() error {
	if l.Align&(l.Align-1) != 0 {
		return fmt.Errorf("%w: alignment %d is not a power of two", ErrBadLayout, l.Align)
	}
	if l.Align > maxAllocSize {
		return fmt.Errorf("%w: alignment %d exceeds %d", ErrBadLayout, l.Align, maxAllocSize)
	}
	if l.Size > maxAllocSize {
		return fmt.Errorf("%w: size %d exceeds %d", ErrBadLayout, l.Size, maxAllocSize)
	}
	return nil
}

// alignment is the effective payload alignment.
func (l Layout) alignment() uintptr {
	return max(l.Align, granule)
}

// payloadBytes is the payload size rounded up to whole granules.
func (l Layout) payloadBytes() uintptr {
	return alignUp(max(l.Size, 1), granule)
}

// Span is the address range handed to a caller. Size may exceed the requested
// size when a remainder was too small to split off.
type Span struct {
	Addr uintptr
	Size uintptr
}

// End returns the first address past the span.
func (s Span) End() uintptr { return s.Addr + s.Size }

// alignUp rounds n up to a multiple of a, a power of two.
//
// Example:
//
//	alignUp(1, 8)  = 8
//	alignUp(8, 8)  = 8
//	alignUp(9, 8)  = 16
func alignUp(n, a uintptr) uintptr {
	return (n + a - 1) &^ (a - 1)
}

// alignDown rounds n down to a multiple of a, a power of two.
func alignDown(n, a uintptr) uintptr {
	return n &^ (a - 1)
}
