package alloc

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSpace indicates that no free block large enough was found. From a
	// Heap it is local to that heap; from a Root it means every heap failed.
	ErrNoSpace = errors.New("alloc: no free block large enough")

	// ErrBadLayout indicates a size/alignment pair the allocator cannot serve.
	ErrBadLayout = errors.New("alloc: invalid layout")

	// ErrBadWindow indicates a heap window or address map that violates the
	// partitioning rules.
	ErrBadWindow = errors.New("alloc: invalid heap window")

	// ErrDoubleInit is the panic value (wrapped) of a second NewRoot call.
	ErrDoubleInit = errors.New("alloc: heap root already initialized")

	// ErrForeignPointer is the panic value (wrapped) of a deallocation whose
	// address lies outside every heap window.
	ErrForeignPointer = errors.New("alloc: pointer outside heap range")

	// ErrCorrupt is the panic value (wrapped) of a deallocation whose block
	// metadata does not match the heap or the layout, including double frees.
	ErrCorrupt = errors.New("alloc: heap corruption")
)

func corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrCorrupt}, args...)...)
}
