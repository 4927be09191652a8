// Package alloc provides the segmented multi-heap allocator of the RKB1
// firmware.
//
// # Overview
//
// RAM is statically split into NumHeaps windows, each managed by its own Heap
// behind its own lock.Mutex. A Root owns the heaps:
//
//   - Allocate picks a starting heap with a shared round-robin counter and
//     tries every heap once, in order, before failing with ErrNoSpace.
//   - Deallocate recovers the owning heap purely from the pointer's address
//     (Map.Index), locks it and releases the block there.
//
// Interrupt handlers at different priorities that land on different heaps
// never contend with each other.
//
// # Heap
//
// A Heap is a first-fit free list over one window:
//
//   - free blocks are linked in address order, in-band
//   - allocation splits leading alignment padding and trailing space off as
//     free blocks when they are at least MinFragment bytes
//   - each payload is preceded by an 8-byte header naming its block, so
//     release needs only the pointer and layout
//   - release coalesces with the preceding and following free blocks
//
// Payloads are 8-byte aligned; larger alignments are satisfied by looking for
// a block with enough headroom.
//
// # Address Map
//
// The RP2040 layout (RP2040Map) uses four 64 KiB slots from 0x2000_0000:
//
//	Heap 0: linker heap start - 0x2000_FFFF
//	Heap 1: 0x2001_0000 - 0x2001_FFFF
//	Heap 2: 0x2002_0000 - 0x2002_FFFF
//	Heap 3: 0x2003_0000 - 0x2003_FFFF
//
// Any address outside these windows reaching Deallocate is treated as a
// foreign pointer and panics.
//
// # Usage Example
//
//	root, err := alloc.NewDeviceRoot()
//	if err != nil {
//	    panic(err)
//	}
//
//	l := alloc.Layout{Size: 64, Align: 8}
//	span, err := root.Allocate(l)
//	if err != nil {
//	    return err
//	}
//	defer root.Deallocate(span.Addr, l)
//
// NewDeviceRoot (tinygo builds only) takes heap 0's start from the linker's
// _heap_start symbol. Host code picks a start and an arena itself:
//
//	mem, _ := ram.NewArena(alloc.RP2040SRAMBase, alloc.RP2040SRAMEnd-alloc.RP2040SRAMBase)
//	root, err := alloc.NewRP2040Root(mem, 0x2000_1000)
//
// # Fatal Conditions
//
// NewRoot may run once per process (ErrDoubleInit). Deallocating a foreign
// pointer (ErrForeignPointer) or a pointer whose in-band header does not
// match (ErrCorrupt) panics: continuing would mean writing to arbitrary
// memory.
//
// # Thread Safety
//
// Root is safe for concurrent use from main-line code and interrupt handlers.
// A bare Heap is not; take its lock through Root.Heap or Root.HeapFor.
//
// # Related Packages
//
//   - github.com/joshuapare/rkbfw/lock: the spin mutex guarding each heap
//   - github.com/joshuapare/rkbfw/ram: word access to the managed memory
package alloc
