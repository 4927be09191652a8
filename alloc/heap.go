package alloc

import (
	"fmt"
	"math"

	"github.com/joshuapare/rkbfw/ram"
)

const (
	// noBlock terminates the free list.
	noBlock = math.MaxUint32

	// allocMagic is folded into the size word of an allocated block's header
	// so that a stray or already-freed pointer rarely decodes as valid.
	allocMagic uint32 = 0xA10C_0000
)

// Heap is a first-fit free-list allocator over one contiguous window.
//
// Layout of the window:
//
//	free block:      [size u32][next u32] ...
//	allocated block: [padding][block offset u32][block size ^ allocMagic u32][payload ...]
//
// Free blocks are linked in address order by window-relative offset, so
// neighbours can be coalesced on release. The header directly in front of a
// payload records where its block starts and how long it is, so Deallocate
// needs nothing but the pointer.
//
// A Heap is not safe for concurrent use; Root puts each one behind a
// lock.Mutex.
type Heap struct {
	mem    ram.Memory
	window Window
	start  uintptr // first granule-aligned address in the window
	end    uintptr // end of the last whole granule
	free   uint32  // offset of the first free block, or noBlock

	stats heapCounters
}

type heapCounters struct {
	allocs           int
	frees            int
	failures         int
	splits           int
	coalesceForward  int
	coalesceBackward int
	live             int
	liveBytes        uintptr
}

// NewHeap formats the window [start, start+size) of mem as a single free
// block. Partial granules at either end of the window are left unused.
func NewHeap(mem ram.Memory, start, size uintptr) *Heap {
	end := start + size
	if end < start || size > math.MaxUint32-granule {
		panic(fmt.Errorf("%w: [0x%08x, +%d) cannot be addressed by 32-bit offsets", ErrBadWindow, start, size))
	}

	h := &Heap{
		mem:    mem,
		window: Window{Start: start, Size: size},
		start:  alignUp(start, granule),
		end:    alignDown(end, granule),
		free:   noBlock,
	}
	if h.end < h.start {
		h.end = h.start
	}
	if h.end-h.start >= MinFragment {
		h.writeFree(0, uint32(h.end-h.start), noBlock)
		h.free = 0
	}
	return h
}

// Window returns the window the heap was created over.
func (h *Heap) Window() Window { return h.window }

// Start returns the first usable address.
func (h *Heap) Start() uintptr { return h.start }

// End returns the first address past the usable range.
func (h *Heap) End() uintptr { return h.end }

// Size returns the usable capacity in bytes, headers included.
func (h *Heap) Size() uintptr { return h.end - h.start }

// Contains reports whether addr lies in the usable range.
func (h *Heap) Contains(addr uintptr) bool {
	return addr >= h.start && addr < h.end
}

func (h *Heap) addr(off uint32) uintptr    { return h.start + uintptr(off) }
func (h *Heap) offset(addr uintptr) uint32 { return uint32(addr - h.start) }

func (h *Heap) blockSize(off uint32) uint32 { return h.mem.Load32(h.addr(off)) }
func (h *Heap) nextFree(off uint32) uint32  { return h.mem.Load32(h.addr(off) + 4) }

func (h *Heap) writeFree(off, size, next uint32) {
	a := h.addr(off)
	h.mem.Store32(a, size)
	h.mem.Store32(a+4, next)
}

// setNext points prev (or the list head when prev is noBlock) at next.
func (h *Heap) setNext(prev, next uint32) {
	if prev == noBlock {
		h.free = next
		return
	}
	h.mem.Store32(h.addr(prev)+4, next)
}

// Allocate carves a block for l out of the first free block that can hold it
// at the requested alignment. It returns ErrNoSpace if none can.
func (h *Heap) Allocate(l Layout) (Span, error) {
	if err := l.Validate(); err != nil {
		return Span{}, err
	}
	h.stats.allocs++

	align := l.alignment()
	need := l.payloadBytes()

	prev := uint32(noBlock)
	for cur := h.free; cur != noBlock; {
		blockStart := h.addr(cur)
		blockEnd := blockStart + uintptr(h.blockSize(cur))
		next := h.nextFree(cur)

		payload := alignUp(blockStart+headerSize, align)
		if payload >= blockEnd || need > blockEnd-payload {
			prev, cur = cur, next
			continue
		}

		usedEnd := payload + need
		if blockEnd-usedEnd < MinFragment {
			usedEnd = blockEnd
		}

		// Split the tail off first; it inherits cur's successor.
		link := next
		if usedEnd < blockEnd {
			link = h.offset(usedEnd)
			h.writeFree(link, uint32(blockEnd-usedEnd), next)
			h.stats.splits++
		}

		// Alignment padding large enough to stand alone stays on the list as a
		// shrunken cur; anything smaller is absorbed into the allocation.
		allocStart := blockStart
		if lead := payload - headerSize - blockStart; lead >= MinFragment {
			allocStart = payload - headerSize
			h.writeFree(cur, uint32(lead), link)
			h.stats.splits++
		} else {
			h.setNext(prev, link)
		}

		blockLen := usedEnd - allocStart
		h.mem.Store32(payload-headerSize, h.offset(allocStart))
		h.mem.Store32(payload-headerSize+4, uint32(blockLen)^allocMagic)

		h.stats.live++
		h.stats.liveBytes += blockLen
		return Span{Addr: payload, Size: usedEnd - payload}, nil
	}

	h.stats.failures++
	return Span{}, ErrNoSpace
}

// Deallocate returns the block holding addr to the free list and merges it
// with free neighbours. addr and l must come from a successful Allocate on
// this heap; metadata that does not match panics with ErrCorrupt.
func (h *Heap) Deallocate(addr uintptr, l Layout) {
	off, size := h.header(addr, l)

	h.stats.frees++
	h.stats.live--
	h.stats.liveBytes -= uintptr(size)

	h.release(off, size)
}

// header decodes and checks the in-band header in front of addr.
func (h *Heap) header(addr uintptr, l Layout) (uint32, uint32) {
	if addr < h.start+headerSize || addr >= h.end || addr%granule != 0 {
		panic(corruptf("0x%08x is not a payload address of heap [0x%08x, 0x%08x)", addr, h.start, h.end))
	}
	if l.Validate() != nil || addr%l.alignment() != 0 {
		panic(corruptf("layout %+v does not match the block at 0x%08x", l, addr))
	}

	off := h.mem.Load32(addr - headerSize)
	size := h.mem.Load32(addr-headerSize+4) ^ allocMagic

	headerOff := h.offset(addr - headerSize)
	switch {
	case off > headerOff:
		panic(corruptf("block at 0x%08x claims to start after its header", addr))
	case size < MinFragment || size%granule != 0:
		panic(corruptf("block at 0x%08x has invalid size %d", addr, size))
	case uintptr(off)+uintptr(size) > h.end-h.start:
		panic(corruptf("block at 0x%08x runs past the heap end", addr))
	case addr+l.payloadBytes() > h.addr(off)+uintptr(size):
		panic(corruptf("layout size %d exceeds the block at 0x%08x", l.Size, addr))
	}
	return off, size
}

// release inserts [off, off+size) into the address-ordered free list,
// coalescing with the predecessor and successor where they touch.
func (h *Heap) release(off, size uint32) {
	prev := uint32(noBlock)
	cur := h.free
	for cur != noBlock && cur < off {
		prev, cur = cur, h.nextFree(cur)
	}

	if cur != noBlock && off+size > cur {
		panic(corruptf("block 0x%08x overlaps free block 0x%08x (double free?)", h.addr(off), h.addr(cur)))
	}
	if prev != noBlock && prev+h.blockSize(prev) > off {
		panic(corruptf("block 0x%08x overlaps free block 0x%08x (double free?)", h.addr(off), h.addr(prev)))
	}

	next := cur
	if cur != noBlock && off+size == cur {
		size += h.blockSize(cur)
		next = h.nextFree(cur)
		h.stats.coalesceForward++
	}

	if prev != noBlock && prev+h.blockSize(prev) == off {
		h.writeFree(prev, h.blockSize(prev)+size, next)
		h.stats.coalesceBackward++
		return
	}

	h.writeFree(off, size, next)
	h.setNext(prev, off)
}
