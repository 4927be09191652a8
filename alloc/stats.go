package alloc

// HeapStats is a snapshot of one heap's usage and counters.
type HeapStats struct {
	Start uintptr // First usable address
	Size  uintptr // Usable capacity in bytes

	FreeBytes   uintptr // Bytes on the free list
	FreeBlocks  int     // Number of free blocks
	LargestFree uintptr // Largest free block, header space included

	Live      int     // Outstanding allocations
	LiveBytes uintptr // Bytes held by outstanding allocations, headers and padding included

	Allocs           int // Allocate calls
	Frees            int // Deallocate calls
	Failures         int // Allocate calls that returned ErrNoSpace
	Splits           int // Free blocks split during allocation
	CoalesceForward  int // Releases merged with the following free block
	CoalesceBackward int // Releases merged into the preceding free block
}

// Region is a maximal run of free or used memory reported by Walk.
type Region struct {
	Addr uintptr
	Size uintptr
	Free bool
}

// Stats walks the free list and returns the heap's current usage.
func (h *Heap) Stats() HeapStats {
	s := HeapStats{
		Start:            h.start,
		Size:             h.Size(),
		Live:             h.stats.live,
		LiveBytes:        h.stats.liveBytes,
		Allocs:           h.stats.allocs,
		Frees:            h.stats.frees,
		Failures:         h.stats.failures,
		Splits:           h.stats.splits,
		CoalesceForward:  h.stats.coalesceForward,
		CoalesceBackward: h.stats.coalesceBackward,
	}
	for cur := h.free; cur != noBlock; cur = h.nextFree(cur) {
		size := uintptr(h.blockSize(cur))
		s.FreeBytes += size
		s.FreeBlocks++
		s.LargestFree = max(s.LargestFree, size)
	}
	return s
}

// Walk calls fn for every region of the heap in address order. Adjacent
// allocations are reported as one used region; free regions are exactly the
// free-list blocks.
func (h *Heap) Walk(fn func(Region)) {
	if h.Size() < MinFragment {
		return
	}
	pos := h.start
	for cur := h.free; cur != noBlock; cur = h.nextFree(cur) {
		a := h.addr(cur)
		if a > pos {
			fn(Region{Addr: pos, Size: a - pos})
		}
		size := uintptr(h.blockSize(cur))
		fn(Region{Addr: a, Size: size, Free: true})
		pos = a + size
	}
	if pos < h.end {
		fn(Region{Addr: pos, Size: h.end - pos})
	}
}
