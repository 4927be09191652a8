package alloc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/rkbfw/ram"
)

const (
	testBase  uintptr = 0x1000_0000
	testShift         = 12 // 4 KiB slots
	testSlot  uintptr = 1 << testShift

	// testGap is the unmanaged prefix of slot 0, standing in for static data
	// below the linker's heap start.
	testGap uintptr = 0x100
)

// newTestArena maps size bytes at base for the duration of the test.
func newTestArena(t *testing.T, base, size uintptr) *ram.Arena {
	t.Helper()
	a, err := ram.NewArena(base, size)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// newTestHeap returns a heap spanning a fresh arena of the given size.
func newTestHeap(t *testing.T, size uintptr) (*Heap, *ram.Arena) {
	t.Helper()
	a := newTestArena(t, testBase, size)
	return NewHeap(a, testBase, size), a
}

// testMap returns four 4 KiB slots with window 0 starting testGap bytes in.
func testMap(t *testing.T) Map {
	t.Helper()
	m, err := NewMap(testBase, testShift, [NumHeaps]Window{
		{Start: testBase + testGap, Size: testSlot - testGap},
		{Start: testBase + 1*testSlot, Size: testSlot},
		{Start: testBase + 2*testSlot, Size: testSlot},
		{Start: testBase + 3*testSlot, Size: testSlot},
	})
	require.NoError(t, err)
	return m
}

// newTestRoot returns an unguarded root over testMap.
func newTestRoot(t *testing.T) (*Root, *ram.Arena) {
	t.Helper()
	m := testMap(t)
	base, size := m.Region()
	a := newTestArena(t, base, size)
	return newRoot(a, m), a
}

// requirePanicsWith asserts that fn panics with an error wrapping target.
func requirePanicsWith(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected panic wrapping %v", target)
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		require.True(t, errors.Is(err, target), "panic %v does not wrap %v", err, target)
	}()
	fn()
}

// mustAllocate allocates l from a and fails the test on error.
func mustAllocate(t *testing.T, a Allocator, l Layout) Span {
	t.Helper()
	s, err := a.Allocate(l)
	require.NoError(t, err, "allocate %+v", l)
	return s
}

// fill writes a pattern derived from seed over the span.
func fill(mem ram.Memory, s Span, seed byte) {
	b := mem.Bytes(s.Addr, s.Size)
	for i := range b {
		b[i] = seed + byte(i)
	}
}

// requireFilled checks the pattern written by fill.
func requireFilled(t *testing.T, mem ram.Memory, s Span, seed byte) {
	t.Helper()
	b := mem.Bytes(s.Addr, s.Size)
	for i := range b {
		if b[i] != seed+byte(i) {
			require.Failf(t, "payload overwritten", "span 0x%08x byte %d: got %d want %d", s.Addr, i, b[i], seed+byte(i))
		}
	}
}

// assertHeapInvariants checks the free list of h:
//   - blocks are in strictly increasing address order and inside the heap
//   - every block is granule-sized and at least MinFragment
//   - no two free blocks touch (release must have coalesced them)
//   - free bytes plus live bytes account for the whole heap
func assertHeapInvariants(t *testing.T, h *Heap) {
	t.Helper()

	var prevEnd uintptr
	first := true
	for cur := h.free; cur != noBlock; cur = h.nextFree(cur) {
		a := h.addr(cur)
		size := uintptr(h.blockSize(cur))

		require.True(t, h.Contains(a), "free block 0x%08x outside heap", a)
		require.LessOrEqual(t, a+size, h.End(), "free block 0x%08x runs past heap end", a)
		require.Zero(t, size%granule, "free block 0x%08x size %d not granule-sized", a, size)
		require.GreaterOrEqual(t, size, uintptr(MinFragment), "free block 0x%08x below MinFragment", a)
		if !first {
			require.Greater(t, a, prevEnd, "free block 0x%08x touches or overlaps its predecessor", a)
		}
		prevEnd = a + size
		first = false
	}

	s := h.Stats()
	require.Equal(t, s.Size, s.FreeBytes+s.LiveBytes, "free %d + live %d must cover the heap", s.FreeBytes, s.LiveBytes)
}
