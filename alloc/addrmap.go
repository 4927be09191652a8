package alloc

import "fmt"

// NumHeaps is the number of heap windows RAM is partitioned into.
const NumHeaps = 4

// RP2040 SRAM layout: four 64 KiB striped banks from 0x2000_0000.
const (
	RP2040SRAMBase    uintptr = 0x2000_0000
	RP2040WindowShift         = 16
	RP2040SRAMEnd             = RP2040SRAMBase + NumHeaps<<RP2040WindowShift
)

// Window is one contiguous heap address range [Start, Start+Size).
type Window struct {
	Start uintptr
	Size  uintptr
}

// End returns the first address past the window.
func (w Window) End() uintptr { return w.Start + w.Size }

// Contains reports whether addr lies inside the window.
func (w Window) Contains(addr uintptr) bool {
	return addr >= w.Start && addr-w.Start < w.Size
}

// Map assigns NumHeaps windows to fixed, naturally aligned slots: slot i
// covers [base + i<<shift, base + (i+1)<<shift) and window i must lie inside
// it. The owning heap of an address is therefore a pure function of the
// address.
type Map struct {
	base    uintptr
	shift   uint
	windows [NumHeaps]Window
}

// NewMap validates and returns an address map.
func NewMap(base uintptr, shift uint, windows [NumHeaps]Window) (Map, error) {
	if shift < 4 || shift > 30 {
		return Map{}, fmt.Errorf("%w: slot shift %d outside [4, 30]", ErrBadWindow, shift)
	}
	slot := uintptr(1) << shift
	if base%slot != 0 {
		return Map{}, fmt.Errorf("%w: base 0x%08x is not aligned to the %d-byte slot", ErrBadWindow, base, slot)
	}
	if base+NumHeaps*slot < base {
		return Map{}, fmt.Errorf("%w: slots from 0x%08x wrap the address space", ErrBadWindow, base)
	}

	for i, w := range windows {
		lo := base + uintptr(i)*slot
		hi := lo + slot
		if w.Size == 0 {
			return Map{}, fmt.Errorf("%w: window %d is empty", ErrBadWindow, i)
		}
		if w.Start < lo || w.End() > hi || w.End() < w.Start {
			return Map{}, fmt.Errorf("%w: window %d [0x%08x, 0x%08x) outside slot [0x%08x, 0x%08x)",
				ErrBadWindow, i, w.Start, w.End(), lo, hi)
		}
	}
	return Map{base: base, shift: shift, windows: windows}, nil
}

// RP2040Map returns the RP2040 layout. Window 0 runs from the linker's heap
// start to the end of the first 64 KiB bank; windows 1-3 are the remaining
// banks in full.
func RP2040Map(heapStart uintptr) (Map, error) {
	slot := uintptr(1) << RP2040WindowShift
	firstEnd := RP2040SRAMBase + slot
	if heapStart < RP2040SRAMBase || heapStart >= firstEnd {
		return Map{}, fmt.Errorf("%w: heap start 0x%08x outside the first SRAM bank [0x%08x, 0x%08x)",
			ErrBadWindow, heapStart, RP2040SRAMBase, firstEnd)
	}

	var windows [NumHeaps]Window
	windows[0] = Window{Start: heapStart, Size: firstEnd - heapStart}
	for i := 1; i < NumHeaps; i++ {
		windows[i] = Window{Start: RP2040SRAMBase + uintptr(i)*slot, Size: slot}
	}
	return NewMap(RP2040SRAMBase, RP2040WindowShift, windows)
}

// Base returns the first address of slot 0.
func (m Map) Base() uintptr { return m.base }

// Shift returns log2 of the slot size.
func (m Map) Shift() uint { return m.shift }

// Window returns window i.
func (m Map) Window(i int) Window { return m.windows[i] }

// Windows returns all windows in slot order.
func (m Map) Windows() [NumHeaps]Window { return m.windows }

// Region returns the address range spanned by all slots, suitable for sizing
// a ram.Arena.
func (m Map) Region() (base, size uintptr) {
	return m.base, NumHeaps << m.shift
}

// Index returns the heap that owns addr. It reports false for addresses
// outside every window, including gaps inside a slot that no window covers.
func (m Map) Index(addr uintptr) (int, bool) {
	if addr < m.base {
		return -1, false
	}
	i := (addr - m.base) >> m.shift
	if i >= NumHeaps || !m.windows[i].Contains(addr) {
		return -1, false
	}
	return int(i), true
}

// MustIndex is Index for deallocation paths: an address outside every window
// means a foreign pointer or corruption, and it panics with ErrForeignPointer.
func (m Map) MustIndex(addr uintptr) int {
	i, ok := m.Index(addr)
	if !ok {
		panic(fmt.Errorf("%w: 0x%08x is out of heap range", ErrForeignPointer, addr))
	}
	return i
}
