package ram

import (
	"encoding/binary"
	"fmt"
)

// Arena is a host RAM image that answers for the addresses
// [base, base+size).
type Arena struct {
	base    uintptr
	data    []byte
	release func([]byte) error
}

// NewArena maps size bytes of zeroed memory at the simulated address base.
// Both must be word-aligned and the range must not wrap the address space.
func NewArena(base, size uintptr) (*Arena, error) {
	if size == 0 || size%WordSize != 0 {
		return nil, fmt.Errorf("%w: size %d is not a positive multiple of %d", ErrBadArena, size, WordSize)
	}
	if base%WordSize != 0 {
		return nil, fmt.Errorf("%w: base 0x%08x is not word-aligned", ErrBadArena, base)
	}
	if base+size < base {
		return nil, fmt.Errorf("%w: 0x%08x+%d wraps the address space", ErrBadArena, base, size)
	}

	data, release, err := mapRegion(int(size))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadArena, err)
	}
	return &Arena{base: base, data: data, release: release}, nil
}

// Close releases the backing memory. The arena must not be used afterwards.
func (a *Arena) Close() error {
	if a.data == nil {
		return nil
	}
	data := a.data
	a.data = nil
	return a.release(data)
}

// Base returns the first address of the arena.
func (a *Arena) Base() uintptr { return a.base }

// Size returns the arena size in bytes.
func (a *Arena) Size() uintptr { return uintptr(len(a.data)) }

// End returns the first address past the arena.
func (a *Arena) End() uintptr { return a.base + uintptr(len(a.data)) }

// Contains reports whether addr lies inside the arena.
func (a *Arena) Contains(addr uintptr) bool {
	return addr >= a.base && addr < a.End()
}

// offset translates [addr, addr+n) to an index into data, panicking on any
// access the hardware would fault on.
func (a *Arena) offset(addr, n uintptr) int {
	size := uintptr(len(a.data))
	if addr < a.base || addr-a.base > size || n > size-(addr-a.base) {
		panic(fmt.Errorf("%w: [0x%08x, +%d) outside [0x%08x, 0x%08x)", ErrOutOfRange, addr, n, a.base, a.End()))
	}
	return int(addr - a.base)
}

func (a *Arena) Load32(addr uintptr) uint32 {
	if addr%WordSize != 0 {
		panic(fmt.Errorf("%w: load at 0x%08x", ErrUnaligned, addr))
	}
	off := a.offset(addr, WordSize)
	return binary.LittleEndian.Uint32(a.data[off:])
}

func (a *Arena) Store32(addr uintptr, v uint32) {
	if addr%WordSize != 0 {
		panic(fmt.Errorf("%w: store at 0x%08x", ErrUnaligned, addr))
	}
	off := a.offset(addr, WordSize)
	binary.LittleEndian.PutUint32(a.data[off:], v)
}

func (a *Arena) Bytes(addr, n uintptr) []byte {
	off := a.offset(addr, n)
	return a.data[off : off+int(n) : off+int(n)]
}
