//go:build tinygo

package ram

import "unsafe"

// Physical accesses the target's SRAM directly.
type Physical struct{}

func (Physical) Load32(addr uintptr) uint32 {
	return *(*uint32)(unsafe.Pointer(addr))
}

func (Physical) Store32(addr uintptr, v uint32) {
	*(*uint32)(unsafe.Pointer(addr)) = v
}

func (Physical) Bytes(addr, n uintptr) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), n)
}

//go:extern _heap_start
var heapStartSymbol [0]byte

// HeapStart returns the first address the linker left free for the heap.
func HeapStart() uintptr {
	return uintptr(unsafe.Pointer(&heapStartSymbol))
}
