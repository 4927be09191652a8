//go:build tinygo

package alloc

import "github.com/joshuapare/rkbfw/ram"

// NewDeviceRoot builds the heap root over the target's SRAM, with heap 0
// beginning where the linker placed _heap_start.
func NewDeviceRoot() (*Root, error) {
	return NewRP2040Root(ram.Physical{}, ram.HeapStart())
}
