//go:build (linux || darwin) && !tinygo

package ram

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// mapRegion backs an arena with an anonymous private mapping so large RAM
// images stay outside the Go heap.
func mapRegion(size int) ([]byte, func([]byte) error, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("mmap %d bytes: %w", size, err)
	}
	return data, unix.Munmap, nil
}
