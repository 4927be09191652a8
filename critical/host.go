//go:build !tinygo

package critical

import (
	"runtime"
	"sync"
)

// hostSection serializes all critical sections of the process on one mutex.
type hostSection struct {
	mu sync.Mutex
}

func (h *hostSection) Acquire() State {
	h.mu.Lock()
	return 0
}

func (h *hostSection) Release(State) {
	h.mu.Unlock()
}

func defaultSection() Section {
	return &hostSection{}
}

// Relax is called between polls of a busy-wait loop.
func Relax() {
	runtime.Gosched()
}
