//go:build tinygo

package critical

import "runtime/interrupt"

// interruptSection masks interrupts for the duration of the section.
type interruptSection struct{}

func (interruptSection) Acquire() State {
	return State(interrupt.Disable())
}

func (interruptSection) Release(st State) {
	interrupt.Restore(interrupt.State(st))
}

func defaultSection() Section {
	return interruptSection{}
}

// Relax is called between polls of a busy-wait loop. A single-core device
// has nothing to yield to.
func Relax() {}
