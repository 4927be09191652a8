// Package critical provides the critical-section primitive that every other
// synchronization type in this module is built on.
//
// # Overview
//
// The RP2040's Cortex-M0+ core has no load-exclusive/store-exclusive
// instructions, so the only way to make a read-modify-write indivisible with
// respect to interrupt handlers is to mask interrupts around it. A critical
// section is that masked region.
//
// Two backends exist:
//
//   - tinygo builds mask interrupts with runtime/interrupt.Disable and restore
//     the saved PRIMASK state with interrupt.Restore.
//   - host builds serialize every section on one process-wide mutex. This is
//     the "single global spinlock" form and remains correct on a multi-core
//     host, which is what makes the lock package testable off-target.
//
// # Usage
//
//	st := critical.Enter()
//	counter++
//	critical.Exit(st)
//
//	critical.With(func() {
//	    counter++
//	})
//
//	pending := critical.Do(func() bool { return len(queue) > 0 })
//
// With and Do release the section when the body panics, so they are the
// forms to use when the body can fail; the lock package reports misuse such
// as an unbalanced UnlockShared this way. They are also the entry points for
// board code sharing plain variables with interrupt handlers.
//
// # Nesting
//
// Sections must not nest. The device backend tolerates nesting, the host
// backend deadlocks on it. Composite operations in package lock take one
// section and use section-free accessors inside it.
//
// # Spinning
//
// Busy-wait loops call Relax between polls. On host it yields the goroutine so
// the holder can make progress; on device it does nothing, since only an
// interrupt can end the wait there.
package critical
