// Package lock provides atomics and locks for a single-core target that has
// no compare-and-swap instruction.
//
// # Overview
//
// Every primitive here reduces to package critical: an operation is made
// indivisible by running it inside a critical section, not by a CPU atomic.
//
//   - Cell, Integer, Bool: single-slot atomics (load, store, swap,
//     compare-exchange, fetch-and-op, fetch-update).
//   - SpinMutex: a binary lock over one Bool.
//   - RawRWLock: a reader-writer lock built from a SpinMutex and an
//     Integer[uint16] reader count, with exclusive-to-shared downgrade.
//   - Mutex[T], RWLock[T]: value-guarding wrappers whose guards give access to
//     the protected value only while the lock is held.
//
// # Spinning
//
// Lock, LockShared and LockExclusive busy-wait forever. There is no back-off,
// queueing, fairness or timeout. On a single core this is only safe when the
// holder can run: main-line code spinning on a lock held by an interrupt
// handler is fine, an interrupt handler spinning on a lock held by the code it
// preempted never returns. A higher-priority handler that keeps re-taking a
// lock can likewise starve a lower-priority spinner indefinitely.
//
// # Usage
//
//	var counter = lock.NewMutex(0)
//
//	counter.Do(func(n *int) { *n++ })
//
//	g := counter.Lock()
//	defer g.Unlock()
//	*g.Value() += 2
//
// # Porting
//
// Critical-section atomicity only holds on one core. A multi-core port needs
// real cross-core atomics (or a critical.Section backed by a hardware
// spinlock), not a recompile.
package lock
