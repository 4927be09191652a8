package lock

import "github.com/joshuapare/rkbfw/critical"

// SpinMutex is a binary lock over one Bool. The zero value is unlocked.
type SpinMutex struct {
	locked Bool
}

// TryLock swaps the flag to locked and reports whether it was unlocked.
func (m *SpinMutex) TryLock() bool {
	return !m.locked.Swap(true)
}

// Lock spins on TryLock until it succeeds.
func (m *SpinMutex) Lock() {
	for !m.TryLock() {
		critical.Relax()
	}
}

// Unlock clears the flag. The caller must hold the lock.
func (m *SpinMutex) Unlock() {
	m.locked.Store(false)
}

// IsLocked reports whether the lock is currently held by anyone.
func (m *SpinMutex) IsLocked() bool {
	return m.locked.Load()
}
