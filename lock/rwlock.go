package lock

import (
	"math"

	"github.com/joshuapare/rkbfw/critical"
)

// MaxReaders is the number of shared holders a RawRWLock admits. Once reached,
// further shared acquisitions fail rather than wrap the count.
const MaxReaders = math.MaxUint16

// RawRWLock is a reader-writer lock composed of an exclusive SpinMutex and a
// shared reader count. The zero value is unlocked.
//
// Outside Downgrade the exclusive flag and a non-zero reader count are never
// observed together.
type RawRWLock struct {
	exclusive SpinMutex
	readers   Integer[uint16]
}

func bumpReaders(n uint16) (uint16, bool) {
	if n == MaxReaders {
		return n, false
	}
	return n + 1, true
}

// TryLockShared takes a shared hold unless the lock is held exclusively or
// MaxReaders holds are outstanding.
func (l *RawRWLock) TryLockShared() bool {
	st := critical.Enter()
	defer critical.Exit(st)
	if l.exclusive.locked.get() {
		return false
	}
	_, ok := l.readers.update(bumpReaders)
	return ok
}

// LockShared spins on TryLockShared until it succeeds.
func (l *RawRWLock) LockShared() {
	for !l.TryLockShared() {
		critical.Relax()
	}
}

// UnlockShared drops one shared hold. It panics with ErrNotLocked if no shared
// hold is outstanding.
func (l *RawRWLock) UnlockShared() {
	critical.With(func() {
		n := l.readers.get()
		if n == 0 {
			panic(ErrNotLocked)
		}
		l.readers.set(n - 1)
	})
}

// TryLockExclusive takes the exclusive hold if nobody holds the lock.
func (l *RawRWLock) TryLockExclusive() bool {
	st := critical.Enter()
	defer critical.Exit(st)
	if l.exclusive.locked.get() || l.readers.get() != 0 {
		return false
	}
	l.exclusive.locked.set(true)
	return true
}

// LockExclusive spins on TryLockExclusive until it succeeds.
func (l *RawRWLock) LockExclusive() {
	for !l.TryLockExclusive() {
		critical.Relax()
	}
}

// UnlockExclusive releases the exclusive hold.
func (l *RawRWLock) UnlockExclusive() {
	l.exclusive.Unlock()
}

// Downgrade turns the caller's exclusive hold into one shared hold. Both
// changes happen in one critical section, so no other party can observe the
// lock free in between. The caller must hold the lock exclusively.
func (l *RawRWLock) Downgrade() {
	st := critical.Enter()
	defer critical.Exit(st)
	if !l.exclusive.locked.get() {
		panic(ErrNotLocked)
	}
	l.readers.set(l.readers.get() + 1)
	l.exclusive.locked.set(false)
}

// IsLocked reports whether the lock is held shared or exclusively.
func (l *RawRWLock) IsLocked() bool {
	return critical.Do(func() bool {
		return l.exclusive.locked.get() || l.readers.get() != 0
	})
}

// IsLockedExclusive reports whether the lock is held exclusively.
func (l *RawRWLock) IsLockedExclusive() bool {
	return l.exclusive.IsLocked()
}

// Readers returns the number of outstanding shared holds.
func (l *RawRWLock) Readers() uint16 {
	return l.readers.Load()
}
