package lock

// Mutex guards a value of type T with a SpinMutex. The value is reachable only
// through a guard obtained from Lock or TryLock, or inside Do.
type Mutex[T any] struct {
	raw   SpinMutex
	value T
}

// NewMutex returns an unlocked mutex guarding v.
func NewMutex[T any](v T) *Mutex[T] {
	return &Mutex[T]{value: v}
}

// MutexGuard is the proof of holding a Mutex.
type MutexGuard[T any] struct {
	m        *Mutex[T]
	released bool
}

// Lock spins until the mutex is acquired and returns the guard.
func (m *Mutex[T]) Lock() *MutexGuard[T] {
	m.raw.Lock()
	return &MutexGuard[T]{m: m}
}

// TryLock acquires the mutex if it is free.
func (m *Mutex[T]) TryLock() (*MutexGuard[T], bool) {
	if !m.raw.TryLock() {
		return nil, false
	}
	return &MutexGuard[T]{m: m}, true
}

// Do runs fn with the guarded value. The mutex is released on every exit path
// of fn, panics included.
func (m *Mutex[T]) Do(fn func(*T)) {
	g := m.Lock()
	defer g.Unlock()
	fn(g.Value())
}

// IsLocked reports whether the mutex is held.
func (m *Mutex[T]) IsLocked() bool {
	return m.raw.IsLocked()
}

// Raw exposes the underlying SpinMutex.
func (m *Mutex[T]) Raw() *SpinMutex {
	return &m.raw
}

// Value returns the guarded value. It panics with ErrGuardReleased once the
// guard has been unlocked.
func (g *MutexGuard[T]) Value() *T {
	if g.released {
		panic(ErrGuardReleased)
	}
	return &g.m.value
}

// Unlock releases the mutex. Further calls are no-ops, so an explicit Unlock
// may be combined with a deferred one.
func (g *MutexGuard[T]) Unlock() {
	if g.released {
		return
	}
	g.released = true
	g.m.raw.Unlock()
}

// RWLock guards a value of type T with a RawRWLock.
type RWLock[T any] struct {
	raw   RawRWLock
	value T
}

// NewRWLock returns an unlocked reader-writer lock guarding v.
func NewRWLock[T any](v T) *RWLock[T] {
	return &RWLock[T]{value: v}
}

// ReadGuard is the proof of one shared hold on an RWLock.
type ReadGuard[T any] struct {
	l        *RWLock[T]
	released bool
}

// WriteGuard is the proof of the exclusive hold on an RWLock.
type WriteGuard[T any] struct {
	l        *RWLock[T]
	released bool
}

// RLock spins until a shared hold is acquired.
func (l *RWLock[T]) RLock() *ReadGuard[T] {
	l.raw.LockShared()
	return &ReadGuard[T]{l: l}
}

// TryRLock acquires a shared hold if the lock is not held exclusively and the
// reader limit has not been reached.
func (l *RWLock[T]) TryRLock() (*ReadGuard[T], bool) {
	if !l.raw.TryLockShared() {
		return nil, false
	}
	return &ReadGuard[T]{l: l}, true
}

// Lock spins until the exclusive hold is acquired.
func (l *RWLock[T]) Lock() *WriteGuard[T] {
	l.raw.LockExclusive()
	return &WriteGuard[T]{l: l}
}

// TryLock acquires the exclusive hold if the lock is free.
func (l *RWLock[T]) TryLock() (*WriteGuard[T], bool) {
	if !l.raw.TryLockExclusive() {
		return nil, false
	}
	return &WriteGuard[T]{l: l}, true
}

// Read runs fn under a shared hold. fn must not modify the value.
func (l *RWLock[T]) Read(fn func(*T)) {
	g := l.RLock()
	defer g.Unlock()
	fn(g.Value())
}

// Write runs fn under the exclusive hold.
func (l *RWLock[T]) Write(fn func(*T)) {
	g := l.Lock()
	defer g.Unlock()
	fn(g.Value())
}

func (l *RWLock[T]) IsLocked() bool          { return l.raw.IsLocked() }
func (l *RWLock[T]) IsLockedExclusive() bool { return l.raw.IsLockedExclusive() }

// Raw exposes the underlying RawRWLock.
func (l *RWLock[T]) Raw() *RawRWLock {
	return &l.raw
}

// Value returns the guarded value for reading.
func (g *ReadGuard[T]) Value() *T {
	if g.released {
		panic(ErrGuardReleased)
	}
	return &g.l.value
}

// Unlock drops the shared hold. Further calls are no-ops.
func (g *ReadGuard[T]) Unlock() {
	if g.released {
		return
	}
	g.released = true
	g.l.raw.UnlockShared()
}

// Value returns the guarded value.
func (g *WriteGuard[T]) Value() *T {
	if g.released {
		panic(ErrGuardReleased)
	}
	return &g.l.value
}

// Unlock releases the exclusive hold. Further calls are no-ops.
func (g *WriteGuard[T]) Unlock() {
	if g.released {
		return
	}
	g.released = true
	g.l.raw.UnlockExclusive()
}

// Downgrade atomically exchanges the exclusive hold for a shared one. The
// write guard is released by the call and must not be used afterwards.
func (g *WriteGuard[T]) Downgrade() *ReadGuard[T] {
	if g.released {
		panic(ErrGuardReleased)
	}
	g.released = true
	g.l.raw.Downgrade()
	return &ReadGuard[T]{l: g.l}
}
