package critical

// State is the opaque token returned by Acquire and handed back to Release.
// On device it carries the interrupt mask that was active before the section.
type State uintptr

// Section is a platform's way of entering and leaving a critical section.
type Section interface {
	// Acquire enters the section and returns the state to restore.
	Acquire() State

	// Release leaves the section, restoring the state returned by Acquire.
	Release(State)
}

var current = defaultSection()

// Install replaces the process-wide section implementation and returns the
// previous one. It must be called before any concurrent use, typically during
// board bring-up or at the start of a test.
func Install(s Section) Section {
	if s == nil {
		panic("critical: nil section")
	}
	prev := current
	current = s
	return prev
}

// Current returns the installed section implementation.
func Current() Section {
	return current
}

// Enter enters a critical section.
func Enter() State {
	return current.Acquire()
}

// Exit leaves the critical section entered by the matching Enter.
func Exit(st State) {
	current.Release(st)
}

// With runs fn inside a critical section. The section is released on every
// exit path, including a panic in fn.
func With(fn func()) {
	s := current
	st := s.Acquire()
	defer s.Release(st)
	fn()
}

// Do runs fn inside a critical section and returns its result.
func Do[T any](fn func() T) T {
	s := current
	st := s.Acquire()
	defer s.Release(st)
	return fn()
}
