package lock

import (
	"testing"

	"github.com/joshuapare/rkbfw/critical"
)

// sectionCounter wraps the installed critical section and counts entries.
// The counters are only touched while the inner section is held.
type sectionCounter struct {
	inner   critical.Section
	entered int
}

func (s *sectionCounter) Acquire() critical.State {
	st := s.inner.Acquire()
	s.entered++
	return st
}

func (s *sectionCounter) Release(st critical.State) {
	s.inner.Release(st)
}

// countSections installs a sectionCounter for the duration of the test.
func countSections(t *testing.T) *sectionCounter {
	t.Helper()
	sc := &sectionCounter{inner: critical.Current()}
	prev := critical.Install(sc)
	t.Cleanup(func() { critical.Install(prev) })
	return sc
}

// sections returns how many critical sections fn entered.
func (s *sectionCounter) sections(fn func()) int {
	before := s.entered
	fn()
	return s.entered - before
}
