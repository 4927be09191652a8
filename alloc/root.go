package alloc

import (
	"fmt"

	"github.com/joshuapare/rkbfw/critical"
	"github.com/joshuapare/rkbfw/internal/logger"
	"github.com/joshuapare/rkbfw/lock"
	"github.com/joshuapare/rkbfw/ram"
)

// rootInitialized guards NewRoot against a second construction.
var rootInitialized lock.Bool

// Root owns the NumHeaps heaps of the system, each behind its own spin mutex.
//
// Allocation rotates over the heaps with a shared counter so that interrupt
// handlers and main-line code tend to land on different heaps; deallocation
// finds the owning heap from the address alone. Operations on different heaps
// never contend.
type Root struct {
	heaps [NumHeaps]*lock.Mutex[Heap]
	next  lock.Integer[uint8]
	m     Map
}

// NewRoot builds the process-wide heap root over mem using the windows of m.
// It must run exactly once, before the first allocation; a second call
// panics with ErrDoubleInit.
func NewRoot(mem ram.Memory, m Map) *Root {
	if rootInitialized.Swap(true) {
		logger.Error("tried to initialize already initialized heap")
		panic(fmt.Errorf("%w: NewRoot called twice", ErrDoubleInit))
	}
	return newRoot(mem, m)
}

// NewRP2040Root builds the process-wide heap root over the RP2040 layout with
// heap 0 starting at heapStart. A heap start outside the first SRAM bank is
// reported as an error and leaves the root unbuilt, so a corrected call may
// follow.
func NewRP2040Root(mem ram.Memory, heapStart uintptr) (*Root, error) {
	m, err := RP2040Map(heapStart)
	if err != nil {
		return nil, err
	}
	return NewRoot(mem, m), nil
}

// newRoot is NewRoot without the once-only guard.
func newRoot(mem ram.Memory, m Map) *Root {
	r := &Root{m: m}
	for i, w := range m.windows {
		r.heaps[i] = lock.NewMutex(*NewHeap(mem, w.Start, w.Size))
	}
	logger.Debug("heap root constructed", "base", fmt.Sprintf("0x%08x", m.base), "heaps", NumHeaps)
	return r
}

// Map returns the address map the root was built with.
func (r *Root) Map() Map { return r.m }

// TryHeap advances the round-robin counter and tries to lock the heap it
// selects.
func (r *Root) TryHeap() (*lock.MutexGuard[Heap], bool) {
	id := r.next.FetchAdd(1) & (NumHeaps - 1)
	return r.heaps[id].TryLock()
}

// Heap spins on TryHeap until some heap is locked.
func (r *Root) Heap() *lock.MutexGuard[Heap] {
	for {
		if g, ok := r.TryHeap(); ok {
			return g
		}
		critical.Relax()
	}
}

// TryHeapFor tries to lock the heap owning addr. It panics with
// ErrForeignPointer if no heap owns it.
func (r *Root) TryHeapFor(addr uintptr) (*lock.MutexGuard[Heap], bool) {
	return r.heaps[r.indexFor(addr)].TryLock()
}

// HeapFor locks the heap owning addr, spinning while it is held. It panics
// with ErrForeignPointer if no heap owns it.
func (r *Root) HeapFor(addr uintptr) *lock.MutexGuard[Heap] {
	return r.heaps[r.indexFor(addr)].Lock()
}

func (r *Root) indexFor(addr uintptr) int {
	i, ok := r.m.Index(addr)
	if !ok {
		logger.Error("invalid pointer passed to the allocator", "addr", fmt.Sprintf("0x%08x", addr))
		return r.m.MustIndex(addr)
	}
	return i
}

// Allocate serves l from one of the heaps. Starting at the heap picked by the
// round-robin counter it tries every heap once, in order, and returns
// ErrNoSpace only after all NumHeaps have failed.
func (r *Root) Allocate(l Layout) (Span, error) {
	if err := l.Validate(); err != nil {
		return Span{}, err
	}

	start := int(r.next.FetchAdd(1))
	for i := range NumHeaps {
		g := r.heaps[(start+i)&(NumHeaps-1)].Lock()
		s, err := g.Value().Allocate(l)
		g.Unlock()
		if err == nil {
			return s, nil
		}
	}

	logger.Debug("allocation failed in every heap", "size", l.Size, "align", l.Align)
	return Span{}, fmt.Errorf("%w: %d bytes aligned to %d, %d heaps tried", ErrNoSpace, l.Size, l.alignment(), NumHeaps)
}

// Deallocate releases the allocation at addr. addr and l must match a prior
// successful Allocate on this root. An address outside every window panics
// with ErrForeignPointer; mismatched metadata panics with ErrCorrupt.
func (r *Root) Deallocate(addr uintptr, l Layout) {
	g := r.HeapFor(addr)
	defer g.Unlock()
	g.Value().Deallocate(addr, l)
}

// Stats returns a snapshot of every heap, taking each heap's lock in turn.
func (r *Root) Stats() [NumHeaps]HeapStats {
	var out [NumHeaps]HeapStats
	for i, hm := range r.heaps {
		hm.Do(func(h *Heap) { out[i] = h.Stats() })
	}
	return out
}
