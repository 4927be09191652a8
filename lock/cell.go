package lock

import "github.com/joshuapare/rkbfw/critical"

// integer is the set of types Integer accepts.
type integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Cell holds one value of a small copyable type. Every method is atomic with
// respect to interrupts (and, on host, other goroutines).
//
// The zero Cell holds the zero value of T. A Cell must not be copied after
// first use.
type Cell[T comparable] struct {
	v T
}

// NewCell returns a cell holding v.
func NewCell[T comparable](v T) Cell[T] {
	return Cell[T]{v: v}
}

// get and set are the section-free accessors. Callers must already be inside
// a critical section.
func (c *Cell[T]) get() T  { return c.v }
func (c *Cell[T]) set(v T) { c.v = v }

// modify replaces the value with op(old) in one section and returns old.
func (c *Cell[T]) modify(op func(T) T) T {
	st := critical.Enter()
	defer critical.Exit(st)
	old := c.v
	c.v = op(old)
	return old
}

// update is the section-free form of FetchUpdate. Inside a section nothing
// can interleave, so one evaluation of f decides the outcome.
func (c *Cell[T]) update(f func(T) (T, bool)) (T, bool) {
	old := c.v
	next, ok := f(old)
	if !ok {
		return old, false
	}
	c.v = next
	return old, true
}

// Load returns the current value.
func (c *Cell[T]) Load() T {
	st := critical.Enter()
	v := c.v
	critical.Exit(st)
	return v
}

// Store replaces the current value.
func (c *Cell[T]) Store(v T) {
	st := critical.Enter()
	c.v = v
	critical.Exit(st)
}

// Swap stores v and returns the previous value.
func (c *Cell[T]) Swap(v T) T {
	st := critical.Enter()
	old := c.v
	c.v = v
	critical.Exit(st)
	return old
}

// CompareExchange stores next if the current value equals expected. It returns
// the value observed before the operation and whether the store happened. On
// failure the cell is left unchanged.
func (c *Cell[T]) CompareExchange(expected, next T) (T, bool) {
	st := critical.Enter()
	defer critical.Exit(st)
	old := c.v
	if old != expected {
		return old, false
	}
	c.v = next
	return old, true
}

// FetchUpdate repeatedly loads the value, computes a replacement with f and
// tries to install it with CompareExchange. It returns the value f was last
// given and whether a replacement was stored. If f reports no update the cell
// is not touched.
//
// f runs outside the critical section and may run more than once; it must be
// pure. The retry loop is unbounded.
func (c *Cell[T]) FetchUpdate(f func(T) (T, bool)) (T, bool) {
	for {
		cur := c.Load()
		next, ok := f(cur)
		if !ok {
			return cur, false
		}
		if _, swapped := c.CompareExchange(cur, next); swapped {
			return cur, true
		}
	}
}

// GetMut returns a pointer to the slot for a caller that owns the cell
// exclusively (during construction, for example). It is not synchronized.
func (c *Cell[T]) GetMut() *T {
	return &c.v
}

// Into returns the value of a cell the caller is done sharing. Like GetMut it
// takes no critical section.
func (c *Cell[T]) Into() T {
	return c.v
}

// Integer is a Cell of an integer type with arithmetic and bitwise
// fetch-and-op methods. Each returns the previous value. Add and Sub wrap
// like the underlying integer type.
type Integer[T integer] struct {
	Cell[T]
}

// NewInteger returns an integer cell holding v.
func NewInteger[T integer](v T) Integer[T] {
	return Integer[T]{Cell: NewCell(v)}
}

func (c *Integer[T]) FetchAdd(d T) T { return c.modify(func(v T) T { return v + d }) }
func (c *Integer[T]) FetchSub(d T) T { return c.modify(func(v T) T { return v - d }) }
func (c *Integer[T]) FetchAnd(d T) T { return c.modify(func(v T) T { return v & d }) }
func (c *Integer[T]) FetchNand(d T) T {
	return c.modify(func(v T) T { return ^(v & d) })
}
func (c *Integer[T]) FetchOr(d T) T  { return c.modify(func(v T) T { return v | d }) }
func (c *Integer[T]) FetchXor(d T) T { return c.modify(func(v T) T { return v ^ d }) }
func (c *Integer[T]) FetchMax(d T) T { return c.modify(func(v T) T { return max(v, d) }) }
func (c *Integer[T]) FetchMin(d T) T { return c.modify(func(v T) T { return min(v, d) }) }

// Bool is a boolean Cell with logical fetch-and-op methods.
type Bool struct {
	Cell[bool]
}

// NewBool returns a boolean cell holding v.
func NewBool(v bool) Bool {
	return Bool{Cell: NewCell(v)}
}

func (c *Bool) FetchAnd(d bool) bool  { return c.modify(func(v bool) bool { return v && d }) }
func (c *Bool) FetchNand(d bool) bool { return c.modify(func(v bool) bool { return !(v && d) }) }
func (c *Bool) FetchOr(d bool) bool   { return c.modify(func(v bool) bool { return v || d }) }
func (c *Bool) FetchXor(d bool) bool  { return c.modify(func(v bool) bool { return v != d }) }
