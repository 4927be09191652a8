package lock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCell_LoadStoreSwap(t *testing.T) {
	c := NewCell(7)

	assert.Equal(t, 7, c.Load())

	c.Store(9)
	assert.Equal(t, 9, c.Load())

	old := c.Swap(11)
	assert.Equal(t, 9, old)
	assert.Equal(t, 11, c.Load())
}

func TestCell_ZeroValue(t *testing.T) {
	var c Cell[string]
	assert.Equal(t, "", c.Load())

	var b Bool
	assert.False(t, b.Load())
}

func TestCell_CompareExchange(t *testing.T) {
	c := NewCell(uint8(3))

	prev, ok := c.CompareExchange(3, 4)
	require.True(t, ok, "matching expected value should store")
	assert.Equal(t, uint8(3), prev)
	assert.Equal(t, uint8(4), c.Load())

	prev, ok = c.CompareExchange(3, 5)
	require.False(t, ok, "stale expected value must fail")
	assert.Equal(t, uint8(4), prev, "failure reports the actual value")
	assert.Equal(t, uint8(4), c.Load(), "failure leaves the cell unchanged")
}

func TestCell_FetchUpdateNoUpdateLeavesValue(t *testing.T) {
	c := NewCell(100)
	calls := 0

	got, ok := c.FetchUpdate(func(int) (int, bool) {
		calls++
		return 0, false
	})

	assert.False(t, ok, "no-update must report failure")
	assert.Equal(t, 100, got, "failure reports the observed value")
	assert.Equal(t, 100, c.Load(), "no-update must not mutate the cell")
	assert.Equal(t, 1, calls, "no-update stops immediately")
}

func TestCell_FetchUpdateApplies(t *testing.T) {
	c := NewCell(10)

	got, ok := c.FetchUpdate(func(v int) (int, bool) { return v * 2, true })

	assert.True(t, ok)
	assert.Equal(t, 10, got, "returns the value before the update")
	assert.Equal(t, 20, c.Load())
}

func TestCell_FetchUpdateRetriesAfterInterference(t *testing.T) {
	c := NewCell(1)
	interfered := false

	got, ok := c.FetchUpdate(func(v int) (int, bool) {
		if !interfered {
			// Simulate an interrupt handler storing between load and exchange.
			interfered = true
			c.Store(5)
		}
		return v + 1, true
	})

	require.True(t, ok)
	assert.Equal(t, 5, got, "second attempt sees the interfering store")
	assert.Equal(t, 6, c.Load())
}

func TestCell_GetMut(t *testing.T) {
	c := NewCell(1)
	*c.GetMut() = 2
	assert.Equal(t, 2, c.Load())
	assert.Equal(t, 2, c.Into())
}

func TestInteger_FetchOps(t *testing.T) {
	tests := []struct {
		name string
		init uint8
		op   func(c *Integer[uint8]) uint8
		want uint8
	}{
		{"add", 5, func(c *Integer[uint8]) uint8 { return c.FetchAdd(3) }, 8},
		{"add wraps", 255, func(c *Integer[uint8]) uint8 { return c.FetchAdd(1) }, 0},
		{"sub", 5, func(c *Integer[uint8]) uint8 { return c.FetchSub(3) }, 2},
		{"sub wraps", 0, func(c *Integer[uint8]) uint8 { return c.FetchSub(1) }, 255},
		{"and", 0b1100, func(c *Integer[uint8]) uint8 { return c.FetchAnd(0b1010) }, 0b1000},
		{"nand", 0b1100, func(c *Integer[uint8]) uint8 { return c.FetchNand(0b1010) }, 0b1111_0111},
		{"or", 0b1100, func(c *Integer[uint8]) uint8 { return c.FetchOr(0b1010) }, 0b1110},
		{"xor", 0b1100, func(c *Integer[uint8]) uint8 { return c.FetchXor(0b1010) }, 0b0110},
		{"max keeps larger", 9, func(c *Integer[uint8]) uint8 { return c.FetchMax(4) }, 9},
		{"max takes larger", 3, func(c *Integer[uint8]) uint8 { return c.FetchMax(4) }, 4},
		{"min keeps smaller", 3, func(c *Integer[uint8]) uint8 { return c.FetchMin(4) }, 3},
		{"min takes smaller", 9, func(c *Integer[uint8]) uint8 { return c.FetchMin(4) }, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewInteger(tt.init)
			prev := tt.op(&c)
			assert.Equal(t, tt.init, prev, "fetch ops return the previous value")
			assert.Equal(t, tt.want, c.Load())
		})
	}
}

func TestBool_FetchOps(t *testing.T) {
	tests := []struct {
		name      string
		init, arg bool
		op        func(c *Bool, v bool) bool
		want      bool
	}{
		{"and", true, false, (*Bool).FetchAnd, false},
		{"nand", true, true, (*Bool).FetchNand, false},
		{"nand false", false, true, (*Bool).FetchNand, true},
		{"or", false, true, (*Bool).FetchOr, true},
		{"xor", true, true, (*Bool).FetchXor, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewBool(tt.init)
			prev := tt.op(&c, tt.arg)
			assert.Equal(t, tt.init, prev)
			assert.Equal(t, tt.want, c.Load())
		})
	}
}

func TestCell_EachOperationIsOneSection(t *testing.T) {
	sc := countSections(t)
	c := NewInteger(uint16(0))

	assert.Equal(t, 1, sc.sections(func() { c.Load() }))
	assert.Equal(t, 1, sc.sections(func() { c.Store(1) }))
	assert.Equal(t, 1, sc.sections(func() { c.Swap(2) }))
	assert.Equal(t, 1, sc.sections(func() { c.CompareExchange(2, 3) }))
	assert.Equal(t, 1, sc.sections(func() { c.FetchAdd(1) }))
	assert.Equal(t, 1, sc.sections(func() { c.FetchMax(10) }))
	// One load plus one compare-exchange when nothing interferes.
	assert.Equal(t, 2, sc.sections(func() {
		c.FetchUpdate(func(v uint16) (uint16, bool) { return v + 1, true })
	}))
}

func TestInteger_ConcurrentFetchAdd(t *testing.T) {
	const workers = 8
	const iterations = 2000

	c := NewInteger(uint32(0))
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range iterations {
				c.FetchAdd(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint32(workers*iterations), c.Load())
}

func TestCell_ConcurrentFetchUpdate(t *testing.T) {
	const workers = 8
	const iterations = 500

	c := NewCell(0)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range iterations {
				c.FetchUpdate(func(v int) (int, bool) { return v + 1, true })
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, workers*iterations, c.Load(), "no update may be lost under interleaving")
}
