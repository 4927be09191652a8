package main

import (
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshuapare/rkbfw/alloc"
	"github.com/joshuapare/rkbfw/ram"
)

var (
	simHeapStart string
	simContexts  int
	simOps       int
	simMaxSize   int
	simMaxLive   int
	simSeed      int64
)

func init() {
	cmd := newSimulateCmd()
	cmd.Flags().StringVar(&simHeapStart, "heap-start", "0x20001000", "Linker heap start inside the first SRAM bank")
	cmd.Flags().IntVar(&simContexts, "contexts", 4, "Concurrent execution contexts")
	cmd.Flags().IntVar(&simOps, "ops", 10000, "Operations per context")
	cmd.Flags().IntVar(&simMaxSize, "max-size", 512, "Largest request in bytes")
	cmd.Flags().IntVar(&simMaxLive, "max-live", 32, "Allocations a context holds before it must free")
	cmd.Flags().Int64Var(&simSeed, "seed", 1, "Random seed")
	rootCmd.AddCommand(cmd)
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run contexts against the four heaps",
		Long: `The simulate command maps an arena over the RP2040 SRAM range, builds the
heap root once and runs one goroutine per simulated execution context. Each
context allocates and frees at random, fills every allocation with a pattern
and checks it before release, then the per-heap report is printed.

Example:
  rkbctl simulate
  rkbctl simulate --contexts 8 --ops 50000 --max-size 2048
  rkbctl simulate --seed 7 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate()
		},
	}
	return cmd
}

type contextResult struct {
	Context  int `json:"context"`
	Allocs   int `json:"allocs"`
	Frees    int `json:"frees"`
	Failures int `json:"failures"`
}

type simulateResult struct {
	Seed     int64                          `json:"seed"`
	Elapsed  string                         `json:"elapsed"`
	Contexts []contextResult                `json:"contexts"`
	Heaps    [alloc.NumHeaps]alloc.HeapStats `json:"heaps"`
}

func runSimulate() error {
	if simContexts < 1 || simOps < 0 || simMaxSize < 0 || simMaxLive < 1 {
		return fmt.Errorf("--contexts and --max-live must be positive, --ops and --max-size non-negative")
	}

	m, _, err := buildLayout(simHeapStart)
	if err != nil {
		return err
	}
	base, size := m.Region()
	mem, err := ram.NewArena(base, size)
	if err != nil {
		return fmt.Errorf("failed to map arena: %w", err)
	}
	defer mem.Close()

	printVerbose("Mapped %s at 0x%08x\n", formatKiB(size), base)
	root, err := alloc.NewRP2040Root(mem, m.Window(0).Start)
	if err != nil {
		return err
	}

	results := make([]contextResult, simContexts)
	errs := make([]error, simContexts)
	start := time.Now()

	var wg sync.WaitGroup
	for c := range simContexts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[c], errs[c] = runContext(root, mem, c, simSeed+int64(c))
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	if jsonOut {
		return printJSON(simulateResult{
			Seed:     simSeed,
			Elapsed:  elapsed.String(),
			Contexts: results,
			Heaps:    root.Stats(),
		})
	}

	for _, r := range results {
		printVerbose("context %d: %d allocs, %d frees, %d failed\n", r.Context, r.Allocs, r.Frees, r.Failures)
	}
	printInfo("%d contexts x %d ops in %s (seed %d)\n\n", simContexts, simOps, elapsed.Round(time.Millisecond), simSeed)
	if quiet {
		return nil
	}
	return root.WriteReport(os.Stdout)
}

type held struct {
	span alloc.Span
	l    alloc.Layout
	mark byte
}

// runContext plays one execution context. Everything it allocates is freed
// before it returns, so a clean run leaves every heap fully free.
func runContext(root *alloc.Root, mem ram.Memory, id int, seed int64) (contextResult, error) {
	rng := rand.New(rand.NewSource(seed))
	res := contextResult{Context: id}
	var live []held

	release := func(k int) error {
		h := live[k]
		b := mem.Bytes(h.span.Addr, h.span.Size)
		for i := range b {
			if b[i] != h.mark {
				return fmt.Errorf("context %d: allocation at 0x%08x corrupted at byte %d", id, h.span.Addr, i)
			}
		}
		root.Deallocate(h.span.Addr, h.l)
		live[k] = live[len(live)-1]
		live = live[:len(live)-1]
		res.Frees++
		return nil
	}

	for op := range simOps {
		if len(live) >= simMaxLive || (len(live) > 0 && rng.Intn(2) == 0) {
			if err := release(rng.Intn(len(live))); err != nil {
				return res, err
			}
			continue
		}

		l, err := alloc.NewLayout(uintptr(rng.Intn(simMaxSize+1)), uintptr(1)<<rng.Intn(6))
		if err != nil {
			return res, err
		}
		s, err := root.Allocate(l)
		res.Allocs++
		if err != nil {
			res.Failures++
			continue
		}
		mark := byte(id*31 + op)
		b := mem.Bytes(s.Addr, s.Size)
		for i := range b {
			b[i] = mark
		}
		live = append(live, held{span: s, l: l, mark: mark})
	}

	for len(live) > 0 {
		if err := release(len(live) - 1); err != nil {
			return res, err
		}
	}
	return res, nil
}
