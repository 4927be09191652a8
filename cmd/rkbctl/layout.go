package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/rkbfw/alloc"
)

var (
	layoutHeapStart string
)

func init() {
	cmd := newLayoutCmd()
	cmd.Flags().StringVar(&layoutHeapStart, "heap-start", "0x20001000", "Linker heap start inside the first SRAM bank")
	rootCmd.AddCommand(cmd)
}

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Show the heap windows",
		Long: `The layout command prints the four heap windows the allocator carves
out of RP2040 SRAM for a given linker heap start.

Example:
  rkbctl layout
  rkbctl layout --heap-start 0x20004000 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout()
		},
	}
	return cmd
}

type windowInfo struct {
	Heap  int     `json:"heap"`
	Start uintptr `json:"start"`
	End   uintptr `json:"end"`
	Size  uintptr `json:"size"`
}

type layoutInfo struct {
	Base    uintptr      `json:"base"`
	Shift   uint         `json:"shift"`
	Windows []windowInfo `json:"windows"`
	Total   uintptr      `json:"total"`
}

func buildLayout(heapStart string) (alloc.Map, layoutInfo, error) {
	start, err := parseAddr(heapStart)
	if err != nil {
		return alloc.Map{}, layoutInfo{}, err
	}
	m, err := alloc.RP2040Map(start)
	if err != nil {
		return alloc.Map{}, layoutInfo{}, err
	}

	info := layoutInfo{Base: m.Base(), Shift: m.Shift()}
	for i, w := range m.Windows() {
		info.Windows = append(info.Windows, windowInfo{Heap: i, Start: w.Start, End: w.End(), Size: w.Size})
		info.Total += w.Size
	}
	return m, info, nil
}

func runLayout() error {
	_, info, err := buildLayout(layoutHeapStart)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(info)
	}

	printVerbose("Slot base 0x%08x, slot size %d bytes, capacity %s\n",
		info.Base, uintptr(1)<<info.Shift, formatKiB(info.Total))
	printInfo("%-4s  %-10s  %-10s  %8s\n", "heap", "start", "end", "size")
	for _, w := range info.Windows {
		printInfo("%-4d  0x%08x  0x%08x  %8d\n", w.Heap, w.Start, w.End, w.Size)
	}
	printInfo("%-4s  %-10s  %-10s  %8d\n", "all", "", "", info.Total)
	return nil
}

func formatKiB(n uintptr) string {
	return fmt.Sprintf("%.1f KiB", float64(n)/1024)
}
