package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/rkbfw/alloc"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type versionInfo struct {
	Version     string  `json:"version"`
	Commit      string  `json:"commit"`
	Built       string  `json:"built"`
	Heaps       int     `json:"heaps"`
	WindowShift int     `json:"window_shift"`
	SRAMStart   uintptr `json:"sram_start"`
	SRAMEnd     uintptr `json:"sram_end"`
	MinFragment int     `json:"min_fragment"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and allocator build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersion()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion() error {
	info := versionInfo{
		Version:     version,
		Commit:      commit,
		Built:       date,
		Heaps:       alloc.NumHeaps,
		WindowShift: alloc.RP2040WindowShift,
		SRAMStart:   alloc.RP2040SRAMBase,
		SRAMEnd:     alloc.RP2040SRAMEnd,
		MinFragment: alloc.MinFragment,
	}
	if jsonOut {
		return printJSON(info)
	}

	fmt.Printf("rkbctl %s\n", info.Version)
	fmt.Printf("  commit: %s\n", info.Commit)
	fmt.Printf("  built: %s\n", info.Built)
	fmt.Printf("  heaps: %d x %s windows in 0x%08x-0x%08x\n",
		info.Heaps, formatKiB(uintptr(1)<<info.WindowShift), info.SRAMStart, info.SRAMEnd)
	fmt.Printf("  min fragment: %d bytes\n", info.MinFragment)
	return nil
}
