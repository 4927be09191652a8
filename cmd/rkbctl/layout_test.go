package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutCommand(t *testing.T) {
	tests := []struct {
		name        string
		heapStart   string
		verbose     bool
		wantErr     bool
		wantContain []string
	}{
		{
			name:        "default heap start",
			heapStart:   "0x20001000",
			wantContain: []string{"0x20001000  0x20010000     61440", "0x20030000  0x20040000     65536", "258048"},
		},
		{
			name:        "decimal heap start",
			heapStart:   "536870912",
			wantContain: []string{"0x20000000  0x20010000     65536", "262144"},
		},
		{
			name:        "verbose shows slot size",
			heapStart:   "0x20001000",
			verbose:     true,
			wantContain: []string{"slot size 65536 bytes", "capacity 252.0 KiB"},
		},
		{
			name:      "heap start in second bank",
			heapStart: "0x20010000",
			wantErr:   true,
		},
		{
			name:      "not a number",
			heapStart: "sram",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			layoutHeapStart = tt.heapStart
			verbose = tt.verbose

			output, err := captureOutput(t, runLayout)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.wantContain {
				assert.Contains(t, output, want)
			}
		})
	}
}

func TestLayoutCommand_JSON(t *testing.T) {
	resetFlags(t)
	jsonOut = true

	output, err := captureOutput(t, runLayout)
	require.NoError(t, err)

	var info layoutInfo
	decodeJSON(t, output, &info)
	assert.Equal(t, uintptr(0x2000_0000), info.Base)
	assert.Equal(t, uint(16), info.Shift)
	require.Len(t, info.Windows, 4)
	assert.Equal(t, uintptr(0x2000_1000), info.Windows[0].Start)
	assert.Equal(t, uintptr(61440), info.Windows[0].Size)
	assert.Equal(t, uintptr(258048), info.Total)
}

func TestLayoutCommand_Quiet(t *testing.T) {
	resetFlags(t)
	quiet = true

	output, err := captureOutput(t, runLayout)
	require.NoError(t, err)
	assert.Empty(t, output)
}

func TestParseAddr(t *testing.T) {
	v, err := parseAddr("0x20001000")
	require.NoError(t, err)
	assert.Equal(t, uintptr(0x2000_1000), v)

	_, err = parseAddr("0x1_0000_0000")
	assert.Error(t, err, "addresses are 32-bit")
}
