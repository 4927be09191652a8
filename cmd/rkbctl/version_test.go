package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	resetFlags(t)

	output, err := captureOutput(t, runVersion)
	require.NoError(t, err)
	assert.Contains(t, output, "rkbctl dev")
	assert.Contains(t, output, "commit: none")
	assert.Contains(t, output, "heaps: 4 x 64.0 KiB windows in 0x20000000-0x20040000")
	assert.Contains(t, output, "min fragment: 16 bytes")
}

func TestVersionCommand_JSON(t *testing.T) {
	resetFlags(t)
	jsonOut = true

	output, err := captureOutput(t, runVersion)
	require.NoError(t, err)

	var info versionInfo
	decodeJSON(t, output, &info)
	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, 4, info.Heaps)
	assert.Equal(t, 16, info.WindowShift)
	assert.Equal(t, uintptr(0x2000_0000), info.SRAMStart)
	assert.Equal(t, uintptr(0x2004_0000), info.SRAMEnd)
}
