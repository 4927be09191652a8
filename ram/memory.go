package ram

import "errors"

// WordSize is the width of a Load32/Store32 access.
const WordSize = 4

var (
	// ErrOutOfRange indicates an access outside the backing memory.
	ErrOutOfRange = errors.New("ram: address out of range")

	// ErrUnaligned indicates a word access at an address that is not 4-byte aligned.
	ErrUnaligned = errors.New("ram: unaligned word access")

	// ErrBadArena indicates invalid arena parameters.
	ErrBadArena = errors.New("ram: invalid arena")
)

// Memory is word-addressable RAM.
type Memory interface {
	// Load32 reads the little-endian word at addr.
	Load32(addr uintptr) uint32

	// Store32 writes the little-endian word v at addr.
	Store32(addr uintptr, v uint32)

	// Bytes returns the n bytes starting at addr as a slice aliasing the memory.
	Bytes(addr, n uintptr) []byte
}
