// Package ram gives the allocator word-level access to the memory it manages.
//
// The heap keeps its bookkeeping in-band, in the free and allocated blocks
// themselves, so it needs to read and write 32-bit words at arbitrary
// addresses. Memory abstracts that access:
//
//   - Arena is a host-side RAM image mapped at a chosen base address, used by
//     tests and by the rkbctl simulator. On linux and darwin it is backed by an
//     anonymous mmap, elsewhere by a Go slice.
//   - Physical (tinygo builds only) dereferences real SRAM addresses.
//
// Words are little-endian, matching the Cortex-M0+. Word access must be
// 4-byte aligned; the core faults on unaligned word loads and Arena panics.
package ram
