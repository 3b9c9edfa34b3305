// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Backing blocks are allocated with 64-byte (cache line) alignment, so a header
// rounded up to WordSize leaves the element storage word aligned as well.
package mem
