// Package mem provides memory allocation utilities.
package mem

import (
	"unsafe"
)

// Alignment is the byte alignment of every block returned by AllocAligned.
const Alignment = 64

// WordSize is the alignment a block header is rounded up to, so that element
// storage placed after it is suitable for any fixed-size scalar.
const WordSize = 8

// AlignUp rounds n up to the next multiple of align. align must be a power of two.
func AlignUp(n, align int) int {
	mask := align - 1
	return (n + mask) &^ mask
}

// AllocAligned allocates a zeroed byte slice of the given size with 64-byte alignment.
// The returned slice is guaranteed to start at a memory address divisible by 64.
//
// Note: This function allocates slightly more memory than requested to ensure alignment.
// The underlying array is kept alive by the returned slice. The capacity is clipped to
// size so appends never spill into the alignment slack.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	totalSize := size + Alignment
	buf := make([]byte, totalSize)

	ptr := unsafe.Pointer(&buf[0]) //nolint:gosec // unsafe is required for memory alignment
	addr := uintptr(ptr)
	offset := int((Alignment - (addr & (Alignment - 1))) & (Alignment - 1))

	return buf[offset : offset+size : offset+size]
}

// IsAligned reports whether b starts at an address divisible by align.
func IsAligned(b []byte, align int) bool {
	if len(b) == 0 {
		return true
	}
	addr := uintptr(unsafe.Pointer(&b[0])) //nolint:gosec // address inspection only
	return addr%uintptr(align) == 0
}
