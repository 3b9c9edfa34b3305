// Package conv provides checked integer conversion and size arithmetic.
//
// These functions perform bounds checking to prevent overflow when converting
// between Go's platform-dependent int and the fixed-width int64 fields stored in
// a backing block header, and when computing block sizes from slot counts.
//
// Use cases:
//   - Decoding header fields that may have been corrupted in memory
//   - Computing headerBytes + slots*elementSize without wrapping around
//
// For conversions that are provably safe by domain constraints (e.g., loop
// indices, bounded counters), use direct type casts instead to avoid overhead.
package conv
