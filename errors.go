package evec

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure reported by this module matches exactly one of
// these with errors.Is.
var (
	// ErrAllocation is returned when backing storage could not be obtained.
	ErrAllocation = errors.New("allocation failed")
	// ErrIndex is returned for out-of-range element access.
	ErrIndex = errors.New("index out of range")
	// ErrSizeMismatch is returned when an element does not fit the vector's element size.
	ErrSizeMismatch = errors.New("element size mismatch")
	// ErrCorruption is returned when a block header fails its integrity check.
	ErrCorruption = errors.New("vector header corrupted")
	// ErrUsage is returned when an operation is invoked on a vector that cannot serve it.
	ErrUsage = errors.New("invalid vector usage")
)

// Usage errors. All of them match ErrUsage.
var (
	// ErrNilHandle is returned when an operation requires an initialized vector.
	ErrNilHandle = fmt.Errorf("%w: nil vector", ErrUsage)
	// ErrFreed is returned for any operation on a vector after Free.
	ErrFreed = fmt.Errorf("%w: vector has been freed", ErrUsage)
	// ErrStaleHandle is returned when a handle refers to a block that was grown away from.
	ErrStaleHandle = fmt.Errorf("%w: stale handle, vector was reallocated", ErrUsage)
	// ErrCursorNotStarted is returned by Next before Head.
	ErrCursorNotStarted = fmt.Errorf("%w: next called before head", ErrUsage)
	// ErrCursorInvalidated is returned by a cursor whose vector was mutated.
	ErrCursorInvalidated = fmt.Errorf("%w: vector mutated during traversal", ErrUsage)
	// ErrInvalidArgument is returned for negative sizes, counts or nil callbacks.
	ErrInvalidArgument = fmt.Errorf("%w: invalid argument", ErrUsage)
)

// AllocationError indicates the backing storage request could not be satisfied.
//
// The underlying error (if any) can be accessed via errors.Unwrap.
type AllocationError struct {
	Bytes int
	cause error
}

// NewAllocationError returns an AllocationError for a request of n bytes.
// n is 0 when the request size itself could not be computed.
func NewAllocationError(n int, cause error) *AllocationError {
	return &AllocationError{Bytes: n, cause: cause}
}

func (e *AllocationError) Error() string {
	msg := "allocation failed"
	if e.Bytes > 0 {
		msg = fmt.Sprintf("allocation of %dB failed", e.Bytes)
	}
	if e.cause != nil {
		return msg + ": " + e.cause.Error()
	}
	return msg
}

func (e *AllocationError) Unwrap() error { return e.cause }

// Is reports whether target is ErrAllocation.
func (e *AllocationError) Is(target error) bool { return target == ErrAllocation }

// IndexError indicates an out-of-range element access.
type IndexError struct {
	Index int
	Count int
}

func (e *IndexError) Error() string {
	if e.Count == 0 {
		return fmt.Sprintf("index %d out of range: vector is empty", e.Index)
	}
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Count)
}

// Is reports whether target is ErrIndex.
func (e *IndexError) Is(target error) bool { return target == ErrIndex }

// SizeMismatchError indicates an element whose size disagrees with the vector's element size.
type SizeMismatchError struct {
	Expected int
	Actual   int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("element size mismatch: expected %dB, got %dB", e.Expected, e.Actual)
}

// Is reports whether target is ErrSizeMismatch.
func (e *SizeMismatchError) Is(target error) bool { return target == ErrSizeMismatch }

// CorruptionError indicates a header integrity check failure.
type CorruptionError struct {
	Field  string
	Reason string
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("vector header corrupted: %s: %s", e.Field, e.Reason)
}

// Is reports whether target is ErrCorruption.
func (e *CorruptionError) Is(target error) bool { return target == ErrCorruption }
