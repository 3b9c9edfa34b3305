package evec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	kinds := []error{ErrAllocation, ErrIndex, ErrSizeMismatch, ErrCorruption, ErrUsage}

	tests := []struct {
		name string
		err  error
		kind error
		msg  string
	}{
		{"Allocation", NewAllocationError(64, errors.New("no memory")), ErrAllocation, "allocation of 64B failed: no memory"},
		{"AllocationUnsized", NewAllocationError(0, nil), ErrAllocation, "allocation failed"},
		{"Index", &IndexError{Index: 5, Count: 3}, ErrIndex, "index 5 out of range [0, 3)"},
		{"IndexEmpty", &IndexError{Index: 0}, ErrIndex, "index 0 out of range: vector is empty"},
		{"SizeMismatch", &SizeMismatchError{Expected: 4, Actual: 8}, ErrSizeMismatch, "element size mismatch: expected 4B, got 8B"},
		{"Corruption", &CorruptionError{Field: "magic1", Reason: "bad"}, ErrCorruption, "vector header corrupted: magic1: bad"},
		{"Freed", ErrFreed, ErrUsage, "invalid vector usage: vector has been freed"},
		{"Stale", ErrStaleHandle, ErrUsage, "invalid vector usage: stale handle, vector was reallocated"},
		{"NilHandle", ErrNilHandle, ErrUsage, "invalid vector usage: nil vector"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.msg)
			for _, k := range kinds {
				assert.Equal(t, k == tt.kind, errors.Is(tt.err, k), "kind %v", k)
			}
		})
	}
}

func TestAllocationErrorUnwrap(t *testing.T) {
	cause := errors.New("no memory")
	err := NewAllocationError(8, cause)

	assert.ErrorIs(t, err, cause)
	assert.Same(t, cause, errors.Unwrap(err))
}
