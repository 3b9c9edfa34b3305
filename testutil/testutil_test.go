package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInts(t *testing.T) {
	rng := NewRNG(4711)

	xs := rng.Ints(100, 10)

	assert.Len(t, xs, 100)
	for _, x := range xs {
		assert.GreaterOrEqual(t, x, 0)
		assert.Less(t, x, 10)
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	v1 := rng.Ints(10, 1000)

	rng.Reset()
	v2 := rng.Ints(10, 1000)

	assert.Equal(t, v1, v2)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestSkewedInts(t *testing.T) {
	rng := NewRNG(42)

	xs := rng.SkewedInts(10000, 10, 1.5)

	counts := make([]int, 10)
	for _, x := range xs {
		assert.GreaterOrEqual(t, x, 0)
		assert.Less(t, x, 10)
		counts[x]++
	}

	// Zipf: the smallest value dominates
	assert.Greater(t, counts[0], counts[9])
	assert.Greater(t, counts[0], 10000/10)
}

func TestSubset(t *testing.T) {
	rng := NewRNG(42)

	idx := rng.Subset(1000, 0.3)

	assert.InDelta(t, 300, len(idx), 60)
	for i := 1; i < len(idx); i++ {
		assert.Less(t, idx[i-1], idx[i])
	}
	assert.Empty(t, rng.Subset(100, 0))
	assert.Len(t, rng.Subset(100, 1), 100)
}

func TestUint32Elements(t *testing.T) {
	b := EncodeUint32(0xDEADBEEF)

	assert.Len(t, b, 4)
	assert.Equal(t, uint32(0xDEADBEEF), DecodeUint32(b))
	assert.Equal(t, -1, CompareUint32(EncodeUint32(1), EncodeUint32(2)))
	assert.Equal(t, 1, CompareUint32(EncodeUint32(3), EncodeUint32(2)))
	assert.Equal(t, 0, CompareUint32(EncodeUint32(2), EncodeUint32(2)))
}
