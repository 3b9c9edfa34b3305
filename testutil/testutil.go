package testutil

import (
	"encoding/binary"
	"math"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), //nolint:gosec // deterministic test data
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Ints returns n values uniform in [0, maxVal).
func (r *RNG) Ints(n, maxVal int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	xs := make([]int, n)
	for i := range xs {
		xs[i] = r.rand.Intn(maxVal)
	}
	return xs
}

// SkewedInts returns n values in [0, distinct) following Zipf's law with skew s.
// Small values repeat often, which makes equal keys common.
func (r *RNG) SkewedInts(n, distinct int, s float64) []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	// cumulative weights, computed once
	cdf := make([]float64, distinct)
	var total float64
	for k := range distinct {
		total += 1.0 / math.Pow(float64(k+1), s)
		cdf[k] = total
	}

	xs := make([]int, n)
	for i := range xs {
		u := r.rand.Float64() * total
		k := 0
		for k < distinct-1 && u > cdf[k] {
			k++
		}
		xs[i] = k
	}
	return xs
}

// Subset returns the indices in [0, n) kept with probability rate, ascending.
func (r *RNG) Subset(n int, rate float64) []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var idx []int
	for i := range n {
		if r.rand.Float64() < rate {
			idx = append(idx, i)
		}
	}
	return idx
}

// EncodeUint32 returns x as a 4-byte little-endian element.
func EncodeUint32(x uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, x)
	return b
}

// DecodeUint32 reads a 4-byte little-endian element.
func DecodeUint32(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

// CompareUint32 orders 4-byte little-endian elements numerically.
func CompareUint32(a, b []byte) int {
	x, y := DecodeUint32(a), DecodeUint32(b)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}
