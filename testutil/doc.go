// Package testutil provides testing utilities for evec.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded random source for element data and helpers for
// encoding fixed-size elements for the raw package.
//
// # Random Data
//
//	rng := testutil.NewRNG(seed)
//	xs := rng.Ints(1000, 100)         // uniform in [0, 100)
//	ys := rng.SkewedInts(1000, 10, 1.5) // heavy duplicates for stable-sort tests
//	del := rng.Subset(1000, 0.3)      // ~30% of indices, ascending
//
// # Raw Elements
//
//	b := testutil.EncodeUint32(7)
//	x := testutil.DecodeUint32(b)
package testutil
