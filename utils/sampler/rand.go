// Copyright (C) 2024-2026, Marlin Protocol. All rights reserved.
// See the file LICENSE for licensing terms.

package sampler

import (
	"math"

	"gonum.org/v1/gonum/mathext/prng"
)

// Source is a stream of pseudo-random bits.
type Source interface {
	// Uint64 returns a random number in [0, MaxUint64] and advances the
	// generator's state.
	Uint64() uint64
}

// NewSource returns a deterministic Source. Two sources built from the
// same seed emit identical streams, which is what makes selections
// reproducible: callers that agree on a seed agree on the outcome.
//
// We don't use a cryptographically secure generator here. The seed is
// expected to carry whatever unpredictability the caller needs; the
// generator only stretches it.
func NewSource(seed uint64) Source {
	source := prng.NewMT19937()
	source.Seed(seed)
	return source
}

// RNG layers unbiased range reduction over a Source.
type RNG struct {
	src Source
}

func NewRNG(src Source) *RNG {
	return &RNG{src: src}
}

// Uint64Inclusive returns a pseudo-random number in [0,n].
func (r *RNG) Uint64Inclusive(n uint64) uint64 {
	switch {
	// n+1 is power of two, so we can just mask
	//
	// Note: This does work for MaxUint64 as overflow is explicitly part
	// of the compiler specification:
	// https://go.dev/ref/spec#Integer_overflow
	case n&(n+1) == 0:
		return r.src.Uint64() & n

	// n is greater than MaxUint64/2 so we need to just iterate until we
	// get a number in the requested range.
	case n > math.MaxInt64:
		v := r.src.Uint64()
		for v > n {
			v = r.src.Uint64()
		}
		return v

	// n is less than MaxUint64/2 so we generate a number in the range
	// [0, k*(n+1)) where k is the largest integer such that k*(n+1) is
	// less than or equal to MaxInt64, then reduce it. Values drawn above
	// k*(n+1) are rejected to keep the reduction unbiased.
	default:
		maximum := (1 << 63) - 1 - (1<<63)%(n+1)
		v := r.uint63()
		for v > maximum {
			v = r.uint63()
		}
		return v % (n + 1)
	}
}

// uint63 returns a random number in [0, MaxInt64]
func (r *RNG) uint63() uint64 {
	return r.src.Uint64() & math.MaxInt64
}
