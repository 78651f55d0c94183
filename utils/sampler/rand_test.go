// Copyright (C) 2024-2026, Marlin Protocol. All rights reserved.
// See the file LICENSE for licensing terms.

package sampler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSourceDeterministic(t *testing.T) {
	require := require.New(t)

	first := NewSource(42)
	second := NewSource(42)
	for i := 0; i < 100; i++ {
		require.Equal(first.Uint64(), second.Uint64())
	}

	reseeded := NewSource(43)
	same := true
	fresh := NewSource(42)
	for i := 0; i < 100; i++ {
		if fresh.Uint64() != reseeded.Uint64() {
			same = false
			break
		}
	}
	require.False(same)
}

func TestUint64InclusiveBounds(t *testing.T) {
	require := require.New(t)

	bounds := []uint64{
		0,
		1,
		2,
		3,
		10,
		(1 << 10) - 1,
		math.MaxInt64,
		math.MaxInt64 + 1,
		math.MaxUint64 - 1,
		math.MaxUint64,
	}
	for _, n := range bounds {
		rng := NewRNG(NewSource(n))
		for i := 0; i < 100; i++ {
			require.LessOrEqual(rng.Uint64Inclusive(n), n)
		}
	}
}

func TestUint64InclusiveZero(t *testing.T) {
	require := require.New(t)

	rng := NewRNG(NewSource(7))
	for i := 0; i < 10; i++ {
		require.Zero(rng.Uint64Inclusive(0))
	}
}
