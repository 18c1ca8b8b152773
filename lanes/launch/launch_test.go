// Copyright 2025 The go-lanes Authors. SPDX-License-Identifier: Apache-2.0

package launch

import (
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsToGOMAXPROCS(t *testing.T) {
	pool := New(0)
	defer pool.Close()

	assert.Equal(t, runtime.GOMAXPROCS(0), pool.NumWorkers())
}

// TestLaunchDeliversEachLaneOnce is the core dispatch contract: every lane
// index in [0, L) is delivered exactly once, regardless of worker count or
// block decomposition.
func TestLaunchDeliversEachLaneOnce(t *testing.T) {
	for _, l := range []uint32{1, 2, 17, 256, 10000} {
		for _, workers := range []int{1, 2, 8} {
			pool := New(workers)

			hits := make([]atomic.Int32, l)
			pool.Launch(l, func(id uint32) {
				hits[id].Add(1)
			})
			pool.Close()

			for id := range hits {
				require.Equal(t, int32(1), hits[id].Load(),
					"l=%d workers=%d: lane %d hit count", l, workers, id)
			}
		}
	}
}

func TestLaunchZeroLanes(t *testing.T) {
	pool := New(2)
	defer pool.Close()

	called := false
	pool.Launch(0, func(uint32) { called = true })
	assert.False(t, called, "zero-lane launch must not invoke the kernel")
}

func TestLaunchBlocksCoverWithoutOverlap(t *testing.T) {
	const l = 1000
	pool := New(4)
	defer pool.Close()

	for _, blockSize := range []int{1, 7, 64, 256, 4096} {
		hits := make([]atomic.Int32, l)
		pool.LaunchBlocks(l, blockSize, func(start, end uint32) {
			require.LessOrEqual(t, start, end)
			require.LessOrEqual(t, end, uint32(l))
			for id := start; id < end; id++ {
				hits[id].Add(1)
			}
		})

		for id := range hits {
			require.Equal(t, int32(1), hits[id].Load(),
				"blockSize=%d: lane %d hit count", blockSize, id)
		}
	}
}

func TestLaunchOnClosedPoolFallsBackSequential(t *testing.T) {
	pool := New(2)
	pool.Close()

	var count atomic.Int32
	pool.Launch(100, func(uint32) { count.Add(1) })
	assert.Equal(t, int32(100), count.Load())
}

func TestCloseIsIdempotent(t *testing.T) {
	pool := New(2)
	pool.Close()
	assert.NotPanics(t, pool.Close)
}

// Lanes sharing read-only inputs and writing disjoint indices is the sole
// correctness mechanism; this test would trip the race detector if the
// block decomposition ever handed two workers the same index.
func TestLaunchDisjointWrites(t *testing.T) {
	const l = 1 << 16
	pool := New(8)
	defer pool.Close()

	out := make([]uint32, l)
	pool.Launch(l, func(id uint32) {
		out[id] = id
	})

	for id, v := range out {
		require.Equal(t, uint32(id), v)
	}
}
