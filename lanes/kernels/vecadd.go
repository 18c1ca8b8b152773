// Copyright 2025 go-lanes Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package kernels provides data-parallel compute kernels over float32
// sequences.
//
// Every kernel comes in two forms: a per-lane function (one lane computes
// one element, GPU-style) and a block-granular span used by the launch
// engine. Both forms guard every memory access with an explicit range
// check against the logical length n, so launched lane counts may safely
// exceed n — lanes at or beyond n are no-ops and never touch memory.
//
// Kernels are pure and stateless: no allocation, no synchronization, no
// logging, no error channel. Preconditions (input slices hold at least n
// valid elements, the output has capacity for n) are the host's contract;
// violating them is an out-of-range slice access, not a detected error.
package kernels

import (
	"math"

	"github.com/ajroetker/go-lanes/lanes"
	"github.com/ajroetker/go-lanes/lanes/launch"
)

// MinParallelAddOps is the minimum logical length before dispatching an
// add across the pool. Elementwise add is memory-bound; below ~16K
// elements the dispatch overhead costs more than the copy saves.
const MinParallelAddOps = 16384

// AddLane is the per-lane elementwise-add kernel: c[id] = a[id] + b[id].
//
// It is invoked once per lane by the launch environment with the lane's
// caller-assigned index id. Lanes with id >= n perform no memory access at
// all, which makes over-provisioned launches (lane counts rounded up to a
// block multiple) safe. Each lane writes exactly one element, its own, so
// concurrent lanes never overlap.
//
// Float32 addition follows IEEE-754 single precision semantics, including
// NaN and Inf propagation.
func AddLane(c, a, b []float32, n, id uint32) {
	if id < n {
		c[id] = a[id] + b[id]
	}
}

// vectorStride is the unroll stride for blocked kernels: one vector
// register's worth of float32 lanes at the detected dispatch width.
var vectorStride = lanes.VectorLanes()

// addSpan computes c[i] = a[i] + b[i] for every lane index in [start, end)
// that is below n. The range check is hoisted out of the inner loop: the
// span is clipped against n once, then processed one vector stride at a
// time plus a scalar tail. Behavior is identical to invoking AddLane for
// each id in [start, end).
func addSpan(c, a, b []float32, n, start, end uint32) {
	if end > n {
		end = n
	}
	if start >= end {
		return
	}

	cs := c[start:end]
	as := a[start:end]
	bs := b[start:end]

	stride := vectorStride
	var i int
	for ; i+stride <= len(cs); i += stride {
		for j := 0; j < stride; j++ {
			cs[i+j] = as[i+j] + bs[i+j]
		}
	}
	// Scalar tail
	for ; i < len(cs); i++ {
		cs[i] = as[i] + bs[i]
	}
}

// Add dispatches the elementwise-add kernel across pool, computing
// c[i] = a[i] + b[i] for every i in [0, n). Elements of c at or beyond n
// are left untouched.
//
// Lane indices are 32-bit: n must fit in uint32. An oversized n panics at
// the dispatch boundary rather than silently computing a prefix.
//
// Falls back to sequential execution when pool is nil or n is below
// MinParallelAddOps.
func Add(pool *launch.Pool, c, a, b []float32, n int) {
	AddBlocked(pool, c, a, b, n, lanes.DefaultBlockSize)
}

// AddBlocked is Add with an explicit block size. The launched lane count
// is n rounded up to the block multiple, so the trailing block always
// contains lanes beyond n; the kernel's bounds guard suppresses them.
func AddBlocked(pool *launch.Pool, c, a, b []float32, n, blockSize int) {
	if n <= 0 {
		return
	}
	if uint64(n) > math.MaxUint32 {
		panic("kernels: n exceeds the uint32 lane-index range")
	}
	un := uint32(n)

	if pool == nil || n < MinParallelAddOps {
		addSpan(c, a, b, un, 0, un)
		return
	}

	al := lanes.AlignedLanes(n, blockSize)
	if uint64(al) > math.MaxUint32 {
		// Rounding up would overflow the lane-index range; the exact count
		// still covers [0, n) and the trailing block is simply not padded.
		al = n
	}
	l := uint32(al)
	pool.LaunchBlocks(l, blockSize, func(start, end uint32) {
		addSpan(c, a, b, un, start, end)
	})
}
