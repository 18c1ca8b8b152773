// Copyright 2025 The go-lanes Authors. SPDX-License-Identifier: Apache-2.0

// Package launch provides the host-side dispatch engine for data-parallel
// kernels. A Pool is created once and reused across many dispatches,
// eliminating per-call goroutine spawn and channel allocation overhead.
//
// A dispatch invokes a per-lane function exactly once for every lane index
// in [0, L). Lanes run with no ordering or simultaneity guarantees; the
// only correctness mechanism available to a kernel is disjoint-write
// partitioning, so a lane must confine its effect to its own index.
//
// Usage:
//
//	pool := launch.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	pool.Launch(alignedLanes, func(id uint32) {
//	    kernels.AddLane(c, a, b, n, id)
//	})
package launch

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a persistent set of workers that executes lane dispatches.
// Workers are spawned once at creation and reused until Close.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool
}

// workItem represents one worker's share of a dispatch.
type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// New creates a pool with the specified number of workers.
// Workers are spawned immediately and persist until Close is called.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		// Buffer enough for all workers to have pending work
		workC: make(chan workItem, numWorkers*2),
	}

	for i := 0; i < numWorkers; i++ {
		go p.worker()
	}

	return p
}

// worker is the main loop for each persistent worker goroutine.
func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts down the pool. All pending work will complete.
// Calling Close multiple times is safe. Dispatches on a closed pool
// degrade to sequential execution on the calling goroutine.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// Launch invokes fn exactly once for each lane index in [0, l).
// Blocks until every lane completes. l == 0 is a no-op.
//
// Lane indices are handed out in contiguous ranges, one range per worker,
// but callers must not rely on any relative ordering between lanes.
func (p *Pool) Launch(l uint32, fn func(id uint32)) {
	p.LaunchBlocks(l, 0, func(start, end uint32) {
		for id := start; id < end; id++ {
			fn(id)
		}
	})
}

// LaunchBlocks invokes fn over contiguous lane ranges covering [0, l),
// blockSize lanes per range, using atomic work stealing for load balance.
// Blocks until all ranges complete. A blockSize <= 0 selects a size that
// spreads the lanes evenly across the workers.
//
// fn receives (start, end) and must process lane indices [start, end).
func (p *Pool) LaunchBlocks(l uint32, blockSize int, fn func(start, end uint32)) {
	if l == 0 {
		return
	}
	n := int(l)

	if blockSize <= 0 {
		blockSize = (n + p.numWorkers - 1) / p.numWorkers
	}

	if p.closed.Load() {
		// Sequential fallback on a closed pool
		fn(0, l)
		return
	}

	numBlocks := (n + blockSize - 1) / blockSize
	workers := min(p.numWorkers, numBlocks)

	if workers == 1 {
		fn(0, l)
		return
	}

	var nextBlock atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		p.workC <- workItem{
			fn: func() {
				for {
					block := int(nextBlock.Add(1)) - 1
					start := block * blockSize
					if start >= n {
						return
					}
					end := min(start+blockSize, n)
					fn(uint32(start), uint32(end))
				}
			},
			barrier: &wg,
		}
	}

	wg.Wait()
}
