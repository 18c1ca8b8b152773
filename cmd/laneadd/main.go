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

// Command laneadd dispatches the elementwise-add kernel across a lane pool
// and verifies the result. It doubles as a smoke test for the launch engine
// and a throughput probe.
//
// Usage:
//
//	laneadd -n 1048576 -block 256 -workers 8
//	laneadd -n 1000000 -repeat 10 -verbose
package main

import (
	"flag"
	"math"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ajroetker/go-lanes/lanes"
	"github.com/ajroetker/go-lanes/lanes/kernels"
	"github.com/ajroetker/go-lanes/lanes/launch"
)

var (
	n         = flag.Int("n", 1<<20, "Logical length of the input sequences")
	blockSize = flag.Int("block", lanes.DefaultBlockSize, "Lanes per block; launched lane count is n rounded up to this multiple")
	workers   = flag.Int("workers", 0, "Worker count (0 = GOMAXPROCS)")
	repeat    = flag.Int("repeat", 1, "Number of dispatches to time")
	verbose   = flag.Bool("verbose", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	logger := newLogger(*verbose)
	defer logger.Sync()

	if *n < 0 {
		logger.Fatal("n must be non-negative", zap.Int("n", *n))
	}
	if *repeat < 1 {
		logger.Fatal("repeat must be at least 1", zap.Int("repeat", *repeat))
	}

	logger.Info("execution environment",
		zap.String("dispatch", lanes.CurrentName()),
		zap.Int("vector_width_bytes", lanes.CurrentWidth()),
		zap.Int("vector_lanes_f32", lanes.VectorLanes()),
	)

	launched := lanes.AlignedLanes(*n, *blockSize)
	logger.Info("launch geometry",
		zap.Int("n", *n),
		zap.Int("block_size", *blockSize),
		zap.Int("launched_lanes", launched),
		zap.Int("blocks", lanes.NumBlocks(*n, *blockSize)),
	)

	a := make([]float32, *n)
	b := make([]float32, *n)
	c := make([]float32, *n)
	for i := range a {
		a[i] = float32(i)
		b[i] = float32(2 * i)
	}

	pool := launch.New(*workers)
	defer pool.Close()

	start := time.Now()
	for r := 0; r < *repeat; r++ {
		kernels.AddBlocked(pool, c, a, b, *n, *blockSize)
	}
	elapsed := time.Since(start)

	for i := range c {
		if c[i] != a[i]+b[i] {
			logger.Fatal("verification failed",
				zap.Int("index", i),
				zap.Float32("got", c[i]),
				zap.Float32("want", a[i]+b[i]),
			)
		}
	}

	perDispatch := elapsed / time.Duration(*repeat)
	bytesMoved := float64(*n) * 4 * 3 // two reads, one write per lane
	logger.Info("done",
		zap.Int("workers", pool.NumWorkers()),
		zap.Duration("per_dispatch", perDispatch),
		zap.Float64("gib_per_sec", bytesMoved/math.Max(perDispatch.Seconds(), 1e-12)/(1<<30)),
	)
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		os.Exit(1)
	}
	return logger
}
