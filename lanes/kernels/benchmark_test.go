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

package kernels

import (
	"fmt"
	"testing"

	"github.com/ajroetker/go-lanes/lanes/launch"
)

var benchSizes = []int{1 << 10, 1 << 14, 1 << 18, 1 << 22}

func BenchmarkAddSequential(b *testing.B) {
	for _, n := range benchSizes {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			a := ramp(n, 0)
			bb := ramp(n, 1)
			c := make([]float32, n)
			b.SetBytes(int64(n * 4 * 3))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				Add(nil, c, a, bb, n)
			}
		})
	}
}

func BenchmarkAddPool(b *testing.B) {
	pool := launch.New(0)
	defer pool.Close()

	for _, n := range benchSizes {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			a := ramp(n, 0)
			bb := ramp(n, 1)
			c := make([]float32, n)
			b.SetBytes(int64(n * 4 * 3))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				Add(pool, c, a, bb, n)
			}
		})
	}
}

func BenchmarkAddLane(b *testing.B) {
	const n = 1 << 14
	a := ramp(n, 0)
	bb := ramp(n, 1)
	c := make([]float32, n)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		AddLane(c, a, bb, n, uint32(i%n))
	}
}
