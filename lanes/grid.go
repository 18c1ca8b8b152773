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

package lanes

// Launch geometry constants. Block sizes follow the conventions of
// GPU-style dispatch, where the launched lane count is the logical
// problem size rounded up to a block multiple.
const (
	// DefaultBlockSize is the number of lanes handed to a worker in a
	// single batch when the caller does not choose one.
	DefaultBlockSize = 256

	// MaxBlockSize is the largest accepted block size. Larger blocks
	// reduce scheduling overhead but hurt load balancing.
	MaxBlockSize = 1024
)

// AlignedLanes rounds n up to the next multiple of blockSize. This is the
// lane count a host launches for a problem of logical length n: lanes with
// index >= n exist but are suppressed by the kernel's bounds guard.
//
// A blockSize <= 0 is treated as DefaultBlockSize.
func AlignedLanes(n, blockSize int) int {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	if n <= 0 {
		return 0
	}
	return ((n + blockSize - 1) / blockSize) * blockSize
}

// IsAligned returns true if n is a multiple of blockSize.
func IsAligned(n, blockSize int) bool {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return n%blockSize == 0
}

// NumBlocks returns the number of blocks needed to cover n lanes with the
// given block size.
func NumBlocks(n, blockSize int) int {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	if n <= 0 {
		return 0
	}
	return (n + blockSize - 1) / blockSize
}
