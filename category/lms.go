// Copyright 2025 go-highway Authors
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

package category

import (
	"fmt"
	"sync"
)

// LMSBucketCount returns c = floor(q/p) + 1, the number of buckets each
// LMS position folds into.
func LMSBucketCount(q uint32, p int) uint64 {
	return uint64(q)/uint64(p) + 1
}

// positionLMSMap folds a raw position value into [0, c). The rounding is
// biased (p/2 is added before the integer division), which skews the
// midpoint bucket for even q.
func positionLMSMap(pi uint16, p int, c uint64) uint64 {
	return (uint64(pi) + uint64(p)/2) / uint64(p) % c
}

// ipow64 raises base to a small non-negative integer exponent.
func ipow64(base uint64, exp int) uint64 {
	r := uint64(1)
	for i := 0; i < exp; i++ {
		r *= base
	}
	return r
}

// baseLMSIndex is the single-position base case of the recursive layout:
// the plain-BKW shape over c buckets. 0 maps to 0, small values to odd offsets, large
// values to even offsets, and — when c is even — the midpoint bucket c/2
// (which has no reflection partner) takes the one otherwise-unused slot
// c-1 instead of colliding with the large branch.
func baseLMSIndex(t, c uint64) uint64 {
	if t == 0 {
		return 0
	}
	if c%2 == 0 && t == c/2 {
		return c - 1
	}
	if 2*t < c {
		return 2*t - 1
	}
	return 2 * (c - t)
}

// lmsIndex maps a bucketed tuple t (each component already in [0, c)) to
// its category index, one recursion level per trailing component: tuples
// whose sum or difference cancels land in adjacent indices or in indices
// differing only in the +1 bit. It evaluates the recursion
// directly at query time rather than materializing T_k as an explicit
// array: the table would have c^len(t) entries (up to c^6), and a direct
// evaluation costs the same per query without paying that up-front
// memory and build cost.
func lmsIndex(t []uint64, c uint64) uint64 {
	if len(t) == 1 {
		return baseLMSIndex(t[0], c)
	}
	k := len(t) - 1
	last := t[k]
	rest := t[:k]
	ck := ipow64(c, k)

	switch {
	case last == 0:
		return lmsIndex(rest, c)
	case c%2 == 0 && 2*last == c:
		return (c-1)*ck + lmsIndex(rest, c)
	case 2*last < c:
		return (2*last-1)*ck + 2*lmsIndex(rest, c)
	default:
		reflected := make([]uint64, k)
		for i, v := range rest {
			reflected[i] = (c - v) % c
		}
		return (2*(c-last)-1)*ck + 1 + 2*lmsIndex(reflected, c)
	}
}

// LMSIndex computes the category index for an LMS step over values (one
// per position, length >= numPositions).
func LMSIndex(q uint32, p, numPositions int, values []uint16) (uint64, error) {
	if len(values) < numPositions {
		return 0, fmt.Errorf("category: LMS needs %d position values, got %d", numPositions, len(values))
	}
	c := LMSBucketCount(q, p)
	t := make([]uint64, numPositions)
	for i := 0; i < numPositions; i++ {
		t[i] = positionLMSMap(values[i], p, c)
	}
	return lmsIndex(t, c), nil
}

// BuildLMSTable materializes the full numPositions-deep mapping as a flat,
// row-major lookup over every bucketed tuple in [0,c)^numPositions: entry
// at lexicographic tuple position i holds lmsIndex(tuple, c). It exists
// for cmd/gentables, which emits this array as Go source for small (c,
// numPositions) pairs so a caller can look the category index up instead
// of recomputing the recursion.
func BuildLMSTable(c uint64, numPositions int) []uint64 {
	total := ipow64(c, numPositions)
	out := make([]uint64, total)
	t := make([]uint64, numPositions)
	for i := uint64(0); i < total; i++ {
		rem := i
		for pos := numPositions - 1; pos >= 0; pos-- {
			t[pos] = rem % c
			rem /= c
		}
		out[i] = lmsIndex(t, c)
	}
	return out
}

var (
	lmsSingletonMu    sync.Mutex
	lmsSingletonCache = map[[2]uint64][]uint64{}
)

// LMSSingletons returns the cached set of singleton category indices —
// categories with no distinct reducing partner — for (c, numPositions):
// just {0} when c is odd, or one index per corner vector in
// {0, c/2}^numPositions when c is even.
func LMSSingletons(c uint64, numPositions int) []uint64 {
	if c%2 == 1 {
		return []uint64{0}
	}
	key := [2]uint64{c, uint64(numPositions)}

	lmsSingletonMu.Lock()
	defer lmsSingletonMu.Unlock()
	if cached, ok := lmsSingletonCache[key]; ok {
		return cached
	}

	half := c / 2
	corners := 1 << numPositions
	out := make([]uint64, 0, corners)
	t := make([]uint64, numPositions)
	for mask := 0; mask < corners; mask++ {
		for i := 0; i < numPositions; i++ {
			if mask&(1<<i) != 0 {
				t[i] = half
			} else {
				t[i] = 0
			}
		}
		out = append(out, lmsIndex(t, c))
	}
	lmsSingletonCache[key] = out
	return out
}
