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

package syndrome

import (
	"fmt"

	"modernc.org/mathutil"

	"github.com/latticeforge/bkwreduce/step"
)

// componentCandidates returns the set of component values to brute-force
// over. With cap <= 0 it is the full range [0,q) (used for [2,1] and
// [3,1], and for [4,1] when the caller does not need to bound cost).
// With cap > 0 it is the folded neighborhood of zero with magnitude <= cap,
// bounding the [4,1] generation cost: minimum-weight representatives are
// small in magnitude, so a bounded neighborhood still finds them whenever
// q is large relative to the true minimum weights.
func componentCandidates(q uint32, cap int) []int32 {
	if cap <= 0 || uint32(cap) >= q/2 {
		vals := make([]int32, q)
		for i := range vals {
			vals[i] = int32(i)
		}
		return vals
	}
	// Clamp the neighborhood radius against the fold point q/2: a radius
	// past it would revisit components componentCandidates already
	// returned via the full-range branch above.
	cap = mathutil.Min(cap, int(q/2)-1)
	vals := make([]int32, 0, 2*cap+1)
	for d := 0; d <= cap; d++ {
		vals = append(vals, int32(d))
		if d != 0 {
			vals = append(vals, int32(q)-int32(d))
		}
	}
	return vals
}

// Generate brute-force-builds the nearest-codeword table for (q, ct) by
// minimizing squared Euclidean weight over all considered error vectors.
// capComponent bounds the per-component search range for [4,1] codes
// (pass 0 for the other codes, or whenever an exhaustive search over q^k
// vectors is affordable).
func Generate(q uint32, ct step.CodingType, capComponent int) (*Table, error) {
	if ct == step.ConcatenatedCode21_21 {
		return nil, fmt.Errorf("syndrome: concatenatedCode_21_21 has no table of its own")
	}
	rows, err := generatorRowsFor(ct, q)
	if err != nil {
		return nil, err
	}
	k := len(rows) + 1

	numSyndromes := NumSyndromes(q, k)
	entries := make([][]int16, numSyndromes)
	bestWeight := make([]int64, numSyndromes)
	for i := range bestWeight {
		bestWeight[i] = -1
	}

	candidates := componentCandidates(q, capComponent)
	e := make([]int32, k)
	var recurse func(pos int)
	recurse = func(pos int) {
		if pos == k {
			idx := syndromeIndex(q, rows, e)
			w := squaredWeight(e, q)
			if bestWeight[idx] == -1 || w < bestWeight[idx] {
				bestWeight[idx] = w
				entry := make([]int16, k)
				for i, v := range e {
					entry[i] = int16(v)
				}
				entries[idx] = entry
			}
			return
		}
		for _, v := range candidates {
			e[pos] = v
			recurse(pos + 1)
		}
	}
	recurse(0)

	for i, w := range bestWeight {
		if w == -1 {
			return nil, fmt.Errorf("syndrome: generation did not cover syndrome %d; capComponent=%d is too small", i, capComponent)
		}
	}

	return &Table{Q: q, CT: ct, K: k, Rows: rows, Entries: entries}, nil
}
