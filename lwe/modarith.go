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

package lwe

import "fmt"

// SumDiffTable answers elementwise sum/difference queries over Z_q. For
// the moduli this core supports (up to q=16411) a dense q*q lookup would
// cost on the order of a gigabyte per table and would not out-perform a
// modular add/subtract, so the table keeps an O(1)-per-query interface
// while computing entries directly instead of materializing q^2 of them.
type SumDiffTable struct {
	q uint32
}

// NewSumDiffTable validates q and returns a ready-to-use table. A zero q
// is the only condition under which table creation can fail; the reduction
// pass maps that failure to its table-creation exit code.
func NewSumDiffTable(q uint32) (*SumDiffTable, error) {
	if q == 0 {
		return nil, fmt.Errorf("lwe: cannot build sum/diff table for q=0")
	}
	return &SumDiffTable{q: q}, nil
}

// Sum returns (a+b) mod q.
func (t *SumDiffTable) Sum(a, b uint16) uint16 {
	return uint16((uint32(a) + uint32(b)) % t.q)
}

// Diff returns (a-b) mod q.
func (t *SumDiffTable) Diff(a, b uint16) uint16 {
	q := t.q
	return uint16((uint32(a) + q - uint32(b)%q) % q)
}

// Op selects Sum when add is true, Diff otherwise; the reduction pass uses
// this to share one code path between LF1's "anchor minus" combinations and
// its cross-cell "anchor plus" combinations.
func (t *SumDiffTable) Op(a, b uint16, add bool) uint16 {
	if add {
		return t.Sum(a, b)
	}
	return t.Diff(a, b)
}

// CombineCoordinates writes op(a1[i], a2[i]) into dst for every coordinate,
// unrolled in batches of CurrentDispatchLevel's width. The result is
// identical regardless of batch width; wider batches only change how many
// loop-carried Go bounds checks are amortized per iteration.
func (t *SumDiffTable) CombineCoordinates(dst, a1, a2 []uint16, add bool) {
	n := len(dst)
	width := currentWidth
	if width < 1 {
		width = 1
	}
	i := 0
	for ; i+width <= n; i += width {
		for j := 0; j < width; j++ {
			dst[i+j] = t.Op(a1[i+j], a2[i+j], add)
		}
	}
	for ; i < n; i++ {
		dst[i] = t.Op(a1[i], a2[i], add)
	}
}

// CombineError applies the contagious-unknown rule: the result is
// ErrorUnknown if either parent is, otherwise it is op(e1, e2)
// (not reduced mod q — the error term is a small signed integer, not a
// residue).
func CombineError(e1, e2 int16, add bool) int16 {
	if e1 == ErrorUnknown || e2 == ErrorUnknown {
		return ErrorUnknown
	}
	if add {
		return e1 + e2
	}
	return e1 - e2
}

// Combine produces the sample resulting from combining parents p1 and p2:
// new a, new error (contagious -1), new sumWithError mod q, and a freshly
// recomputed hash.
func (t *SumDiffTable) Combine(p1, p2 *Sample, add bool) Sample {
	a := make([]uint16, len(p1.A))
	t.CombineCoordinates(a, p1.A, p2.A, add)
	return Sample{
		A:            a,
		Hash:         HashCoordinates(a),
		Error:        CombineError(p1.Error, p2.Error, add),
		SumWithError: t.Op(p1.SumWithError, p2.SumWithError, add),
	}
}

// IsZero reports whether every coordinate of a is zero. The reduction pass
// discards such samples rather than writing them.
func IsZero(a []uint16) bool {
	for _, v := range a {
		if v != 0 {
			return false
		}
	}
	return true
}
