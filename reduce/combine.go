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

// Package reduce implements the meta-category reduction pass: it
// consumes sorted (category, additive-inverse category) pairs from a
// storage.Reader, pairwise-combines samples under LF1 or LF2, optionally
// sub-sorts smooth-LMS cells into a meta-grid first, and streams
// survivors to a storage.Writer.
package reduce

import (
	"github.com/latticeforge/bkwreduce/lwe"
	"github.com/latticeforge/bkwreduce/step"
)

// lf1WithinDiffs emits the k-1 "anchor minus" differences for a single
// cell of size k: cell[0] - cell[j] for j = 1..k-1.
func lf1WithinDiffs(cell []lwe.Sample, sdt *lwe.SumDiffTable) []lwe.Sample {
	if len(cell) < 2 {
		return nil
	}
	out := make([]lwe.Sample, 0, len(cell)-1)
	for j := 1; j < len(cell); j++ {
		out = append(out, sdt.Combine(&cell[0], &cell[j], false))
	}
	return out
}

// lf2WithinDiffs emits all k*(k-1)/2 pairwise differences within a
// single cell.
func lf2WithinDiffs(cell []lwe.Sample, sdt *lwe.SumDiffTable) []lwe.Sample {
	if len(cell) < 2 {
		return nil
	}
	out := make([]lwe.Sample, 0, len(cell)*(len(cell)-1)/2)
	for i := 0; i < len(cell); i++ {
		for j := i + 1; j < len(cell); j++ {
			out = append(out, sdt.Combine(&cell[i], &cell[j], false))
		}
	}
	return out
}

// combineCellPair combines one pair of aligned grid cells (b1, b2), which
// may be the category pair itself when no meta-grid sub-sort applies.
// Under LF1, an empty b1 falls through to LF1 within b2 alone.
func combineCellPair(b1, b2 []lwe.Sample, sel step.Selection, sdt *lwe.SumDiffTable) []lwe.Sample {
	switch sel {
	case step.LF1:
		if len(b1) == 0 {
			return lf1WithinDiffs(b2, sdt)
		}
		out := lf1WithinDiffs(b1, sdt)
		for j := range b2 {
			out = append(out, sdt.Combine(&b1[0], &b2[j], true))
		}
		return out

	default: // LF2
		out := lf2WithinDiffs(b1, sdt)
		out = append(out, lf2WithinDiffs(b2, sdt)...)
		for i := range b1 {
			for j := range b2 {
				out = append(out, sdt.Combine(&b1[i], &b2[j], true))
			}
		}
		return out
	}
}
