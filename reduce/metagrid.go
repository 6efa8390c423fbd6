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

package reduce

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/latticeforge/bkwreduce/category"
	"github.com/latticeforge/bkwreduce/lwe"
	"github.com/latticeforge/bkwreduce/step"
)

// gridCell is a two-axis (last position, and optionally mid position)
// meta-grid coordinate. The mid axis is unused (always 0) when
// meta_skipped == 1.
type gridCell struct {
	last, mid uint64
}

// buildMetaGrid sub-sorts samples into a meta-grid over the trailing
// meta_skipped in {1,2} positions. The last position is
// a[startIndex+numPositions] (the straddling coordinate), bucketed under
// p1 — except on the step that ends the reduction chain, where there is
// no straddling coordinate and the last position
// a[startIndex+numPositions-1] is bucketed under p instead. The
// second-to-last position (only present when meta_skipped == 2) is always
// bucketed under p, one slot before the last position. The grouping is
// done with lo.GroupBy keyed by grid cell; each cell ends up with exactly
// the samples whose trailing coordinates map into it.
func buildMetaGrid(inst *lwe.Instance, p *step.Params, samples []lwe.Sample) (map[gridCell][]lwe.Sample, uint64, uint64, error) {
	qPrime := ceilDiv(uint64(inst.Q), 2)

	lastPos := p.StartIndex + p.NumPositions
	lastFactor := p.P1
	if lastPos == inst.N { // last step of the reduction chain
		lastPos--
		lastFactor = p.P
	}
	cLast := category.SmoothBucketCount(qPrime, lastFactor)

	var cMid uint64
	midPos := -1
	if p.MetaSkipped == 2 {
		midPos = lastPos - 1
		cMid = category.SmoothBucketCount(qPrime, p.P)
	}

	for _, s := range samples {
		if lastPos < 0 || lastPos >= len(s.A) {
			return nil, 0, 0, fmt.Errorf("reduce: meta-grid last position %d out of range for sample with %d coordinates", lastPos, len(s.A))
		}
	}

	grid := lo.GroupBy(samples, func(s lwe.Sample) gridCell {
		cell := gridCell{last: category.PositionSmoothLMSMap(s.A[lastPos], inst.Q, qPrime, lastFactor, cLast)}
		if midPos >= 0 {
			cell.mid = category.PositionSmoothLMSMap(s.A[midPos], inst.Q, qPrime, p.P, cMid)
		}
		return cell
	})
	return grid, cLast, cMid, nil
}

// metaGridCellPairs enumerates the aligned (B1 cell, B2 cell) pairs: B1's
// cell at (i, j) combines with B2's cell at the additive-inverse
// coordinate (invLast(i), invMid(j)).
func metaGridCellPairs(b1Grid, b2Grid map[gridCell][]lwe.Sample, cLast, cMid uint64, metaSkipped int) [][2][]lwe.Sample {
	var pairs [][2][]lwe.Sample
	midCount := uint64(1)
	if metaSkipped == 2 {
		midCount = cMid
	}
	for i := uint64(0); i < cLast; i++ {
		invLast := category.InverseOfCategory(cLast, i)
		for j := uint64(0); j < midCount; j++ {
			var invMid uint64
			if metaSkipped == 2 {
				invMid = category.InverseOfCategory(cMid, j)
			}
			b1 := b1Grid[gridCell{last: i, mid: j}]
			b2 := b2Grid[gridCell{last: invLast, mid: invMid}]
			if len(b1) == 0 && len(b2) == 0 {
				continue
			}
			pairs = append(pairs, [2][]lwe.Sample{b1, b2})
		}
	}
	return pairs
}

func ceilDiv(a, b uint64) uint64 {
	return (a + b - 1) / b
}
