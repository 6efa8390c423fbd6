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

	"github.com/latticeforge/bkwreduce/lwe"
	"github.com/latticeforge/bkwreduce/step"
)

// SmoothBucketCount returns c = ceil((2*qPrime-1)/p), the smooth-LMS
// bucket count for a position reduced with factor p.
func SmoothBucketCount(qPrime uint64, p int) uint64 {
	return ceilDivU(2*qPrime-1, uint64(p))
}

func ceilDivU(a, b uint64) uint64 {
	return (a + b - 1) / b
}

// PositionSmoothLMSMap folds a raw position value pi into [0, c), centered
// around zero: values below q' map through the direct shifted formula,
// values at or above q' mirror about the actual modulus q. The shift and
// the mirrored branch both depend on the parity of c: for odd c the
// mirror is (c - v) mod c, for even c it is c-1-v. q is a separate
// parameter because it is not always 2*qPrime-1: a leading slot is
// sometimes bucketed with qPrime set to a previous step's p1 instead of
// the instance's own q'.
func PositionSmoothLMSMap(pi uint16, q uint32, qPrime uint64, p int, c uint64) uint64 {
	if c%2 == 1 {
		delta := int64(p)*(int64(c/2)+1) - int64(qPrime)
		if uint64(pi) < qPrime {
			return uint64((int64(pi) + delta) / int64(p))
		}
		v := (int64(q) - int64(pi) + delta) / int64(p)
		return uint64((int64(c) - v) % int64(c))
	}
	delta := int64(p)*int64(c/2) - int64(qPrime)
	if uint64(pi) < qPrime {
		return uint64((int64(pi) + delta) / int64(p))
	}
	v := (int64(q) - int64(pi) + delta) / int64(p)
	return uint64(int64(c) - 1 - v)
}

// reflectTuple maps each component to its additive-inverse bucket, the
// parity-dependent remap the "large leading coordinate" recursion branch
// applies to the earlier positions: (c - t) mod c for odd c, c-t-1 for
// even c.
func reflectTuple(t, c []uint64) []uint64 {
	nt := make([]uint64, len(t))
	for i, v := range t {
		if c[i]%2 == 1 {
			nt[i] = (c[i] - v) % c[i]
		} else {
			nt[i] = c[i] - v - 1
		}
	}
	return nt
}

// smoothLMSIndexRec is the per-position-varying-c analogue of lmsIndex:
// the recursion peels from the last position, scaling by the running
// product of the earlier positions' bucket counts instead of a single
// c^k. The layout differs by the parity of the peeled position's own
// bucket count: an odd count has a self-inverse zero bucket, so t=0
// recurses bare and small values land on odd strata; an even count has
// none, so small values land on even strata and every bucket pairs with
// a distinct partner.
func smoothLMSIndexRec(t []uint64, c []uint64) uint64 {
	n := len(t)
	last, cLast := t[n-1], c[n-1]

	if cLast%2 == 1 {
		if n == 1 {
			switch {
			case last == 0:
				return 0
			case 2*last < cLast:
				return 2*last - 1
			default:
				return 2 * (cLast - last)
			}
		}
		switch {
		case last == 0:
			return smoothLMSIndexRec(t[:n-1], c[:n-1])
		case 2*last < cLast:
			index := 2*last - 1
			for _, ci := range c[:n-1] {
				index *= ci
			}
			return index + 2*smoothLMSIndexRec(t[:n-1], c[:n-1])
		default:
			index := 2*(cLast-last) - 1
			for _, ci := range c[:n-1] {
				index *= ci
			}
			return index + 1 + 2*smoothLMSIndexRec(reflectTuple(t[:n-1], c[:n-1]), c[:n-1])
		}
	}

	if n == 1 {
		if 2*last < cLast {
			return 2 * last
		}
		return 2*(cLast-last) - 1
	}
	if last < cLast/2 {
		index := 2 * last
		for _, ci := range c[:n-1] {
			index *= ci
		}
		return index + 2*smoothLMSIndexRec(t[:n-1], c[:n-1])
	}
	index := 2 * (cLast - last - 1)
	for _, ci := range c[:n-1] {
		index *= ci
	}
	return index + 1 + 2*smoothLMSIndexRec(reflectTuple(t[:n-1], c[:n-1]), c[:n-1])
}

// smoothSlot is one bucketed component fed to smoothLMSIndexRec: a raw
// value read from the sample plus the reduction factor it is bucketed
// with. prevQPrime, when non-zero, overrides the step's own q' with the
// previous step's p1 — the leading (values[0]) slot of a middle or last
// step is bucketed against that narrower range, not the full q'.
type smoothSlot struct {
	value      uint16
	p          int
	prevQPrime uint64
}

// smoothSlotPlan lays out the slots a smooth-LMS step's index is built
// from. Each phase builds its full, untruncated slot list with index 0
// least significant and the last index most significant:
//
//   - first step: p, p, ..., p (Ni slots, one per position), then p1
//     bucketing the straddling coordinate a[startIndex+numPositions].
//   - middle step: p2 bucketing values[0] against the *previous* step's
//     p1, then p, ..., p (Ni-1 slots), then p1 bucketing the straddling
//     coordinate.
//   - last step: p2 bucketing values[0] against the previous step's p1,
//     then p, ..., p (Ni-1 slots); there is no straddling coordinate on
//     the last step.
//
// meta_skipped positions are then dropped from the *end* of that list —
// the reduction pass sub-sorts them into a separate meta-grid instead —
// which is why the straddling p1 slot disappears first as meta_skipped
// grows from 0 to 1, then the trailing p slot as it grows to 2, exactly
// mirroring step.Params.NumCategories's split.
func smoothSlotPlan(p *step.Params, n int) ([]smoothSlot, error) {
	phase := p.Phase(n)
	ni := p.NumPositions

	var full []smoothSlot
	switch phase {
	case step.PhaseFirst:
		for i := 0; i < ni; i++ {
			full = append(full, smoothSlot{p: p.P})
		}
		full = append(full, smoothSlot{p: p.P1})
	case step.PhaseMiddle:
		full = append(full, smoothSlot{p: p.P2, prevQPrime: uint64(p.PrevP1)})
		for i := 1; i < ni; i++ {
			full = append(full, smoothSlot{p: p.P})
		}
		full = append(full, smoothSlot{p: p.P1})
	default: // PhaseLast
		full = append(full, smoothSlot{p: p.P2, prevQPrime: uint64(p.PrevP1)})
		for i := 1; i < ni; i++ {
			full = append(full, smoothSlot{p: p.P})
		}
	}

	length := len(full) - p.MetaSkipped
	if length <= 0 {
		return nil, fmt.Errorf("category: smoothLMS numPositions=%d leaves no active slots after meta_skipped=%d", p.NumPositions, p.MetaSkipped)
	}
	return full[:length], nil
}

// SmoothLMSIndex computes the category index for a smooth-LMS step.
// values holds the step's own NumPositions coordinates and, for a
// non-last step, one extra trailing coordinate — the straddling
// a[startIndex+numPositions] that step.Params.IndexWindow already widens
// the read for.
func SmoothLMSIndex(inst *lwe.Instance, p *step.Params, values []uint16) (uint64, error) {
	if inst.IsEvenQ() {
		return 0, fmt.Errorf("category: smoothLMS is undefined for even q=%d", inst.Q)
	}
	qPrime := ceilDivU(uint64(inst.Q), 2)
	slots, err := smoothSlotPlan(p, inst.N)
	if err != nil {
		return 0, err
	}
	if len(values) < len(slots) {
		return 0, fmt.Errorf("category: smoothLMS needs %d position values, got %d", len(slots), len(values))
	}
	for i := range slots {
		slots[i].value = values[i]
	}

	c := make([]uint64, len(slots))
	t := make([]uint64, len(slots))
	for i, s := range slots {
		qp := qPrime
		if s.prevQPrime != 0 {
			qp = s.prevQPrime
		}
		c[i] = SmoothBucketCount(qp, s.p)
		t[i] = PositionSmoothLMSMap(s.value, inst.Q, qp, s.p, c[i])
	}
	return smoothLMSIndexRec(t, c), nil
}

// SmoothLMSSingleton reports whether numCategories (as returned by
// step.Params.NumCategories) makes index 0 the step's only singleton
// (odd category count) or whether there are none (even count).
func SmoothLMSSingleton(numCategories uint64) (idx uint64, has bool) {
	if numCategories%2 == 1 {
		return 0, true
	}
	return 0, false
}
