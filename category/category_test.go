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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticeforge/bkwreduce/lwe"
	"github.com/latticeforge/bkwreduce/step"
	"github.com/latticeforge/bkwreduce/syndrome"
)

// The plain-BKW 2-position mapping is a bijection between [0,q)^2 and
// [0,q^2), and the inverse is its round-trip partner.
func TestPlainBKWIsBijection(t *testing.T) {
	var q uint32 = 11
	seen := make(map[uint64]bool)
	for p1 := uint16(0); p1 < uint16(q); p1++ {
		for p2 := uint16(0); p2 < uint16(q); p2++ {
			idx := PlainBKWIndex(q, p1, p2)
			require.Less(t, idx, uint64(q)*uint64(q))
			require.False(t, seen[idx], "index %d produced twice", idx)
			seen[idx] = true

			gotP1, gotP2, err := PlainBKWInverse(q, idx)
			require.NoError(t, err)
			require.Equal(t, p1, gotP1)
			require.Equal(t, p2, gotP2)
		}
	}
	require.Len(t, seen, int(q)*int(q))
}

// Every bucketed LMS tuple must map strictly under num_categories.
func TestLMSIndexWithinBounds(t *testing.T) {
	q := uint32(101)
	p := 25
	numPositions := 3
	params := &step.Params{Sorting: step.LMS, NumPositions: numPositions, P: p}
	inst := &lwe.Instance{Q: q, N: 10}
	numCategories, err := params.NumCategories(inst)
	require.NoError(t, err)
	require.EqualValues(t, 125, numCategories) // c = 101/25+1 = 5, 5^3

	for a := uint16(0); a < 20; a++ {
		for b := uint16(0); b < 20; b++ {
			for c := uint16(0); c < 20; c++ {
				idx, err := LMSIndex(q, p, numPositions, []uint16{a, b, c})
				require.NoError(t, err)
				require.Less(t, idx, numCategories)
			}
		}
	}
}

func TestLMSSingletonsOddC(t *testing.T) {
	// c = 101/25+1 = 5, odd.
	require.Equal(t, []uint64{0}, LMSSingletons(5, 3))
}

func TestLMSSingletonsEvenC(t *testing.T) {
	c := uint64(4)
	singles := LMSSingletons(c, 2)
	require.Len(t, singles, 4)
	seen := make(map[uint64]bool)
	for _, s := range singles {
		require.False(t, seen[s])
		seen[s] = true
	}
}

// A smooth-LMS first step with q=101, p=30, p1=8, two positions and no
// meta-skipped tail has 4*4*13 = 208 categories; every index this package
// computes for that configuration must stay under that bound.
func TestSmoothLMSFirstStepIndexWithinBounds(t *testing.T) {
	q := uint32(101)
	inst := &lwe.Instance{Q: q, N: 10}
	p := &step.Params{
		Sorting:      step.SmoothLMS,
		NumPositions: 2,
		P:            30,
		P1:           8,
		PrevP1:       -1, // first step
		MetaSkipped:  0,
	}
	numCategories, err := p.NumCategories(inst)
	require.NoError(t, err)
	require.EqualValues(t, 208, numCategories)

	for a := uint16(0); a < uint16(q); a += 3 {
		for b := uint16(0); b < uint16(q); b += 7 {
			straddle := (a + b) % uint16(q) // a[startIndex+numPositions], read by step.Params.IndexWindow
			idx, err := SmoothLMSIndex(inst, p, []uint16{a, b, straddle})
			require.NoError(t, err)
			require.Less(t, idx, numCategories)
		}
	}
}

// Middle-step smooth-LMS index with a straddling coordinate. values[0] is
// bucketed under p2 against the previous step's p1 (prev_p1=8), the
// interior position under p against the step's own q' (51), and the
// straddling coordinate values[2] under p1, also against the step's own
// q' — not prev_p1, which only governs the leading p2 slot.
//
// Expected value derived by hand: c=[3,4,13], and the position map gives
// t=[(3+2)/5, (40+9)/30, (13-(31+5)/8) mod 13] = [1,1,9]. Peeling the
// odd-count top slot (t=9, large half): 2*(13-9)-1 = 7 times 3*4, plus 1,
// plus twice the reflected rest [2,2] -> 9, so 84 + 1 + 18 = 103.
func TestSmoothLMSMiddleStepStraddlingCoordinate(t *testing.T) {
	q := uint32(101)
	inst := &lwe.Instance{Q: q, N: 10}
	p := &step.Params{
		Sorting:      step.SmoothLMS,
		StartIndex:   2,
		NumPositions: 2,
		P:            30,
		P1:           8,
		P2:           5,
		PrevP1:       8, // previous step's p1, mid-chain (not -1, so not PhaseFirst)
		MetaSkipped:  0,
	}
	require.Equal(t, step.PhaseMiddle, p.Phase(inst.N))

	idx, err := SmoothLMSIndex(inst, p, []uint16{3, 40, 70})
	require.NoError(t, err)
	require.EqualValues(t, 103, idx)
}

// First-step exact index, exercising the even-count interior slots and
// the odd-count straddling slot together. c=[4,4,13] and the position map
// gives t=[(10+9)/30, 4-1-(41+9)/30, (13-(50+5)/8) mod 13] = [0,2,7].
// Top slot (odd 13, t=7, large half): 2*(13-7)-1 = 11 times 16, plus 1,
// plus twice the reflected rest [3,1] -> 10, so 176 + 1 + 20 = 197.
func TestSmoothLMSFirstStepExactIndex(t *testing.T) {
	q := uint32(101)
	inst := &lwe.Instance{Q: q, N: 10}
	p := &step.Params{
		Sorting:      step.SmoothLMS,
		NumPositions: 2,
		P:            30,
		P1:           8,
		PrevP1:       -1,
		MetaSkipped:  0,
	}

	idx, err := SmoothLMSIndex(inst, p, []uint16{10, 60, 51})
	require.NoError(t, err)
	require.EqualValues(t, 197, idx)
}

// Last-step exact index, exercising an even bucket count in the top
// (peeled-first) slot: no straddling coordinate, c=[3,4], and the
// position map gives t=[(3+2)/5, 4-1-(31+9)/30] = [1,2]. Top slot (even
// 4, t=2, large half): 2*(4-2-1) = 2 times 3, plus 1, plus twice the
// reflected rest [2] -> 2, so 6 + 1 + 4 = 11 (of 12 categories).
func TestSmoothLMSLastStepExactIndex(t *testing.T) {
	q := uint32(101)
	inst := &lwe.Instance{Q: q, N: 10}
	p := &step.Params{
		Sorting:      step.SmoothLMS,
		StartIndex:   8,
		NumPositions: 2,
		P:            30,
		P1:           8,
		P2:           5,
		PrevP1:       8,
		MetaSkipped:  0,
	}
	require.Equal(t, step.PhaseLast, p.Phase(inst.N))

	idx, err := SmoothLMSIndex(inst, p, []uint16{3, 70})
	require.NoError(t, err)
	require.EqualValues(t, 11, idx)
}

func TestSmoothLMSRejectsEvenQ(t *testing.T) {
	inst := &lwe.Instance{Q: 100, N: 10}
	p := &step.Params{Sorting: step.SmoothLMS, NumPositions: 2, P: 30, P1: 8, PrevP1: -1}
	_, err := SmoothLMSIndex(inst, p, []uint16{1, 2})
	require.Error(t, err)
}

func TestInverseOfCategory(t *testing.T) {
	// even c
	require.EqualValues(t, 3, InverseOfCategory(4, 0))
	require.EqualValues(t, 0, InverseOfCategory(4, 3))
	// odd c
	require.EqualValues(t, 0, InverseOfCategory(5, 0))
	require.EqualValues(t, 4, InverseOfCategory(5, 1))
	require.EqualValues(t, 1, InverseOfCategory(5, 4))
}

func TestCodedBKWIndexMatchesFirstCodewordCoordinate(t *testing.T) {
	dir := t.TempDir()
	mgr := syndrome.NewManager(dir)
	require.NoError(t, mgr.Load(101, step.BlockCode21, true, 0))

	inst := &lwe.Instance{Q: 101, N: 10}
	p := &step.Params{Sorting: step.CodedBKW, NumPositions: 2, CT: step.BlockCode21}

	idx, err := PartialIndex(inst, p, []uint16{5, 17}, mgr)
	require.NoError(t, err)

	c1, _, err := mgr.ClosestCodeWord2(5, 17)
	require.NoError(t, err)
	require.EqualValues(t, c1, idx)
}

func TestIndexDispatchesFromSample(t *testing.T) {
	inst := &lwe.Instance{Q: 101, N: 4}
	p := &step.Params{Sorting: step.PlainBKW, NumPositions: 2, StartIndex: 1}
	sample := &lwe.Sample{A: []uint16{9, 7, 3, 0}}

	idx, err := Index(inst, sample, p, nil)
	require.NoError(t, err)
	require.Equal(t, PlainBKWIndex(101, 7, 3), idx)
}
