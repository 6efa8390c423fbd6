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

package step

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticeforge/bkwreduce/lwe"
)

func instanceQ(q uint32, n int) *lwe.Instance {
	s := make([]uint16, n)
	return &lwe.Instance{Q: q, N: n, S: s}
}

func TestNumCategoriesPlainBKW(t *testing.T) {
	p := &Params{Sorting: PlainBKW, NumPositions: 2}
	n, err := p.NumCategories(instanceQ(17, 10))
	require.NoError(t, err)
	require.Equal(t, uint64(17*17), n)

	p3 := &Params{Sorting: PlainBKW, NumPositions: 3}
	n3, err := p3.NumCategories(instanceQ(17, 10))
	require.NoError(t, err)
	require.Equal(t, uint64(17*17), n3)
}

func TestNumCategoriesLMS(t *testing.T) {
	// q=101, p=25, numPositions=3 -> c=5, categories=125
	p := &Params{Sorting: LMS, NumPositions: 3, P: 25}
	n, err := p.NumCategories(instanceQ(101, 10))
	require.NoError(t, err)
	require.Equal(t, uint64(125), n)
}

func TestNumCategoriesSmoothLMSFirstStep(t *testing.T) {
	// q=101, p=30, p1=8, numPositions=2, meta_skipped=0, prev_p1=-1:
	// c = ceil(101/30) = 4, c1 = ceil(101/8) = 13, categories = 4*4*13.
	p := &Params{
		Sorting:      SmoothLMS,
		NumPositions: 2,
		P:            30,
		P1:           8,
		PrevP1:       -1,
		MetaSkipped:  0,
	}
	n, err := p.NumCategories(instanceQ(101, 10))
	require.NoError(t, err)
	require.Equal(t, uint64(208), n)
}

// Middle and last steps bucket their leading slot against the previous
// step's p1 range, so c2 = ceil((2*prev_p1-1)/p2) in both branches. With
// q=101, p=30 (c=4), p1=8 (c1=13), p2=5 and prev_p1=8, c2 = ceil(15/5) = 3.
func TestNumCategoriesSmoothLMSMiddleAndLastSteps(t *testing.T) {
	inst := instanceQ(101, 10)

	cases := []struct {
		startIndex  int
		metaSkipped int
		want        uint64
	}{
		// middle steps (startIndex+numPositions < n)
		{4, 0, 156}, // c2 * c * c1 = 3*4*13
		{4, 1, 12},  // c2 * c = 3*4, c1 dropped with the straddling slot
		{4, 2, 3},   // c2 alone
		// last steps (startIndex+numPositions == n)
		{8, 0, 12}, // c2 * c^(numPositions-1) = 3*4
		{8, 1, 3},  // c2 * c^0
	}
	for _, tc := range cases {
		p := &Params{
			Sorting:      SmoothLMS,
			StartIndex:   tc.startIndex,
			NumPositions: 2,
			P:            30,
			P1:           8,
			P2:           5,
			PrevP1:       8,
			MetaSkipped:  tc.metaSkipped,
		}
		n, err := p.NumCategories(inst)
		require.NoError(t, err)
		require.Equal(t, tc.want, n, "startIndex=%d meta_skipped=%d", tc.startIndex, tc.metaSkipped)
	}
}

func TestNumCategoriesSmoothLMSRejectsEvenQ(t *testing.T) {
	p := &Params{Sorting: SmoothLMS, NumPositions: 2, P: 30, P1: 8, PrevP1: -1}
	_, err := p.NumCategories(instanceQ(100, 10))
	require.Error(t, err)
}

func TestNumCategoriesCodedBKW(t *testing.T) {
	p21 := &Params{Sorting: CodedBKW, NumPositions: 2, CT: BlockCode21}
	n21, err := p21.NumCategories(instanceQ(631, 10))
	require.NoError(t, err)
	require.Equal(t, uint64(631), n21)

	pconcat := &Params{Sorting: CodedBKW, NumPositions: 4, CT: ConcatenatedCode21_21}
	nconcat, err := pconcat.NumCategories(instanceQ(631, 10))
	require.NoError(t, err)
	require.Equal(t, uint64(631*631), nconcat)
}

func TestValidateRejectsOutOfRangeNumPositions(t *testing.T) {
	p := &Params{Sorting: LMS, NumPositions: 7, P: 3}
	require.Error(t, p.Validate())

	p2 := &Params{Sorting: PlainBKW, NumPositions: 4}
	require.Error(t, p2.Validate())

	p3 := &Params{Sorting: CodedBKW, NumPositions: 2, CT: BlockCode31}
	require.Error(t, p3.Validate())
}

func TestPhaseDetection(t *testing.T) {
	first := &Params{PrevP1: -1}
	require.Equal(t, PhaseFirst, first.Phase(20))

	last := &Params{PrevP1: 5, StartIndex: 18, NumPositions: 2}
	require.Equal(t, PhaseLast, last.Phase(20))

	middle := &Params{PrevP1: 5, StartIndex: 4, NumPositions: 2}
	require.Equal(t, PhaseMiddle, middle.Phase(20))
}

func TestTextRoundTrip(t *testing.T) {
	cases := []*Params{
		{Sorting: PlainBKW, StartIndex: 0, NumPositions: 2, Selection: LF1, PrevP1: -1},
		{Sorting: LMS, StartIndex: 4, NumPositions: 3, Selection: LF2, P: 25, PrevP1: -1},
		{
			Sorting: SmoothLMS, StartIndex: 0, NumPositions: 2, Selection: LF1,
			P: 30, P1: 8, P2: 0, PrevP1: -1, MetaSkipped: 0,
			UnnaturalSelectionTS: 5, UnnaturalSelectionStartIdx: 0,
		},
		{Sorting: CodedBKW, StartIndex: 0, NumPositions: 4, Selection: LF1, B: 1, CT: ConcatenatedCode21_21, PrevP1: -1},
	}
	for _, p := range cases {
		text := p.String()
		parsed, err := Parse(text)
		require.NoError(t, err, text)
		require.Equal(t, text, parsed.String())
	}
}

func TestParseRejectsUnknownSorting(t *testing.T) {
	_, err := Parse("bogusSorting [startIndex=0, numPositions=2]")
	require.Error(t, err)
}

func TestParseRejectsOutOfRangeNumPositions(t *testing.T) {
	_, err := Parse("LMS [startIndex=0, numPositions=7, p=3, selection=LF1]")
	require.Error(t, err)
}
