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

	"github.com/latticeforge/bkwreduce/lwe"
	"github.com/latticeforge/bkwreduce/step"
	"github.com/latticeforge/bkwreduce/storage"
)

// Exit codes for a reduction pass.
const (
	ExitSuccess             = 0
	ExitMalformedSampleInfo = 1
	ExitUnexpectedSorting   = 2
	ExitReaderInitFailed    = 3
	ExitSumDiffTableFailed  = 6
	ExitUnsupportedMeta     = 7
	ExitDestinationExists   = 100
)

// Stats reports the pass counters. Zero-column samples and
// unnatural-selection trips are expected rejections; they are counted,
// not errored.
type Stats struct {
	Emitted          uint64
	DroppedZero      uint64
	DroppedUnnatural uint64
	TerminatedEarly  bool
}

// Pass runs one reduction step against an already-open reader and writer:
// for every (category, additive-inverse category) pair, optionally
// sub-sort into a smooth-LMS meta-grid, pairwise-combine under LF1/LF2,
// apply the drop-zero and unnatural-selection filters, and stream
// survivors to writer. maxNumSamples is the configured cap whose
// ceil(4/3) multiple triggers early termination — the pass is expected to
// over-produce relative to what the next stage consumes.
func Pass(inst *lwe.Instance, p *step.Params, reader storage.Reader, writer storage.Writer, maxNumSamples uint64) (int, Stats, error) {
	switch p.Sorting {
	case step.PlainBKW, step.LMS, step.SmoothLMS, step.CodedBKW:
	default:
		return ExitUnexpectedSorting, Stats{}, fmt.Errorf("reduce: unexpected sorting %s", p.Sorting)
	}
	if p.MetaSkipped != 0 && p.MetaSkipped != 1 && p.MetaSkipped != 2 {
		return ExitUnsupportedMeta, Stats{}, fmt.Errorf("reduce: unsupported meta_skipped=%d", p.MetaSkipped)
	}
	useMetaGrid := p.Sorting == step.SmoothLMS && p.MetaSkipped > 0

	sdt, err := lwe.NewSumDiffTable(inst.Q)
	if err != nil {
		return ExitSumDiffTableFailed, Stats{}, err
	}

	cap64 := ceilDiv(4*maxNumSamples, 3)
	var stats Stats

	for {
		pair, err := reader.NextAdjacentCategoryPair()
		if err != nil {
			return ExitReaderInitFailed, stats, err
		}
		if pair.Count == 0 {
			break
		}

		var cellPairs [][2][]lwe.Sample
		if useMetaGrid {
			b1Grid, cLast, cMid, gridErr := buildMetaGrid(inst, p, pair.B1)
			if gridErr != nil {
				return ExitUnsupportedMeta, stats, gridErr
			}
			b2Grid, _, _, gridErr := buildMetaGrid(inst, p, pair.B2)
			if gridErr != nil {
				return ExitUnsupportedMeta, stats, gridErr
			}
			cellPairs = metaGridCellPairs(b1Grid, b2Grid, cLast, cMid, p.MetaSkipped)
		} else {
			cellPairs = [][2][]lwe.Sample{{pair.B1, pair.B2}}
		}

		for _, cp := range cellPairs {
			for _, s := range cp[0] {
				if len(s.A) != inst.N {
					return ExitMalformedSampleInfo, stats, fmt.Errorf("reduce: sample has %d coordinates, instance has n=%d", len(s.A), inst.N)
				}
			}
			combined := combineCellPair(cp[0], cp[1], p.Selection, sdt)

			for _, out := range combined {
				if lwe.IsZero(out.A) {
					stats.DroppedZero++
					continue
				}
				if p.Sorting == step.SmoothLMS && p.UnnaturalSelectionTS > 0 && unnaturalSelectionTrips(out.A, p, inst.Q) {
					stats.DroppedUnnatural++
					continue
				}
				if err := writer.Write(out); err != nil {
					return ExitMalformedSampleInfo, stats, fmt.Errorf("reduce: write survivor: %w", err)
				}
				stats.Emitted++
				if stats.Emitted >= cap64 {
					stats.TerminatedEarly = true
					return ExitSuccess, stats, nil
				}
			}
		}
	}
	return ExitSuccess, stats, nil
}

// unnaturalSelectionTrips reports whether a combined sample should be
// discarded: the filter keeps only outputs whose reduced-window
// coordinates fold to a magnitude strictly below ts, controlling noise
// amplification.
func unnaturalSelectionTrips(a []uint16, p *step.Params, q uint32) bool {
	start := p.StartIndex
	for i := start; i < start+p.NumPositions && i < len(a); i++ {
		if foldedMagnitude(a[i], q) >= uint32(p.UnnaturalSelectionTS) {
			return true
		}
	}
	return false
}

func foldedMagnitude(v uint16, q uint32) uint32 {
	x := uint32(v) % q
	other := q - x
	if other < x {
		return other
	}
	return x
}
