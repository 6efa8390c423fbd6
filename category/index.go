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
	"github.com/latticeforge/bkwreduce/syndrome"
)

// Index is the public sample-to-category entry point: it dispatches on
// step.Sorting, reads step.IndexWindow(inst.N) worth of sample
// coordinates, and returns a bucket index. mgr is only consulted for
// CodedBKW; pass nil for every other sorting.
func Index(inst *lwe.Instance, sample *lwe.Sample, p *step.Params, mgr *syndrome.Manager) (uint64, error) {
	start, end := p.IndexWindow(inst.N)
	if end > len(sample.A) {
		return 0, fmt.Errorf("category: step reads positions [%d:%d), sample has %d", start, end, len(sample.A))
	}
	return PartialIndex(inst, p, sample.A[start:end], mgr)
}

// PartialIndex accepts a raw position-value slice instead of a full
// Sample so test harnesses can probe index boundaries directly.
func PartialIndex(inst *lwe.Instance, p *step.Params, values []uint16, mgr *syndrome.Manager) (uint64, error) {
	var idx uint64
	var err error

	switch p.Sorting {
	case step.PlainBKW:
		if len(values) < 2 {
			return 0, fmt.Errorf("category: plainBKW needs at least 2 position values, got %d", len(values))
		}
		idx = PlainBKWIndex(inst.Q, values[0], values[1])

	case step.LMS:
		idx, err = LMSIndex(inst.Q, p.P, p.NumPositions, values)

	case step.SmoothLMS:
		idx, err = SmoothLMSIndex(inst, p, values)

	case step.CodedBKW:
		if mgr == nil {
			return 0, fmt.Errorf("category: codedBKW requires a loaded syndrome manager")
		}
		idx, err = CodedBKWIndex(mgr, inst.Q, p, values)

	default:
		return 0, fmt.Errorf("category: no index mapping for sorting %s", p.Sorting)
	}
	if err != nil {
		return 0, err
	}

	numCategories, ncErr := p.NumCategories(inst)
	if ncErr != nil {
		return 0, ncErr
	}
	if idx >= numCategories {
		return 0, fmt.Errorf("category: invariant violation: index %d >= num_categories %d", idx, numCategories)
	}
	return idx, nil
}

// InverseOfCategory returns the additive-inverse category index the
// reduction pass pairs cells with: for even c, inv(i) = c-i-1; for odd c,
// inv(0) = 0 and inv(i) = c-i for i > 0.
func InverseOfCategory(c, i uint64) uint64 {
	if c%2 == 0 {
		return c - i - 1
	}
	if i == 0 {
		return 0
	}
	return c - i
}
