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

	"github.com/latticeforge/bkwreduce/step"
	"github.com/latticeforge/bkwreduce/syndrome"
)

// CodedBKWIndex computes the category index for a coded-BKW step: the
// first coordinate of the nearest codeword to values[0:numPositions].
// Every codeword of a (k,1) code with G=[1 g2 ... gk] is a scalar
// multiple of G, so that leading coordinate alone identifies the
// category. mgr must already have the table for (q, p.CT) loaded; if it
// does not, the decode call's error is returned.
func CodedBKWIndex(mgr *syndrome.Manager, q uint32, p *step.Params, values []uint16) (uint64, error) {
	if len(values) < p.NumPositions {
		return 0, fmt.Errorf("category: codedBKW needs %d position values, got %d", p.NumPositions, len(values))
	}
	a := make([]int32, p.NumPositions)
	for i, v := range values[:p.NumPositions] {
		a[i] = int32(v)
	}

	switch p.CT {
	case step.BlockCode21:
		c1, _, err := mgr.ClosestCodeWord2(a[0], a[1])
		if err != nil {
			return 0, err
		}
		return uint64(c1), nil
	case step.BlockCode31:
		c1, _, _, err := mgr.ClosestCodeWord3(a[0], a[1], a[2])
		if err != nil {
			return 0, err
		}
		return uint64(c1), nil
	case step.BlockCode41:
		c1, _, _, _, err := mgr.ClosestCodeWord4(a[0], a[1], a[2], a[3])
		if err != nil {
			return 0, err
		}
		return uint64(c1), nil
	case step.ConcatenatedCode21_21:
		c1, _, err := mgr.ClosestCodeWord2(a[0], a[1])
		if err != nil {
			return 0, err
		}
		c3, _, err := mgr.ClosestCodeWord2(a[2], a[3])
		if err != nil {
			return 0, err
		}
		return uint64(c1) + uint64(q)*uint64(c3), nil
	default:
		return 0, fmt.Errorf("category: unsupported coding type %s", p.CT)
	}
}
