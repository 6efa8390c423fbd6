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

// Package category implements the position-tuple-to-category-index
// functions for plain BKW, LMS, smooth LMS, and coded BKW sorting, plus
// singleton detection.
package category

import "fmt"

// PlainBKWIndex computes the closed-form 2-position plain-BKW category
// index. p1 and p2 must be in [0, q). Tuples that reduce against each
// other (sum or difference zeroing both positions) land in adjacent
// indices, so the reduction pass only ever walks pairs of adjacent
// categories.
func PlainBKWIndex(q uint32, p1, p2 uint16) uint64 {
	Q := uint64(q)
	a, b := uint64(p1), uint64(p2)
	half := (Q - 1) / 2

	if a == 0 && b == 0 {
		return 0
	}
	if a == 0 {
		if b <= half {
			return 2*b - 1
		}
		return 2 * (Q - b)
	}
	if a <= half {
		return (2*a-1)*Q + 2*b
	}
	if b == 0 {
		return (2*Q-1-2*a)*Q + 1
	}
	return (2*Q-1-2*a)*Q + 2*(Q-b) + 1
}

// PlainBKWInverse recovers (p1, p2) from a category index produced by
// PlainBKWIndex. It is a diagnostic/test helper, not a hot-path routine,
// so it is implemented as a direct brute-force search over the forward map
// rather than re-deriving the forward formula's band partition by hand —
// the latter is easy to get subtly wrong at the even/odd-q boundary
// between the "small p1" and "large p1" bands, and correctness matters
// more than speed here.
func PlainBKWInverse(q uint32, idx uint64) (p1, p2 uint16, err error) {
	if idx >= uint64(q)*uint64(q) {
		return 0, 0, fmt.Errorf("category: index %d out of range for q=%d", idx, q)
	}
	for a := uint32(0); a < q; a++ {
		for b := uint32(0); b < q; b++ {
			if PlainBKWIndex(q, uint16(a), uint16(b)) == idx {
				return uint16(a), uint16(b), nil
			}
		}
	}
	return 0, 0, fmt.Errorf("category: index %d has no preimage for q=%d (invariant violation)", idx, q)
}
