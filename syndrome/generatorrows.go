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

// Package syndrome implements the generation, on-disk persistence, and
// in-memory cache of nearest-codeword lookup tables for the supported
// [k,1] block codes.
package syndrome

import (
	"fmt"

	"github.com/latticeforge/bkwreduce/step"
)

// generatorRow is one hard-selected generator G=[1, g2, ...] for a
// (q, codingType) pair. Keeping them in one table keeps the per-modulus
// constants out of the decode paths.
type generatorRow struct {
	q    uint32
	rows []uint32 // g2, g3, ... (len = k-1)
}

// generatorTable is keyed by codingType, then by q.
var generatorTable = map[step.CodingType][]generatorRow{
	step.BlockCode21: {
		{q: 101, rows: []uint32{30}},
		{q: 631, rows: []uint32{73}},
		{q: 1601, rows: []uint32{335}},
		{q: 2053, rows: []uint32{175}},
		{q: 16411, rows: []uint32{2584}},
	},
	step.BlockCode31: {
		{q: 101, rows: []uint32{35, 13}},
		{q: 631, rows: []uint32{205, 303}},
		{q: 1601, rows: []uint32{8, 118}},
		{q: 2053, rows: []uint32{14, 443}},
		{q: 16411, rows: []uint32{3872, 7445}},
	},
	step.BlockCode41: {
		{q: 53, rows: []uint32{20, 6, 44}},
		{q: 101, rows: []uint32{69, 7, 91}},
		{q: 631, rows: []uint32{126, 9, 332}},
		{q: 2053, rows: []uint32{123, 456, 789}},
	},
}

// generatorRowsFor returns g2..gk for (ct, q), or an error if the modulus
// is not among the hard-selected supported set.
//
// concatenatedCode_21_21 has no rows of its own; it reuses blockCode_21's
// and composes two decodes.
func generatorRowsFor(ct step.CodingType, q uint32) ([]uint32, error) {
	lookup := ct
	if ct == step.ConcatenatedCode21_21 {
		lookup = step.BlockCode21
	}
	rows, ok := generatorTable[lookup]
	if !ok {
		return nil, fmt.Errorf("syndrome: unsupported coding type %s", ct)
	}
	for _, r := range rows {
		if r.q == q {
			return r.rows, nil
		}
	}
	return nil, fmt.Errorf("syndrome: modulus q=%d is not supported for %s", q, ct)
}

// IsSupported reports whether (q, ct) has a hard-selected generator row,
// i.e. whether syndrome.Load(q, ct, ...) can possibly succeed.
func IsSupported(ct step.CodingType, q uint32) bool {
	_, err := generatorRowsFor(ct, q)
	return err == nil
}
