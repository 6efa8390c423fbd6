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

package syndrome

import (
	"fmt"

	"github.com/latticeforge/bkwreduce/step"
)

// Table is an in-memory nearest-codeword lookup table for one (q,
// codingType) pair: syndrome-encoded index -> minimum-squared-weight error
// vector of length k.
type Table struct {
	Q       uint32
	CT      step.CodingType
	K       int
	Rows    []uint32  // generator row g2..gk
	Entries [][]int16 // len == q^(k-1), each entry len == k
}

// syndromeIndex computes the encoded syndrome index of a received word a
// (len k): s_j = (-g_{j+1}*a_1 + a_{j+1}) mod q for j=1..k-1, encoded
// index = s_1 + q*s_2 + ... + q^(k-2)*s_{k-1}.
func syndromeIndex(q uint32, rows []uint32, a []int32) uint64 {
	idx := uint64(0)
	mult := uint64(1)
	a1 := mod(a[0], q)
	for j, g := range rows {
		s := mod(-int32(g)*a1+a[j+1], q)
		idx += uint64(s) * mult
		mult *= uint64(q)
	}
	return idx
}

func mod(x int32, q uint32) int32 {
	m := x % int32(q)
	if m < 0 {
		m += int32(q)
	}
	return m
}

// foldedMagnitude returns min(x, q-x), folding a residue into [0, q/2]
// before its squared-Euclidean weight is taken.
func foldedMagnitude(x int32, q uint32) int32 {
	x = mod(x, q)
	other := int32(q) - x
	if other < x {
		return other
	}
	return x
}

func squaredWeight(e []int32, q uint32) int64 {
	var total int64
	for _, v := range e {
		m := int64(foldedMagnitude(v, q))
		total += m * m
	}
	return total
}

// NumSyndromes returns q^(k-1), the number of entries a fully populated
// table must have.
func NumSyndromes(q uint32, k int) uint64 {
	n := uint64(1)
	for i := 0; i < k-1; i++ {
		n *= uint64(q)
	}
	return n
}

// decode subtracts the table's stored error vector for a's syndrome from a,
// modulo q, yielding the nearest codeword.
func (t *Table) decode(a []int32) ([]int32, error) {
	if len(a) != t.K {
		return nil, fmt.Errorf("syndrome: decode expects %d components, got %d", t.K, len(a))
	}
	idx := syndromeIndex(t.Q, t.Rows, a)
	if idx >= uint64(len(t.Entries)) {
		return nil, fmt.Errorf("syndrome: table not loaded or corrupt: index %d out of range", idx)
	}
	e := t.Entries[idx]
	codeword := make([]int32, t.K)
	for i := range a {
		codeword[i] = mod(a[i]-int32(e[i]), t.Q)
	}
	return codeword, nil
}
