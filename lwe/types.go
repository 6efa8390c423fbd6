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

// Package lwe holds the data model shared by every other package in this
// module: the LWE instance, the fixed-width sample record, and the
// elementwise modular arithmetic used to combine samples in bulk.
package lwe

import "fmt"

// ErrorUnknown is the sentinel stored in Sample.Error when the true error
// term is not known. It is contagious through Combine: if either parent's
// Error is ErrorUnknown, the result's Error is ErrorUnknown.
const ErrorUnknown int16 = -1

// Instance is the LWE problem instance a reduction pass operates against:
// modulus q, dimension n, noise parameter alpha, and secret s. It is
// immutable within one reduction pass.
type Instance struct {
	Q     uint32
	N     int
	Alpha float64
	S     []uint16 // len(S) == N, each in [0, Q)
}

// Validate checks the struct invariants that every other package assumes
// hold for the lifetime of a pass.
func (inst *Instance) Validate() error {
	if inst.Q == 0 {
		return fmt.Errorf("lwe: modulus q must be positive")
	}
	if inst.N <= 0 {
		return fmt.Errorf("lwe: dimension n must be positive")
	}
	if len(inst.S) != inst.N {
		return fmt.Errorf("lwe: secret length %d does not match n=%d", len(inst.S), inst.N)
	}
	for i, v := range inst.S {
		if uint32(v) >= inst.Q {
			return fmt.Errorf("lwe: secret coordinate %d = %d out of range [0,%d)", i, v, inst.Q)
		}
	}
	return nil
}

// IsEvenQ reports whether the instance modulus is even. Smooth-LMS and the
// [k,1] block codes are only defined for odd q; callers reject even q
// before invoking those code paths.
func (inst *Instance) IsEvenQ() bool {
	return inst.Q%2 == 0
}

// Sample is the fixed-width LWE sample record: a coordinate vector, a hash
// of that vector, a (possibly unknown) error term, and b = <a,s> + e mod q.
//
// The in-memory struct does not share the on-disk byte layout (A is a
// slice header); storage encodes and decodes each field to and from the
// fixed-width little-endian record.
type Sample struct {
	A            []uint16 // len(A) == Instance.N, each in [0, Q)
	Hash         uint64
	Error        int16
	SumWithError uint16
}

// SampleSizeBytes returns LWE_SAMPLE_SIZE_IN_BYTES for a given dimension:
// n * 2 (a, uint16) + 8 (hash, uint64) + 2 (error, int16) + 2 (sumWithError, uint16).
func SampleSizeBytes(n int) int {
	return n*2 + 8 + 2 + 2
}

// NewSample allocates a sample with a freshly computed hash for the given
// coordinate vector. The caller supplies error/sumWithError afterward.
func NewSample(a []uint16, errorTerm int16, sumWithError uint16) Sample {
	cp := make([]uint16, len(a))
	copy(cp, a)
	return Sample{
		A:            cp,
		Hash:         HashCoordinates(cp),
		Error:        errorTerm,
		SumWithError: sumWithError,
	}
}

// CheckHash reports whether s.Hash equals the prescribed hash of s.A.
// Every stored sample must satisfy this; storage readers check it on every
// record they decode.
func (s *Sample) CheckHash() bool {
	return s.Hash == HashCoordinates(s.A)
}

// RecomputeHash refreshes s.Hash from the current s.A. Every mutation of A
// anywhere in this module must be followed by a call to RecomputeHash (or
// go through a helper, such as Combine, that does so internally).
func (s *Sample) RecomputeHash() {
	s.Hash = HashCoordinates(s.A)
}
