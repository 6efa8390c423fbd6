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

// Package secretreduce implements the secret-reduction pass: given the
// known LSBs of the secret, it rewrites every sample in a store so it is
// valid under the halved secret s' = (s - lsb)/2, and rewrites the secret
// itself the same way.
package secretreduce

import (
	"fmt"

	"github.com/latticeforge/bkwreduce/lwe"
)

// BufferBytes bounds the streaming read buffer at 250 MiB, expressed in
// samples when the stream is opened.
const BufferBytes = 250 << 20

// Stats reports how many samples the pass rewrote.
type Stats struct {
	Transformed uint64
}

// signedLift reinterprets a residue v in [0, q) as a signed magnitude
// centered on zero: values at or below q/2 lift to themselves, values
// above lift to the negative residue they represent. The same convention
// governs the lsb terms folded into <a,lsb> and the symmetric rewrite of
// s[i] above q/2, so both the b' update and the secret rewrite share this
// helper.
func signedLift(v uint16, q uint32) int64 {
	if uint32(v) <= q/2 {
		return int64(v)
	}
	return int64(v) - int64(q)
}

func mod(x int64, q uint32) uint16 {
	m := x % int64(q)
	if m < 0 {
		m += int64(q)
	}
	return uint16(m)
}

// innerProductLSB computes <a, lsb>': each lsb component is lifted to a
// signed value before being multiplied into a[i] and summed, then the
// whole sum is folded back into [0, q).
func innerProductLSB(a, lsb []uint16, q uint32) uint16 {
	var sum int64
	for i, ai := range a {
		sum += int64(ai) * signedLift(lsb[i], q)
	}
	return mod(sum, q)
}

// TransformSample rewrites sample s so it is valid under the halved
// secret: a'[i] = 2*a[i] mod q for every coordinate,
// b' = (b - <a,lsb>') mod q, hash recomputed, error untouched.
func TransformSample(s lwe.Sample, lsb []uint16, q uint32) lwe.Sample {
	a := make([]uint16, len(s.A))
	for i, v := range s.A {
		a[i] = uint16((uint32(v) * 2) % q)
	}
	delta := innerProductLSB(s.A, lsb, q)
	b := mod(int64(s.SumWithError)-int64(delta), q)
	return lwe.Sample{
		A:            a,
		Hash:         lwe.HashCoordinates(a),
		Error:        s.Error,
		SumWithError: b,
	}
}

// TransformSecret rewrites the secret vector the same way every sample's
// a is folded by the reduction: s'[i] = (s[i] - lsb[i]) / 2 for s[i] <=
// q/2, with a symmetric rewrite above the midpoint.
func TransformSecret(s, lsb []uint16, q uint32) ([]uint16, error) {
	if len(s) != len(lsb) {
		return nil, fmt.Errorf("secretreduce: secret has %d coordinates, lsb has %d", len(s), len(lsb))
	}
	out := make([]uint16, len(s))
	for i, si := range s {
		diff := signedLift(si, q) - signedLift(lsb[i], q)
		if diff%2 != 0 {
			return nil, fmt.Errorf("secretreduce: secret coordinate %d (%d) and lsb (%d) disagree in parity", i, si, lsb[i])
		}
		out[i] = mod(diff/2, q)
	}
	return out, nil
}
