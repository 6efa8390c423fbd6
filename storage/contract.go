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

// Package storage specifies the store contract the reduction pass
// consumes: a sorted-sample reader that yields adjacent (category,
// additive-inverse category) pairs, and a writer that appends surviving
// samples to a destination store. The full out-of-core sorting engine
// lives elsewhere; this package fixes the interface, the on-disk record
// format, and a small in-memory reference implementation under
// storage/memstore used by tests.
package storage

import "github.com/latticeforge/bkwreduce/lwe"

// Pair is one (category, additive-inverse category) delivery from a
// Reader. Count reports the shape of the delivery: 0 means the stream is
// exhausted, 1 means B1 alone (a category that is its own additive
// inverse), 2 means B1 is delivered together with its additive-inverse
// category B2. Either buffer may be empty when its category holds no
// samples.
type Pair struct {
	B1, B2 []lwe.Sample
	Count  int
}

// Reader yields the sorted store's category pairs in ascending index
// order, each paired with its additive-inverse partner when one exists.
type Reader interface {
	// NextAdjacentCategoryPair returns the next category pair, or a Pair
	// with Count == 0 once the stream is exhausted.
	NextAdjacentCategoryPair() (Pair, error)
	Close() error
}

// Writer is the record writer a reduction pass appends survivors to.
type Writer interface {
	Write(s lwe.Sample) error
	// Close finalizes the destination store and reports how many samples
	// were stored in total.
	Close() (numStored uint64, err error)
}
