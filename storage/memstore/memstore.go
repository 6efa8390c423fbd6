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

// Package memstore is a small in-memory storage.Reader/Writer pair used
// by tests and by reduce.RunFolders. It does not attempt to be a
// real out-of-core sorted storage engine; it exists only so the rest of
// this module can be exercised end to end without a disk-backed external
// sorter.
package memstore

import (
	"fmt"

	"github.com/latticeforge/bkwreduce/category"
	"github.com/latticeforge/bkwreduce/lwe"
	"github.com/latticeforge/bkwreduce/storage"
)

// IndexFunc computes the category index of a sample; callers typically
// supply category.Index (or category.PartialIndex) bound to a fixed
// instance/step/manager.
type IndexFunc func(lwe.Sample) (uint64, error)

// Reader buckets an in-memory slice of samples into categories by
// IndexFunc, then yields (category, additive-inverse category) pairs in
// ascending index order, so a pass over it is reproducible.
type Reader struct {
	numCategories uint64
	categories    [][]lwe.Sample
	visited       []bool
	next          uint64
}

// NewReader buckets samples into numCategories categories using index.
func NewReader(samples []lwe.Sample, numCategories uint64, index IndexFunc) (*Reader, error) {
	cats := make([][]lwe.Sample, numCategories)
	for _, s := range samples {
		idx, err := index(s)
		if err != nil {
			return nil, err
		}
		if idx >= numCategories {
			return nil, fmt.Errorf("memstore: category index %d >= numCategories %d", idx, numCategories)
		}
		cats[idx] = append(cats[idx], s)
	}
	return &Reader{
		numCategories: numCategories,
		categories:    cats,
		visited:       make([]bool, numCategories),
	}, nil
}

// NextAdjacentCategoryPair implements storage.Reader.
func (r *Reader) NextAdjacentCategoryPair() (storage.Pair, error) {
	for r.next < r.numCategories {
		i := r.next
		r.next++
		if r.visited[i] {
			continue
		}
		r.visited[i] = true

		inv := category.InverseOfCategory(r.numCategories, i)
		if inv == i {
			return storage.Pair{B1: r.categories[i], Count: 1}, nil
		}
		if inv < r.numCategories {
			r.visited[inv] = true
		}
		return storage.Pair{B1: r.categories[i], B2: r.categories[inv], Count: 2}, nil
	}
	return storage.Pair{Count: 0}, nil
}

func (r *Reader) Close() error { return nil }

// Writer accumulates written samples into a slice, for tests to inspect.
type Writer struct {
	Samples []lwe.Sample
}

func NewWriter() *Writer { return &Writer{} }

func (w *Writer) Write(s lwe.Sample) error {
	w.Samples = append(w.Samples, s)
	return nil
}

func (w *Writer) Close() (uint64, error) {
	return uint64(len(w.Samples)), nil
}
