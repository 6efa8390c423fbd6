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

	"github.com/latticeforge/bkwreduce/category"
	"github.com/latticeforge/bkwreduce/lwe"
	"github.com/latticeforge/bkwreduce/step"
	"github.com/latticeforge/bkwreduce/storage"
	"github.com/latticeforge/bkwreduce/storage/memstore"
	"github.com/latticeforge/bkwreduce/syndrome"
)

// RunFolders drives a whole reduction pass between two sample-store
// folders, using the in-memory reference storage.Reader/Writer since the
// real out-of-core sorted store lives outside this module. p is the step
// this pass performs; the source store must have been sorted under the
// same sorting (its persisted descriptor is checked). The destination is
// written as an unordered store — reduced samples need a fresh sorting
// pass before the next step can consume them.
func RunFolders(srcDir, dstDir string, p *step.Params, maxNumSamples uint64, mgr *syndrome.Manager) (int, Stats, error) {
	if storage.Exists(dstDir) {
		return ExitDestinationExists, Stats{}, nil
	}

	inst, sourceStep, err := storage.ReadDescriptor(srcDir)
	if err != nil {
		return ExitReaderInitFailed, Stats{}, err
	}
	if sourceStep.Sorting != p.Sorting {
		return ExitUnexpectedSorting, Stats{}, fmt.Errorf("reduce: source store was sorted with %s, pass expects %s", sourceStep.Sorting, p.Sorting)
	}

	samples, err := storage.ReadSampleFile(storage.SamplesFilePath(srcDir), inst.N)
	if err != nil {
		return ExitReaderInitFailed, Stats{}, err
	}
	if len(samples) == 0 {
		return ExitUnexpectedSorting, Stats{}, fmt.Errorf("reduce: source store %s has no samples", srcDir)
	}

	numCategories, err := p.NumCategories(inst)
	if err != nil {
		return ExitReaderInitFailed, Stats{}, err
	}

	index := func(s lwe.Sample) (uint64, error) {
		start, end := p.IndexWindow(inst.N)
		return category.PartialIndex(inst, p, s.A[start:end], mgr)
	}
	reader, err := memstore.NewReader(samples, numCategories, index)
	if err != nil {
		return ExitReaderInitFailed, Stats{}, err
	}
	defer reader.Close()

	if err := storage.WriteDescriptor(dstDir, inst, &step.Params{Sorting: step.Unordered, PrevP1: -1}); err != nil {
		return ExitReaderInitFailed, Stats{}, err
	}
	writer, err := storage.NewFileWriter(dstDir, inst.N)
	if err != nil {
		return ExitReaderInitFailed, Stats{}, err
	}

	code, stats, runErr := Pass(inst, p, reader, writer, maxNumSamples)
	if _, closeErr := writer.Close(); closeErr != nil && runErr == nil {
		runErr = closeErr
	}
	return code, stats, runErr
}
