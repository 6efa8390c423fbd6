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

package secretreduce

import (
	"fmt"

	"github.com/latticeforge/bkwreduce/lwe"
	"github.com/latticeforge/bkwreduce/step"
	"github.com/latticeforge/bkwreduce/storage"
)

func unorderedStep() *step.Params {
	return &step.Params{Sorting: step.Unordered}
}

// Run streams every sample in src through TransformSample and appends the
// result to dst. It does not touch the secret; callers combine it with
// TransformSecret to produce the new lwe.Instance to persist.
func Run(src *storage.SampleStreamReader, dst storage.Writer, lsb []uint16, q uint32) (Stats, error) {
	var stats Stats
	for {
		batch, err := src.Next()
		if err != nil {
			return stats, fmt.Errorf("secretreduce: read batch: %w", err)
		}
		if len(batch) == 0 {
			return stats, nil
		}
		for _, s := range batch {
			out := TransformSample(s, lsb, q)
			if err := dst.Write(out); err != nil {
				return stats, fmt.Errorf("secretreduce: write sample: %w", err)
			}
			stats.Transformed++
		}
	}
}

// RunFolders drives a whole secret-reduction pass between two
// sample-store folders. The pass is non-retryable: if it aborts mid-file
// the destination folder must be removed before re-running, so (like the
// reduction pass) an existing destination is treated as already-done
// rather than overwritten.
func RunFolders(srcDir, dstDir string, lsb []uint16) (Stats, error) {
	if storage.Exists(dstDir) {
		return Stats{}, nil
	}

	inst, _, err := storage.ReadDescriptor(srcDir)
	if err != nil {
		return Stats{}, err
	}
	if len(lsb) != inst.N {
		return Stats{}, fmt.Errorf("secretreduce: lsb has %d coordinates, instance has n=%d", len(lsb), inst.N)
	}

	newSecret, err := TransformSecret(inst.S, lsb, inst.Q)
	if err != nil {
		return Stats{}, err
	}
	newInst := &lwe.Instance{Q: inst.Q, N: inst.N, Alpha: inst.Alpha, S: newSecret}

	reader, err := storage.OpenSampleStream(storage.SamplesFilePath(srcDir), inst.N, BufferBytes)
	if err != nil {
		return Stats{}, err
	}
	defer reader.Close()

	// The destination carries no sorting step of its own: secret reduction
	// is not a category sort, so the descriptor's step is left unordered.
	if err := storage.WriteDescriptor(dstDir, newInst, unorderedStep()); err != nil {
		return Stats{}, err
	}
	writer, err := storage.NewFileWriter(dstDir, inst.N)
	if err != nil {
		return Stats{}, err
	}

	stats, runErr := Run(reader, writer, lsb, inst.Q)
	if _, closeErr := writer.Close(); closeErr != nil && runErr == nil {
		runErr = closeErr
	}
	return stats, runErr
}
