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

package storage

import (
	"fmt"
	"io"
	"os"

	"github.com/latticeforge/bkwreduce/internal/invariant"
	"github.com/latticeforge/bkwreduce/lwe"
)

// SampleStreamReader reads a samples.dat file batch-by-batch instead of
// loading it whole. It is unrelated to the category-pair Reader contract:
// secret reduction rewrites every sample in file order and never needs
// category grouping.
type SampleStreamReader struct {
	f         *os.File
	n         int
	recSize   int
	batch     []byte
	batchSize int // samples per read batch
}

// OpenSampleStream opens path for streamed reading, sizing each read
// batch so it consumes no more than bufferBytes at a time.
func OpenSampleStream(path string, n int, bufferBytes int) (*SampleStreamReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	recSize := lwe.SampleSizeBytes(n)
	batchSize := bufferBytes / recSize
	if batchSize < 1 {
		batchSize = 1
	}
	return &SampleStreamReader{
		f:         f,
		n:         n,
		recSize:   recSize,
		batch:     make([]byte, recSize*batchSize),
		batchSize: batchSize,
	}, nil
}

// Next returns the next batch of samples, or a zero-length slice once the
// file is exhausted. The returned slice is only valid until the next call
// to Next.
func (r *SampleStreamReader) Next() ([]lwe.Sample, error) {
	read, err := io.ReadFull(r.f, r.batch)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("storage: read sample batch: %w", err)
	}
	if read == 0 {
		return nil, nil
	}
	count := read / r.recSize
	samples := make([]lwe.Sample, count)
	for i := 0; i < count; i++ {
		s := decodeSample(r.batch[i*r.recSize:(i+1)*r.recSize], r.n)
		invariant.Check(s.CheckHash(), "storage: sample hash mismatch in streamed batch")
		samples[i] = s
	}
	return samples, nil
}

func (r *SampleStreamReader) Close() error {
	return r.f.Close()
}
