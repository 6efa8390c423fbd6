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
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/latticeforge/bkwreduce/internal/invariant"
	"github.com/latticeforge/bkwreduce/lwe"
	"github.com/latticeforge/bkwreduce/step"
)

const (
	instanceFileName = "instance.txt"
	stepFileName     = "step.txt"
	samplesFileName  = "samples.dat"
)

// SamplesFilePath returns the path of the sample record file inside a
// store folder, for callers that read it directly (e.g. a reduction pass
// loading a whole source store at once).
func SamplesFilePath(dir string) string {
	return filepath.Join(dir, samplesFileName)
}

// Exists reports whether dir already holds a sample store, the reduction
// pass's re-entry guard.
func Exists(dir string) bool {
	_, err := os.Stat(dir)
	return err == nil
}

// WriteDescriptor creates dir and writes the LWE instance file and the
// step descriptor alongside it, recording how the store's samples were
// produced.
func WriteDescriptor(dir string, inst *lwe.Instance, p *step.Params) error {
	if Exists(dir) {
		return fmt.Errorf("storage: destination %s already exists", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: create %s: %w", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, instanceFileName), []byte(inst.String()+"\n"), 0o644); err != nil {
		return fmt.Errorf("storage: write instance descriptor: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, stepFileName), []byte(p.String()+"\n"), 0o644); err != nil {
		return fmt.Errorf("storage: write step descriptor: %w", err)
	}
	return nil
}

// ReadDescriptor reads back what WriteDescriptor wrote.
func ReadDescriptor(dir string) (*lwe.Instance, *step.Params, error) {
	instText, err := os.ReadFile(filepath.Join(dir, instanceFileName))
	if err != nil {
		return nil, nil, fmt.Errorf("storage: read instance descriptor: %w", err)
	}
	inst, err := lwe.ParseInstance(string(instText))
	if err != nil {
		return nil, nil, err
	}
	stepText, err := os.ReadFile(filepath.Join(dir, stepFileName))
	if err != nil {
		return nil, nil, fmt.Errorf("storage: read step descriptor: %w", err)
	}
	p, err := step.Parse(string(stepText))
	if err != nil {
		return nil, nil, err
	}
	return inst, p, nil
}

// ReadSampleFile loads every fixed-width sample record from a samples.dat
// file: a concatenation of little-endian records, no header, no framing.
func ReadSampleFile(path string, n int) ([]lwe.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	defer f.Close()

	recSize := lwe.SampleSizeBytes(n)
	buf := make([]byte, recSize)
	var samples []lwe.Sample
	for {
		_, err := io.ReadFull(f, buf)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("storage: read sample record: %w", err)
		}
		s := decodeSample(buf, n)
		invariant.Check(s.CheckHash(), "storage: sample hash mismatch reading %s", path)
		samples = append(samples, s)
	}
	return samples, nil
}

func decodeSample(buf []byte, n int) lwe.Sample {
	a := make([]uint16, n)
	for i := 0; i < n; i++ {
		a[i] = binary.LittleEndian.Uint16(buf[2*i:])
	}
	off := n * 2
	hash := binary.LittleEndian.Uint64(buf[off:])
	errTerm := int16(binary.LittleEndian.Uint16(buf[off+8:]))
	sumWithError := binary.LittleEndian.Uint16(buf[off+10:])
	return lwe.Sample{A: a, Hash: hash, Error: errTerm, SumWithError: sumWithError}
}

func encodeSample(s lwe.Sample, buf []byte) {
	n := len(s.A)
	for i, v := range s.A {
		binary.LittleEndian.PutUint16(buf[2*i:], v)
	}
	off := n * 2
	binary.LittleEndian.PutUint64(buf[off:], s.Hash)
	binary.LittleEndian.PutUint16(buf[off+8:], uint16(s.Error))
	binary.LittleEndian.PutUint16(buf[off+10:], s.SumWithError)
}

// FileWriter is a Writer that appends fixed-width sample records to a
// single samples.dat file inside a destination folder created by
// WriteDescriptor.
type FileWriter struct {
	f       *os.File
	n       int
	buf     []byte
	written uint64
}

// NewFileWriter creates dir/samples.dat, truncating any existing file,
// and returns a writer that appends n-coordinate samples to it.
func NewFileWriter(dir string, n int) (*FileWriter, error) {
	f, err := os.OpenFile(filepath.Join(dir, samplesFileName), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("storage: create sample file: %w", err)
	}
	return &FileWriter{f: f, n: n, buf: make([]byte, lwe.SampleSizeBytes(n))}, nil
}

func (w *FileWriter) Write(s lwe.Sample) error {
	if len(s.A) != w.n {
		return fmt.Errorf("storage: sample has %d coordinates, store expects %d", len(s.A), w.n)
	}
	encodeSample(s, w.buf)
	if _, err := w.f.Write(w.buf); err != nil {
		return fmt.Errorf("storage: write sample record: %w", err)
	}
	w.written++
	return nil
}

func (w *FileWriter) Close() (uint64, error) {
	err := w.f.Close()
	if err != nil {
		return w.written, fmt.Errorf("storage: close sample file: %w", err)
	}
	return w.written, nil
}
