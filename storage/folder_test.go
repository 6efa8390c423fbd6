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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticeforge/bkwreduce/lwe"
	"github.com/latticeforge/bkwreduce/step"
)

func TestWriteReadDescriptorRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	inst := &lwe.Instance{Q: 101, N: 3, Alpha: 0.01, S: []uint16{1, 2, 3}}
	p := &step.Params{Sorting: step.PlainBKW, NumPositions: 2}

	require.NoError(t, WriteDescriptor(dir, inst, p))
	require.True(t, Exists(dir))

	gotInst, gotStep, err := ReadDescriptor(dir)
	require.NoError(t, err)
	require.Equal(t, inst.Q, gotInst.Q)
	require.Equal(t, inst.N, gotInst.N)
	require.Equal(t, inst.S, gotInst.S)
	require.Equal(t, p.Sorting, gotStep.Sorting)
}

func TestWriteDescriptorRejectsExistingDestination(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	inst := &lwe.Instance{Q: 101, N: 1, S: []uint16{0}}
	p := &step.Params{Sorting: step.PlainBKW, NumPositions: 2}
	require.NoError(t, WriteDescriptor(dir, inst, p))
	require.Error(t, WriteDescriptor(dir, inst, p))
}

func TestFileWriterAndReadSampleFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w, err := NewFileWriter(dir, 3)
	require.NoError(t, err)

	s1 := lwe.NewSample([]uint16{1, 2, 3}, 0, 5)
	s2 := lwe.NewSample([]uint16{4, 5, 6}, lwe.ErrorUnknown, 9)
	require.NoError(t, w.Write(s1))
	require.NoError(t, w.Write(s2))
	n, err := w.Close()
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	got, err := ReadSampleFile(filepath.Join(dir, samplesFileName), 3)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, s1.A, got[0].A)
	require.Equal(t, s1.Hash, got[0].Hash)
	require.Equal(t, s2.Error, got[1].Error)
	require.Equal(t, s2.SumWithError, got[1].SumWithError)
}
