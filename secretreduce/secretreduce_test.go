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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticeforge/bkwreduce/lwe"
	"github.com/latticeforge/bkwreduce/storage"
)

// Applying TransformSample with lsb = (0,...,0) leaves a doubled, b
// unchanged, and the hash consistent with the new a.
func TestTransformSampleZeroLSBDoublesA(t *testing.T) {
	q := uint32(101)
	s := lwe.NewSample([]uint16{10, 50, 99}, 3, 7)
	lsb := []uint16{0, 0, 0}

	out := TransformSample(s, lsb, q)
	require.Equal(t, []uint16{20, 100, uint16(198 % q)}, out.A)
	require.Equal(t, s.SumWithError, out.SumWithError)
	require.Equal(t, s.Error, out.Error)
	require.True(t, out.CheckHash())
}

// Applying TransformSample with lsb matching s mod 2 halves the effective
// secret correctly -- verified by recomputing <a',s'>+e and checking it
// matches the transformed b'.
func TestTransformSampleMatchesHalvedSecret(t *testing.T) {
	q := uint32(101)
	s := []uint16{7, 44, 100} // secret
	lsb := []uint16{1, 0, 1}  // s mod 2 under the signed-residue convention

	sPrime, err := TransformSecret(s, lsb, q)
	require.NoError(t, err)

	const e = int16(2)
	a := []uint16{3, 91, 17}
	b := uint16((uint32(innerProd(a, s, q)) + uint32(e)) % q)
	sample := lwe.NewSample(a, e, b)

	out := TransformSample(sample, lsb, q)
	wantB := uint16((uint32(innerProd(out.A, sPrime, q)) + uint32(e)) % q)
	require.Equal(t, wantB, out.SumWithError)
}

func innerProd(a, s []uint16, q uint32) uint16 {
	var sum uint32
	for i := range a {
		sum += uint32(a[i]) * uint32(s[i])
	}
	return uint16(sum % q)
}

func TestTransformSecretRejectsParityMismatch(t *testing.T) {
	_, err := TransformSecret([]uint16{7}, []uint16{0}, 101)
	require.Error(t, err)
}

func TestTransformSecretRejectsLengthMismatch(t *testing.T) {
	_, err := TransformSecret([]uint16{7, 8}, []uint16{1}, 101)
	require.Error(t, err)
}

func TestRunFoldersStreamsEveryRecord(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "src")
	dstDir := filepath.Join(dir, "dst")

	q := uint32(101)
	s := []uint16{7, 44}
	inst := &lwe.Instance{Q: q, N: 2, Alpha: 0.01, S: s}
	require.NoError(t, storage.WriteDescriptor(srcDir, inst, unorderedStep()))

	writer, err := storage.NewFileWriter(srcDir, inst.N)
	require.NoError(t, err)
	for i := uint16(0); i < 25; i++ {
		require.NoError(t, writer.Write(lwe.NewSample([]uint16{i, i + 1}, 0, i*2)))
	}
	_, err = writer.Close()
	require.NoError(t, err)

	lsb := []uint16{1, 0}
	stats, err := RunFolders(srcDir, dstDir, lsb)
	require.NoError(t, err)
	require.Equal(t, uint64(25), stats.Transformed)

	gotInst, _, err := storage.ReadDescriptor(dstDir)
	require.NoError(t, err)
	wantSecret, err := TransformSecret(s, lsb, q)
	require.NoError(t, err)
	require.Equal(t, wantSecret, gotInst.S)

	samples, err := storage.ReadSampleFile(storage.SamplesFilePath(dstDir), inst.N)
	require.NoError(t, err)
	require.Len(t, samples, 25)
	for _, sample := range samples {
		require.True(t, sample.CheckHash())
	}
}

func TestRunFoldersSkipsExistingDestination(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "src")
	dstDir := filepath.Join(dir, "dst")

	inst := &lwe.Instance{Q: 101, N: 1, S: []uint16{2}}
	require.NoError(t, storage.WriteDescriptor(srcDir, inst, unorderedStep()))
	w, err := storage.NewFileWriter(srcDir, 1)
	require.NoError(t, err)
	_, err = w.Close()
	require.NoError(t, err)
	require.NoError(t, storage.WriteDescriptor(dstDir, inst, unorderedStep()))

	stats, err := RunFolders(srcDir, dstDir, []uint16{0})
	require.NoError(t, err)
	require.Equal(t, uint64(0), stats.Transformed)
}
