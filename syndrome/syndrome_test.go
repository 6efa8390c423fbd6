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

package syndrome

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticeforge/bkwreduce/step"
)

func TestIsSupported(t *testing.T) {
	require.True(t, IsSupported(step.BlockCode21, 631))
	require.False(t, IsSupported(step.BlockCode21, 999))
	require.True(t, IsSupported(step.BlockCode41, 53))
	require.False(t, IsSupported(step.BlockCode31, 53))
}

// Codewords decode to themselves: closest_code_word(q, codeword(x)) must
// return codeword(x) unchanged.
func TestClosestCodeWordFixesCodewords(t *testing.T) {
	q := uint32(101)
	table, err := Generate(q, step.BlockCode21, 0)
	require.NoError(t, err)

	rows, err := generatorRowsFor(step.BlockCode21, q)
	require.NoError(t, err)
	g2 := int32(rows[0])

	for x := int32(0); x < int32(q); x++ {
		c1 := x
		c2 := mod(g2*x, q)
		got, err := table.decode([]int32{c1, c2})
		require.NoError(t, err)
		require.Equal(t, []int32{c1, c2}, got)
	}
}

// Decoding an arbitrary received word must land on a codeword, i.e. one
// satisfying -g2*c1 + c2 = 0 mod q.
func TestDecodeYieldsCodeword(t *testing.T) {
	q := uint32(631)
	table, err := Generate(q, step.BlockCode21, 0)
	require.NoError(t, err)

	got, err := table.decode([]int32{5, 365})
	require.NoError(t, err)
	require.EqualValues(t, 0, mod(-73*got[0]+got[1], q))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	q := uint32(101)
	table, err := Generate(q, step.BlockCode21, 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, table.Save(&buf))

	loaded, err := Load(&buf, q, step.BlockCode21)
	require.NoError(t, err)
	require.Equal(t, table.Entries, loaded.Entries)
}

func TestManagerLoadGeneratesWhenMissing(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)
	require.False(t, m.IsLoaded(101, step.BlockCode21))

	err := m.Load(101, step.BlockCode21, true, 0)
	require.NoError(t, err)
	require.True(t, m.IsLoaded(101, step.BlockCode21))

	// Loading again should not error and should be a no-op on an already
	// resident (q, ct).
	require.NoError(t, m.Load(101, step.BlockCode21, true, 0))

	m.Free()
	require.False(t, m.IsLoaded(101, step.BlockCode21))
}

func TestManagerLoadFailsWithoutGenerateIfMissing(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)
	err := m.Load(101, step.BlockCode21, false, 0)
	require.Error(t, err)
}

func TestManagerRejectsUnsupportedModulus(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)
	err := m.Load(999, step.BlockCode21, true, 0)
	require.Error(t, err)
}

func TestClosestCodeWord4(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)
	require.NoError(t, m.Load(53, step.BlockCode41, true, 0))

	rows, err := generatorRowsFor(step.BlockCode41, 53)
	require.NoError(t, err)

	x := int32(7)
	c1 := x
	c2 := mod(int32(rows[0])*x, 53)
	c3 := mod(int32(rows[1])*x, 53)
	c4 := mod(int32(rows[2])*x, 53)

	g1, g2, g3, g4, err := m.ClosestCodeWord4(c1, c2, c3, c4)
	require.NoError(t, err)
	require.Equal(t, []int32{c1, c2, c3, c4}, []int32{g1, g2, g3, g4})
}

// A component cap that cannot reach every syndrome must be reported at
// generation time, not discovered as a hole during decoding: 5 candidate
// values per component reach at most 5^4 syndromes, far short of 53^3.
func TestGenerateRejectsTooSmallComponentCap(t *testing.T) {
	_, err := Generate(53, step.BlockCode41, 2)
	require.Error(t, err)
}
