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

package lwe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInstanceValidate(t *testing.T) {
	good := Instance{Q: 101, N: 3, Alpha: 0.01, S: []uint16{1, 2, 3}}
	require.NoError(t, good.Validate())

	badLen := Instance{Q: 101, N: 3, S: []uint16{1, 2}}
	require.Error(t, badLen.Validate())

	outOfRange := Instance{Q: 101, N: 1, S: []uint16{200}}
	require.Error(t, outOfRange.Validate())
}

func TestInstanceIsEvenQ(t *testing.T) {
	require.True(t, (&Instance{Q: 100}).IsEvenQ())
	require.False(t, (&Instance{Q: 101}).IsEvenQ())
}

func TestSampleSizeBytes(t *testing.T) {
	// n*2 (a) + 8 (hash) + 2 (error) + 2 (sumWithError)
	require.Equal(t, 16, SampleSizeBytes(2))
}
