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

import "os"

// DispatchLevel names the lane width the bulk modular-combine loop in
// SumDiffTable.CombineCoordinates was compiled/detected to prefer. It
// never changes the result, only how many coordinates
// SumDiffTable.CombineCoordinates unrolls per iteration.
type DispatchLevel int

const (
	// DispatchScalar processes one coordinate at a time.
	DispatchScalar DispatchLevel = iota
	// DispatchWide128 processes 8 uint16 coordinates per iteration (128-bit lane width).
	DispatchWide128
	// DispatchWide256 processes 16 uint16 coordinates per iteration (256-bit lane width).
	DispatchWide256
)

var (
	currentLevel DispatchLevel
	currentWidth int // coordinates processed per unrolled iteration
)

func init() {
	if noSIMDEnv() {
		currentLevel = DispatchScalar
		currentWidth = 1
		return
	}
	detectDispatchLevel()
}

// noSIMDEnv is the escape hatch for the width selection: set
// BKW_NO_WIDE_COMBINE=1 to force the portable one-coordinate-at-a-time loop,
// e.g. for reproducing a reference trace coordinate-by-coordinate.
func noSIMDEnv() bool {
	return os.Getenv("BKW_NO_WIDE_COMBINE") != ""
}

// CurrentDispatchLevel reports the lane width selected at process start.
func CurrentDispatchLevel() DispatchLevel {
	return currentLevel
}

func (l DispatchLevel) String() string {
	switch l {
	case DispatchScalar:
		return "scalar"
	case DispatchWide128:
		return "wide128"
	case DispatchWide256:
		return "wide256"
	default:
		return "unknown"
	}
}
