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

//go:build amd64

package lwe

import "golang.org/x/sys/cpu"

func detectDispatchLevel() {
	switch {
	case cpu.X86.HasAVX2:
		currentLevel = DispatchWide256
		currentWidth = 16
	case cpu.X86.HasSSE2:
		currentLevel = DispatchWide128
		currentWidth = 8
	default:
		currentLevel = DispatchScalar
		currentWidth = 1
	}
}
