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

// Package invariant holds the single fail-fast check used throughout the
// core for programmer-error conditions (index/hash/table integrity) that
// are fatal rather than returned errors.
package invariant

import "fmt"

// Check panics with a formatted message if cond is false. It exists to give
// every fatal invariant violation in the core the same shape, instead of
// scattering ad hoc panic(fmt.Sprintf(...)) calls.
func Check(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
