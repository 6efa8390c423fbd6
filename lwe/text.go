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
	"fmt"
	"strconv"
	"strings"
)

// String renders the LWE instance as the single-line text format a
// reduction pass persists alongside a sample store: "q=<q> n=<n>
// alpha=<a> s=<s0>,<s1>,...".
func (inst *Instance) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "q=%d n=%d alpha=%g s=", inst.Q, inst.N, inst.Alpha)
	for i, v := range inst.S {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", v)
	}
	return b.String()
}

// ParseInstance parses the text format written by Instance.String.
func ParseInstance(text string) (*Instance, error) {
	inst := &Instance{}
	for _, field := range strings.Fields(strings.TrimSpace(text)) {
		kv := strings.SplitN(field, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("lwe: malformed field %q", field)
		}
		key, val := kv[0], kv[1]
		switch key {
		case "q":
			q, err := strconv.ParseUint(val, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("lwe: bad q: %w", err)
			}
			inst.Q = uint32(q)
		case "n":
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, fmt.Errorf("lwe: bad n: %w", err)
			}
			inst.N = n
		case "alpha":
			a, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return nil, fmt.Errorf("lwe: bad alpha: %w", err)
			}
			inst.Alpha = a
		case "s":
			if val == "" {
				inst.S = nil
				continue
			}
			parts := strings.Split(val, ",")
			s := make([]uint16, len(parts))
			for i, p := range parts {
				v, err := strconv.ParseUint(p, 10, 16)
				if err != nil {
					return nil, fmt.Errorf("lwe: bad secret component %q: %w", p, err)
				}
				s[i] = uint16(v)
			}
			inst.S = s
		default:
			return nil, fmt.Errorf("lwe: unknown field %q", key)
		}
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}
