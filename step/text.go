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

package step

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// String renders p as the single-line "<sorting-name> [<field>=<value>, …]"
// descriptor persisted alongside a sorted sample store. Keys are emitted in
// a stable (sorted) order so the format round-trips byte-for-byte through
// String -> Parse -> String.
func (p *Params) String() string {
	fields := map[string]int{
		"startIndex":   p.StartIndex,
		"numPositions": p.NumPositions,
		"selection":    int(p.Selection),
	}
	switch p.Sorting {
	case LMS:
		fields["p"] = p.P
	case SmoothLMS:
		fields["p"] = p.P
		fields["p1"] = p.P1
		fields["p2"] = p.P2
		fields["prev_p1"] = p.PrevP1
		fields["meta_skipped"] = p.MetaSkipped
		fields["unnatural_selection_ts"] = p.UnnaturalSelectionTS
		fields["unnatural_selection_start_index"] = p.UnnaturalSelectionStartIdx
	case CodedBKW:
		fields["b"] = p.B
		fields["ct"] = int(p.CT)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "selection" {
			parts = append(parts, fmt.Sprintf("selection=%s", p.Selection))
			continue
		}
		if k == "ct" {
			parts = append(parts, fmt.Sprintf("ct=%s", p.CT))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%d", k, fields[k]))
	}
	return fmt.Sprintf("%s [%s]", p.Sorting, strings.Join(parts, ", "))
}

// Parse parses a "<sorting-name> [<field>=<value>, …]" descriptor back into
// a Params, rejecting unknown sorting names and out-of-range numPositions
// for the parsed sorting.
func Parse(s string) (*Params, error) {
	name, rest, ok := strings.Cut(s, " ")
	if !ok {
		return nil, fmt.Errorf("step: malformed descriptor %q", s)
	}
	sorting, err := parseSorting(name)
	if err != nil {
		return nil, err
	}
	rest = strings.TrimSpace(rest)
	rest = strings.TrimPrefix(rest, "[")
	rest = strings.TrimSuffix(rest, "]")

	fieldVals := map[string]string{}
	if rest != "" {
		for _, tok := range strings.Split(rest, ",") {
			tok = strings.TrimSpace(tok)
			k, v, ok := strings.Cut(tok, "=")
			if !ok {
				return nil, fmt.Errorf("step: malformed field %q in descriptor %q", tok, s)
			}
			fieldVals[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}

	p := &Params{Sorting: sorting, PrevP1: -1}
	intField := func(key string, dst *int) error {
		v, ok := fieldVals[key]
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("step: field %q has non-integer value %q", key, v)
		}
		*dst = n
		return nil
	}

	if err := intField("startIndex", &p.StartIndex); err != nil {
		return nil, err
	}
	if err := intField("numPositions", &p.NumPositions); err != nil {
		return nil, err
	}
	if v, ok := fieldVals["selection"]; ok {
		switch v {
		case "LF1":
			p.Selection = LF1
		case "LF2":
			p.Selection = LF2
		default:
			return nil, fmt.Errorf("step: unknown selection %q", v)
		}
	}
	if err := intField("p", &p.P); err != nil {
		return nil, err
	}
	if err := intField("p1", &p.P1); err != nil {
		return nil, err
	}
	if err := intField("p2", &p.P2); err != nil {
		return nil, err
	}
	if err := intField("prev_p1", &p.PrevP1); err != nil {
		return nil, err
	}
	if err := intField("meta_skipped", &p.MetaSkipped); err != nil {
		return nil, err
	}
	if err := intField("unnatural_selection_ts", &p.UnnaturalSelectionTS); err != nil {
		return nil, err
	}
	if err := intField("unnatural_selection_start_index", &p.UnnaturalSelectionStartIdx); err != nil {
		return nil, err
	}
	if v, ok := fieldVals["ct"]; ok {
		ct, err := parseCodingType(v)
		if err != nil {
			return nil, err
		}
		p.CT = ct
	}
	if err := intField("b", &p.B); err != nil {
		return nil, err
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func parseCodingType(name string) (CodingType, error) {
	switch name {
	case "blockCode_21":
		return BlockCode21, nil
	case "blockCode_31":
		return BlockCode31, nil
	case "blockCode_41":
		return BlockCode41, nil
	case "concatenatedCode_21_21":
		return ConcatenatedCode21_21, nil
	default:
		return 0, fmt.Errorf("step: unknown coding type %q", name)
	}
}
