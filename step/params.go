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

// Package step implements the tagged BKW step-parameter configuration: the
// sorting strategy and its numeric parameters, num_categories derivation,
// and the text (de)serialization used to persist a chosen plan alongside a
// sorted sample store.
package step

import (
	"fmt"

	"github.com/latticeforge/bkwreduce/lwe"
)

// Sorting names the category-index strategy a step uses.
type Sorting int

const (
	Unordered Sorting = iota
	PlainBKW
	LMS
	SmoothLMS
	CodedBKW
)

func (s Sorting) String() string {
	switch s {
	case Unordered:
		return "unordered"
	case PlainBKW:
		return "plainBKW"
	case LMS:
		return "LMS"
	case SmoothLMS:
		return "smoothLMS"
	case CodedBKW:
		return "codedBKW"
	default:
		return "unknown"
	}
}

func parseSorting(name string) (Sorting, error) {
	switch name {
	case "unordered":
		return Unordered, nil
	case "plainBKW":
		return PlainBKW, nil
	case "LMS":
		return LMS, nil
	case "smoothLMS":
		return SmoothLMS, nil
	case "codedBKW":
		return CodedBKW, nil
	default:
		return Unordered, fmt.Errorf("step: unknown sorting name %q", name)
	}
}

// Selection names the pairwise-combination discipline: LF1 pairs one
// anchor sample against the rest of a cell, LF2 pairs everything.
type Selection int

const (
	LF1 Selection = iota
	LF2
)

func (s Selection) String() string {
	if s == LF2 {
		return "LF2"
	}
	return "LF1"
}

// CodingType enumerates the small fixed set of block codes coded BKW
// supports. This is not a general coding library; generator rows exist
// only for a handful of moduli per code.
type CodingType int

const (
	BlockCode21 CodingType = iota
	BlockCode31
	BlockCode41
	ConcatenatedCode21_21
)

func (c CodingType) String() string {
	switch c {
	case BlockCode21:
		return "blockCode_21"
	case BlockCode31:
		return "blockCode_31"
	case BlockCode41:
		return "blockCode_41"
	case ConcatenatedCode21_21:
		return "concatenatedCode_21_21"
	default:
		return "unknown"
	}
}

// BlockLength returns the code's k (received-word length); num positions
// for a coded-BKW step must match it.
func (c CodingType) BlockLength() (int, error) {
	switch c {
	case BlockCode21:
		return 2, nil
	case BlockCode31:
		return 3, nil
	case BlockCode41:
		return 4, nil
	case ConcatenatedCode21_21:
		return 4, nil
	default:
		return 0, fmt.Errorf("step: unknown coding type %d", c)
	}
}

// Phase names where a smooth-LMS step sits within the overall reduction
// chain. PrevP1 == -1 marks the first step and
// startIndex+numPositions == n marks the last; Params.Phase folds both
// checks into one enumerated answer so call sites never test the sentinel
// directly.
type Phase int

const (
	PhaseFirst Phase = iota
	PhaseMiddle
	PhaseLast
)

// Params is the tagged configuration for one reduction step. Only the
// fields belonging to the active Sorting are meaningful; the rest stay at
// their zero values.
type Params struct {
	Sorting      Sorting
	StartIndex   int
	NumPositions int
	Selection    Selection

	// LMS
	P int // reduction factor

	// SmoothLMS
	P1                         int
	P2                         int
	PrevP1                     int // -1 signals the first step
	MetaSkipped                int
	UnnaturalSelectionTS       int
	UnnaturalSelectionStartIdx int

	// CodedBKW
	B  int // code dimension, always 1 in this core
	CT CodingType
}

// Phase reports whether this smooth-LMS step is the first, last, or a
// middle step. n is the LWE instance dimension, needed to detect the last
// step.
func (p *Params) Phase(n int) Phase {
	if p.PrevP1 == -1 {
		return PhaseFirst
	}
	if p.StartIndex+p.NumPositions == n {
		return PhaseLast
	}
	return PhaseMiddle
}

// IndexWindow returns the sample-coordinate window [start, end) a step's
// category index is read from. For every sorting but smooth LMS this is
// just [StartIndex, StartIndex+NumPositions). A non-last smooth-LMS step
// additionally reads the coordinate just past its own block, the position
// straddling the boundary to the next step, as the most-significant index
// slot, bucketed under P1.
func (p *Params) IndexWindow(n int) (start, end int) {
	start = p.StartIndex
	end = p.StartIndex + p.NumPositions
	if p.Sorting == SmoothLMS && p.Phase(n) != PhaseLast {
		end++
	}
	return start, end
}

// Validate checks the structural constraints on each sorting's payload,
// independent of any particular LWE instance.
func (p *Params) Validate() error {
	switch p.Sorting {
	case PlainBKW:
		if p.NumPositions != 2 && p.NumPositions != 3 {
			return fmt.Errorf("step: plainBKW requires numPositions in {2,3}, got %d", p.NumPositions)
		}
	case LMS:
		if p.NumPositions < 2 || p.NumPositions > 6 {
			return fmt.Errorf("step: LMS requires numPositions in [2,6], got %d", p.NumPositions)
		}
		if p.P <= 0 {
			return fmt.Errorf("step: LMS requires p > 0")
		}
	case SmoothLMS:
		if p.NumPositions < 2 || p.NumPositions > 10 {
			return fmt.Errorf("step: smoothLMS requires numPositions in [2,10], got %d", p.NumPositions)
		}
		if p.P <= 0 {
			return fmt.Errorf("step: smoothLMS requires p > 0")
		}
		if p.P1 <= 0 {
			return fmt.Errorf("step: smoothLMS requires p1 > 0")
		}
	case CodedBKW:
		bl, err := p.CT.BlockLength()
		if err != nil {
			return err
		}
		if p.NumPositions != bl {
			return fmt.Errorf("step: codedBKW(%s) requires numPositions=%d, got %d", p.CT, bl, p.NumPositions)
		}
	case Unordered:
		// no payload constraints
	default:
		return fmt.Errorf("step: unknown sorting %d", p.Sorting)
	}
	return nil
}

// NumCategories returns the number of category indices this step's sorting
// can produce for the given instance; every mapped index is strictly below
// it.
func (p *Params) NumCategories(inst *lwe.Instance) (uint64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	q := uint64(inst.Q)

	switch p.Sorting {
	case PlainBKW:
		return q * q, nil

	case LMS:
		c := q/uint64(p.P) + 1
		return ipow(c, p.NumPositions), nil

	case SmoothLMS:
		if inst.IsEvenQ() {
			return 0, fmt.Errorf("step: smoothLMS is undefined for even q=%d", inst.Q)
		}
		qPrime := ceilDiv(q, 2)
		c := ceilDiv(2*qPrime-1, uint64(p.P))
		c1 := ceilDiv(2*qPrime-1, uint64(p.P1))

		switch p.Phase(inst.N) {
		case PhaseFirst:
			l := p.NumPositions - p.MetaSkipped + 1
			if p.NumPositions < l {
				l = p.NumPositions
			}
			cats := ipow(c, l)
			if p.MetaSkipped == 0 {
				cats *= c1
			}
			return cats, nil

		case PhaseLast:
			if p.P2 <= 0 {
				return 0, fmt.Errorf("step: smoothLMS requires p2 > 0 past the first step")
			}
			prevQPrime := uint64(p.PrevP1)
			c2 := ceilDiv(2*prevQPrime-1, uint64(p.P2))
			return c2 * ipow(c, p.NumPositions-p.MetaSkipped-1), nil

		default: // PhaseMiddle
			if p.P2 <= 0 {
				return 0, fmt.Errorf("step: smoothLMS requires p2 > 0 past the first step")
			}
			l := p.NumPositions - p.MetaSkipped + 1
			if p.NumPositions < l {
				l = p.NumPositions
			}
			// The leading slot of a middle step is bucketed against the
			// previous step's p1 range, so c2 uses that as its q'.
			prevQPrime := uint64(p.PrevP1)
			c2 := ceilDiv(2*prevQPrime-1, uint64(p.P2))
			cats := c2 * ipow(c, l-1)
			if p.MetaSkipped == 0 {
				cats *= c1
			}
			return cats, nil
		}

	case CodedBKW:
		if p.CT == ConcatenatedCode21_21 {
			return q * q, nil
		}
		return q, nil

	default:
		return 0, fmt.Errorf("step: num_categories undefined for sorting %d", p.Sorting)
	}
}

func ipow(base uint64, exp int) uint64 {
	result := uint64(1)
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}

func ceilDiv(a, b uint64) uint64 {
	return (a + b - 1) / b
}
