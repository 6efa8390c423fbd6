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
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/latticeforge/bkwreduce/step"
)

// Manager is an explicit table-manager handle: it owns at most one
// resident syndrome table and is released (via Free) at the end of a
// reduction pass. A Manager never holds two distinct (q, ct)
// configurations at once — callers that need both must use two Managers
// or Free between loads.
type Manager struct {
	dir   string
	table *Table
}

// NewManager creates a handle that persists/loads table files under dir.
func NewManager(dir string) *Manager {
	return &Manager{dir: dir}
}

// IsLoaded reports whether this handle currently holds a resident table
// for (q, ct).
func (m *Manager) IsLoaded(q uint32, ct step.CodingType) bool {
	return m.table != nil && m.table.Q == q && m.table.CT == ct
}

// Load makes the (q, ct) table resident. It is idempotent; if a different
// (q, ct) is resident it is freed first; if no on-disk table exists and
// generateIfMissing is set, one is synthesized (and persisted) before
// being mapped into memory; otherwise a missing file is a propagated I/O
// error and the caller decides whether that is fatal.
func (m *Manager) Load(q uint32, ct step.CodingType, generateIfMissing bool, capComponent int) error {
	if m.IsLoaded(q, ct) {
		return nil
	}
	m.Free()

	lookupCT := ct
	if ct == step.ConcatenatedCode21_21 {
		lookupCT = step.BlockCode21
	}

	name, err := fileNameFor(lookupCT, q)
	if err != nil {
		return err
	}
	path := filepath.Join(m.dir, name)

	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("syndrome: open %s: %w", path, err)
		}
		if !generateIfMissing {
			return fmt.Errorf("syndrome: table file %s does not exist and generate_if_missing is false", path)
		}
		table, genErr := Generate(q, lookupCT, capComponent)
		if genErr != nil {
			return fmt.Errorf("syndrome: generate table for q=%d: %w", q, genErr)
		}
		if mkErr := os.MkdirAll(m.dir, 0o755); mkErr != nil {
			return fmt.Errorf("syndrome: create table dir %s: %w", m.dir, mkErr)
		}
		out, createErr := os.Create(path)
		if createErr != nil {
			return fmt.Errorf("syndrome: create %s: %w", path, createErr)
		}
		defer out.Close()
		if saveErr := table.Save(out); saveErr != nil {
			return saveErr
		}
		table.CT = ct
		m.table = table
		return nil
	}
	defer f.Close()

	table, err := Load(f, q, lookupCT)
	if err != nil {
		return err
	}
	table.CT = ct
	m.table = table
	return nil
}

func fileNameFor(ct step.CodingType, q uint32) (string, error) {
	return FileName(ct, q)
}

// Free releases the resident table, if any.
func (m *Manager) Free() {
	m.table = nil
}

func (m *Manager) requireLoaded(k int) error {
	if m.table == nil {
		return fmt.Errorf("syndrome: no table loaded (invariant violation: table-load precondition not met)")
	}
	if m.table.K != k {
		return fmt.Errorf("syndrome: resident table has k=%d, caller expected k=%d", m.table.K, k)
	}
	return nil
}

// ClosestCodeWord2 decodes a 2-component received word using the resident
// [2,1] table.
func (m *Manager) ClosestCodeWord2(a1, a2 int32) (c1, c2 int32, err error) {
	if err := m.requireLoaded(2); err != nil {
		return 0, 0, err
	}
	cw, err := m.table.decode([]int32{a1, a2})
	if err != nil {
		return 0, 0, err
	}
	return cw[0], cw[1], nil
}

// ClosestCodeWord3 decodes a 3-component received word using the resident
// [3,1] table.
func (m *Manager) ClosestCodeWord3(a1, a2, a3 int32) (c1, c2, c3 int32, err error) {
	if err := m.requireLoaded(3); err != nil {
		return 0, 0, 0, err
	}
	cw, err := m.table.decode([]int32{a1, a2, a3})
	if err != nil {
		return 0, 0, 0, err
	}
	return cw[0], cw[1], cw[2], nil
}

// ClosestCodeWord4 decodes a 4-component received word using the resident
// [4,1] table.
func (m *Manager) ClosestCodeWord4(a1, a2, a3, a4 int32) (c1, c2, c3, c4 int32, err error) {
	if err := m.requireLoaded(4); err != nil {
		return 0, 0, 0, 0, err
	}
	cw, err := m.table.decode([]int32{a1, a2, a3, a4})
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return cw[0], cw[1], cw[2], cw[3], nil
}
