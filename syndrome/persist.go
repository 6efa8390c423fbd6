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
	"encoding/binary"
	"fmt"
	"io"

	"github.com/latticeforge/bkwreduce/step"
)

// FileName returns the on-disk table name,
// syndrome_decoding_table_<bl><ml>_<q>.dat, where bl is the block length
// (k) and ml is the message dimension (always 1 here).
func FileName(ct step.CodingType, q uint32) (string, error) {
	bl, err := ct.BlockLength()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("syndrome_decoding_table_%d1_%d.dat", bl, q), nil
}

// Save writes t as packed little-endian int16 records: exactly
// NumSyndromes(q,k) records of k components each, no header.
func (t *Table) Save(w io.Writer) error {
	buf := make([]byte, 2*t.K)
	for _, entry := range t.Entries {
		if len(entry) != t.K {
			return fmt.Errorf("syndrome: entry has %d components, want %d", len(entry), t.K)
		}
		for i, v := range entry {
			binary.LittleEndian.PutUint16(buf[2*i:], uint16(v))
		}
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("syndrome: write table: %w", err)
		}
	}
	return nil
}

// Load reads a table previously written by Save for the given (q, ct).
func Load(r io.Reader, q uint32, ct step.CodingType) (*Table, error) {
	rows, err := generatorRowsFor(ct, q)
	if err != nil {
		return nil, err
	}
	k := len(rows) + 1
	numSyndromes := NumSyndromes(q, k)

	entries := make([][]int16, numSyndromes)
	buf := make([]byte, 2*k)
	for i := uint64(0); i < numSyndromes; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("syndrome: read table entry %d: %w", i, err)
		}
		entry := make([]int16, k)
		for j := 0; j < k; j++ {
			entry[j] = int16(binary.LittleEndian.Uint16(buf[2*j:]))
		}
		entries[i] = entry
	}
	return &Table{Q: q, CT: ct, K: k, Rows: rows, Entries: entries}, nil
}
