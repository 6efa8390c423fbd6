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

// Package tablegen turns category.BuildLMSTable's single recursive
// definition into a generated Go source file holding the materialized
// lookup table. Both cmd/gentables (a standalone tool) and
// cmd/bkwreduce's "gentables" verb call this package so the AST-building
// logic lives in one place.
package tablegen

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"os"
	"text/template"

	"github.com/latticeforge/bkwreduce/category"
)

// Request is the input to Generate.
type Request struct {
	Q            uint32
	P            int
	NumPositions int
	Output       string // destination file path
	VarName      string // generated variable name; derived from Q/P/NumPositions if empty
}

const tableTemplate = `// Code generated by cmd/gentables; DO NOT EDIT.

package category

// {{.VarName}} is the materialized LMS category-index table for c={{.C}},
// numPositions={{.NumPositions}} (q={{.Q}}, p={{.P}}), produced by
// category.BuildLMSTable. See BuildLMSTable's doc comment for the
// tuple-to-flat-index convention.
var {{.VarName}} = [...]uint64{
{{range .Rows}}	{{.}},
{{end}}}
`

type tableData struct {
	VarName      string
	Q, P         uint64
	C            uint64
	NumPositions int
	Rows         []uint64
}

// Generate builds the LMS lookup table for req.Q/req.P/req.NumPositions
// and writes it to req.Output as a formatted Go source file. It returns
// the variable name used, so a caller (e.g. the cobra verb) can report it.
func Generate(req Request) (string, error) {
	c := category.LMSBucketCount(req.Q, req.P)
	table := category.BuildLMSTable(c, req.NumPositions)

	name := req.VarName
	if name == "" {
		name = fmt.Sprintf("lmsTableQ%dP%dN%d", req.Q, req.P, req.NumPositions)
	}

	var buf bytes.Buffer
	tmpl := template.Must(template.New("table").Parse(tableTemplate))
	if err := tmpl.Execute(&buf, tableData{
		VarName:      name,
		Q:            uint64(req.Q),
		P:            uint64(req.P),
		C:            c,
		NumPositions: req.NumPositions,
		Rows:         table,
	}); err != nil {
		return "", fmt.Errorf("tablegen: render table template: %w", err)
	}

	// Round-trip through go/parser and print with go/printer: a template
	// typo that produces invalid Go should fail loudly here rather than
	// write a broken file.
	fset := token.NewFileSet()
	var astFile *ast.File
	astFile, err := parser.ParseFile(fset, req.Output, buf.Bytes(), parser.ParseComments)
	if err != nil {
		return "", fmt.Errorf("tablegen: generated source does not parse: %w", err)
	}
	var pretty bytes.Buffer
	cfg := printer.Config{Mode: printer.UseSpaces | printer.TabIndent, Tabwidth: 8}
	if err := cfg.Fprint(&pretty, fset, astFile); err != nil {
		return "", fmt.Errorf("tablegen: format generated source: %w", err)
	}

	if err := os.WriteFile(req.Output, pretty.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("tablegen: write %s: %w", req.Output, err)
	}
	return name, nil
}
