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

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/latticeforge/bkwreduce/internal/tablegen"
)

func newGenTablesCmd() *cobra.Command {
	var (
		q, numPositions, p int
		output, varName    string
	)

	cmd := &cobra.Command{
		Use:   "gentables",
		Short: "Regenerate a materialized LMS category-index table (see cmd/gentables)",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := tablegen.Generate(tablegen.Request{
				Q:            uint32(q),
				P:            p,
				NumPositions: numPositions,
				Output:       output,
				VarName:      varName,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "generated %s -> %s\n", name, output)
			return nil
		},
	}

	cmd.Flags().IntVar(&q, "q", 101, "LWE modulus")
	cmd.Flags().IntVar(&p, "p", 25, "LMS reduction factor")
	cmd.Flags().IntVar(&numPositions, "numpositions", 3, "number of LMS positions (table dimension)")
	cmd.Flags().StringVar(&output, "output", "", "output Go file (required)")
	cmd.Flags().StringVar(&varName, "varname", "", "generated table variable name (default derived from q/p/numpositions)")
	cmd.MarkFlagRequired("output")

	return cmd
}
