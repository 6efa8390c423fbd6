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

	"github.com/latticeforge/bkwreduce/reduce"
	"github.com/latticeforge/bkwreduce/step"
	"github.com/latticeforge/bkwreduce/syndrome"
)

func newReduceCmd() *cobra.Command {
	var (
		src, dst   string
		stepText   string
		maxSamples uint64
		tableDir   string
	)

	cmd := &cobra.Command{
		Use:   "reduce",
		Short: "Run one BKW reduction pass between two sample-store folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := step.Parse(stepText)
			if err != nil {
				return fmt.Errorf("parse -step: %w", err)
			}
			mgr := syndrome.NewManager(tableDir)
			code, stats, err := reduce.RunFolders(src, dst, p, maxSamples, mgr)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"exit=%d emitted=%d droppedZero=%d droppedUnnatural=%d terminatedEarly=%v\n",
				code, stats.Emitted, stats.DroppedZero, stats.DroppedUnnatural, stats.TerminatedEarly)
			return nil
		},
	}

	cmd.Flags().StringVar(&src, "src", "", "source sample-store folder (required)")
	cmd.Flags().StringVar(&dst, "dst", "", "destination sample-store folder (required)")
	cmd.Flags().StringVar(&stepText, "step", "", `step descriptor, e.g. "LMS [startIndex=0, numPositions=3, p=25, selection=LF1]" (required)`)
	cmd.Flags().Uint64Var(&maxSamples, "max-samples", 1_000_000, "configured sample cap; the pass stops at ceil(4*cap/3) emitted samples")
	cmd.Flags().StringVar(&tableDir, "table-dir", ".", "directory holding syndrome-decoding-table files for coded BKW")
	cmd.MarkFlagRequired("src")
	cmd.MarkFlagRequired("dst")
	cmd.MarkFlagRequired("step")

	return cmd
}
