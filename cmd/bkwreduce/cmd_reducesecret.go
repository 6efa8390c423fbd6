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
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/latticeforge/bkwreduce/secretreduce"
)

func newReduceSecretCmd() *cobra.Command {
	var (
		src, dst string
		lsbText  string
	)

	cmd := &cobra.Command{
		Use:   "reduce-secret",
		Short: "Run the secret-reduction pass, halving the secret given its known LSBs",
		RunE: func(cmd *cobra.Command, args []string) error {
			lsb, err := parseLSB(lsbText)
			if err != nil {
				return fmt.Errorf("parse -lsb: %w", err)
			}
			stats, err := secretreduce.RunFolders(src, dst, lsb)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "transformed=%d\n", stats.Transformed)
			return nil
		},
	}

	cmd.Flags().StringVar(&src, "src", "", "source sample-store folder (required)")
	cmd.Flags().StringVar(&dst, "dst", "", "destination sample-store folder (required)")
	cmd.Flags().StringVar(&lsbText, "lsb", "", "comma-separated LSB residues, one per secret coordinate (required)")
	cmd.MarkFlagRequired("src")
	cmd.MarkFlagRequired("dst")
	cmd.MarkFlagRequired("lsb")

	return cmd
}

func parseLSB(text string) ([]uint16, error) {
	parts := strings.Split(text, ",")
	out := make([]uint16, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 16)
		if err != nil {
			return nil, fmt.Errorf("component %d (%q): %w", i, p, err)
		}
		out[i] = uint16(v)
	}
	return out, nil
}
