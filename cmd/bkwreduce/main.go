// Command bkwreduce is the multi-verb CLI driver around this module's
// core: a reduce verb driving reduce.RunFolders, a reduce-secret verb
// driving secretreduce.RunFolders, and a gentables verb driving
// internal/tablegen.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bkwreduce",
		Short: "Drive a BKW sample-reduction pass over file-backed sample stores",
	}
	root.AddCommand(newReduceCmd())
	root.AddCommand(newReduceSecretCmd())
	root.AddCommand(newGenTablesCmd())
	return root
}
