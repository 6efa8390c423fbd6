// Command gentables regenerates the materialized LMS category-index
// lookup tables from the single recursive definition in package category
// (category.BuildLMSTable). An unrolled lookup table is an optimization
// of that recursion, not a separate semantics, so it is produced by a
// tool instead of by hand.
//
// Usage:
//
//	gentables -q 101 -p 25 -numpositions 3 -output category/lms_table_gen.go
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/latticeforge/bkwreduce/internal/tablegen"
)

var (
	q            = flag.Uint("q", 101, "LWE modulus")
	p            = flag.Int("p", 25, "LMS reduction factor")
	numPositions = flag.Int("numpositions", 3, "number of LMS positions (table dimension)")
	output       = flag.String("output", "", "output Go file (required)")
	varName      = flag.String("varname", "", "generated table variable name (default derived from q/p/numpositions)")
)

func main() {
	flag.Parse()
	if *output == "" {
		fmt.Fprintf(os.Stderr, "Error: -output flag is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	name, err := tablegen.Generate(tablegen.Request{
		Q:            uint32(*q),
		P:            *p,
		NumPositions: *numPositions,
		Output:       *output,
		VarName:      *varName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully generated %s (q=%d p=%d numPositions=%d) -> %s\n", name, *q, *p, *numPositions, *output)
}
