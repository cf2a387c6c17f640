// Command uncertain evaluates a serialized expression document and
// prints the propagated result.
//
//	uncertain -input ratio.json -trials 1000000 -seed 42
//	cat ratio.json | uncertain -json
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/metrolabs/uncertain"
	"github.com/metrolabs/uncertain/codec"
)

func main() {
	input := flag.String("input", "-", "expression document path, or - for stdin")
	trials := flag.Int("trials", uncertain.DefaultTrials, "Monte Carlo trial count")
	coverage := flag.Float64("coverage", uncertain.DefaultCoverage, "coverage fraction of the reported interval")
	seed := flag.Uint64("seed", uncertain.DefaultSeed, "random seed")
	asJSON := flag.Bool("json", false, "print the full result as JSON")
	flag.Parse()

	if err := run(*input, *trials, *coverage, *seed, *asJSON); err != nil {
		fmt.Fprintf(os.Stderr, "uncertain: %v\n", err)
		os.Exit(1)
	}
}

func run(input string, trials int, coverage float64, seed uint64, asJSON bool) error {
	data, err := read(input)
	if err != nil {
		return err
	}

	doc, err := codec.Parse(data)
	if err != nil {
		return err
	}
	expr, err := doc.Build()
	if err != nil {
		return err
	}

	result, err := uncertain.Evaluate(expr,
		uncertain.WithTrials(trials),
		uncertain.WithCoverage(coverage),
		uncertain.WithSeed(seed),
	)
	if err != nil {
		return err
	}

	if asJSON {
		out, err := codec.Marshal(result)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Println(result)
	if result.InvalidFraction > 0 {
		fmt.Fprintf(os.Stderr, "warning: %.2f%% of trials were invalid\n", 100*result.InvalidFraction)
	}
	return nil
}

func read(input string) ([]byte, error) {
	if input == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(input)
}
