package run

import (
	"context"
	"fmt"
	"os"

	"github.com/broady/sigprop/internal/discover"
	"github.com/broady/sigprop/internal/harness"
)

type Cmd struct {
	Package       string   `arg:"" optional:"" help:"Package to check (default: current directory)." default:"."`
	Only          []string `help:"Qualified names of callables to check (default: all)." short:"o"`
	Examples      int      `help:"Examples drawn per callable." short:"n" default:"100"`
	Seed          uint64   `help:"Seed for reproducing a run (default: random)."`
	MaxLen        int      `help:"Largest generated container." default:"16" name:"max-len"`
	RepeatIsCycle bool     `help:"Report declared types repeated within one annotation or across parameters as cycles." name:"repeat-is-cycle"`
	Deep          bool     `help:"Validate product fields and domain elements in oracles."`
	Verbose       bool     `help:"Show every property." short:"v"`
}

func (c *Cmd) Run() error {
	// Discover callables in the package
	result, err := discover.Find(c.Package)
	if err != nil {
		return fmt.Errorf("discover: %w", err)
	}

	callables, err := discover.Select(result.Callables, c.Only)
	if err != nil {
		return err
	}

	for _, d := range result.Skipped {
		if d.Reason != "" {
			fmt.Fprintf(os.Stderr, "skip %s: %s\n", d.Callable, d.Reason)
		} else {
			fmt.Fprintf(os.Stderr, "skip %s\n", d.Callable)
		}
	}
	fmt.Fprintf(os.Stderr, "checking %d callables in %s\n", len(callables), result.PackagePath)

	output, err := harness.Exec(context.Background(), harness.Options{
		Package:       result,
		Callables:     callables,
		Examples:      c.Examples,
		Seed:          c.Seed,
		MaxLen:        c.MaxLen,
		RepeatIsCycle: c.RepeatIsCycle,
		DeepProducts:  c.Deep,
		DeepDomains:   c.Deep,
		Verbose:       c.Verbose,
	})
	if len(output) > 0 {
		fmt.Print(string(output))
	}
	return err
}
