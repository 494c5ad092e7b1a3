package check

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/broady/sigprop/cmd/sigprop/internal/input"
)

type Cmd struct {
	input.Flags `embed:""`

	Strict bool `help:"Fail when any callable cannot be compiled."`
}

func (c *Cmd) Run() error {
	return c.run(context.Background(), os.Stdout, os.Stderr)
}

func (c *Cmd) run(ctx context.Context, stdout, stderr io.Writer) error {
	batch, err := c.Suite(stderr).Compile(ctx)
	if err != nil {
		return err
	}

	for _, rec := range batch.Records {
		ret := "None"
		if d := rec.Return(); d != nil {
			ret = d.String()
		}
		fmt.Fprintf(stdout, "✓ %s (%s) -> %s\n", rec.QualifiedName(), rec.Invocation(), ret)
	}
	for _, f := range batch.Failures {
		fmt.Fprintf(stdout, "✗ %s: %s: %v\n", f.Callable, f.Reason(), f.Err)
	}
	fmt.Fprintf(stdout, "%d compiled, %d skipped\n", len(batch.Records), len(batch.Failures))

	if c.Strict && len(batch.Failures) > 0 {
		return fmt.Errorf("%d callables could not be compiled", len(batch.Failures))
	}
	return nil
}
