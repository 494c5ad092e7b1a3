package sample

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/broady/sigprop/cmd/sigprop/internal/input"
	"github.com/broady/sigprop/compile"
	"github.com/broady/sigprop/value"
)

type Cmd struct {
	input.Flags `embed:""`

	Callable string `arg:"" help:"Qualified callable name, e.g. add or Counter.next."`
	Count    int    `help:"Number of examples to draw." short:"n" default:"5"`
	Seed     int    `help:"Seed of the first example." default:"0"`
}

func (c *Cmd) Run() error {
	return c.run(context.Background(), os.Stdout, os.Stderr)
}

func (c *Cmd) run(ctx context.Context, stdout, stderr io.Writer) error {
	batch, err := c.Suite(stderr).Compile(ctx)
	if err != nil {
		return err
	}

	rec, ok := input.Find(batch, c.Callable)
	if !ok {
		for _, f := range batch.Failures {
			if f.Callable == c.Callable {
				return fmt.Errorf("%s was not compiled: %w", c.Callable, f.Err)
			}
		}
		return fmt.Errorf("callable %q not found", c.Callable)
	}

	fmt.Fprintf(stdout, "# %s\n", rec.Oracle())
	for i := 0; i < c.Count; i++ {
		fmt.Fprintln(stdout, call(rec, c.Seed+i))
	}
	return nil
}

// call renders one drawn invocation, e.g. "add(a=1, b=-3)".
func call(rec compile.TestRecord, seed int) string {
	var parts []string
	if recv, ok := rec.Receiver(); ok {
		parts = append(parts, fmt.Sprintf("%s=%v", recv.Name, recv.Generator.Example(seed)))
	}
	for _, a := range rec.Arguments() {
		v := a.Generator.Example(seed)
		if v == value.NoArgs {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%s", a.Name, show(v)))
	}
	return rec.QualifiedName() + "(" + strings.Join(parts, ", ") + ")"
}

func show(v any) string {
	switch v := v.(type) {
	case nil:
		return "None"
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
