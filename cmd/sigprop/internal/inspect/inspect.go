package inspect

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/broady/sigprop/cmd/sigprop/internal/input"
	"github.com/broady/sigprop/compile"
	"github.com/broady/sigprop/ir"
)

type Cmd struct {
	input.Flags `embed:""`
}

// Record is the JSON form of a compiled test record.
type Record struct {
	Callable   string            `json:"callable"`
	Test       string            `json:"test"`
	Invocation string            `json:"invocation"`
	Receiver   ir.TypeDescriptor `json:"receiver,omitempty"`
	Params     []Param           `json:"params"`
	Returns    ir.TypeDescriptor `json:"returns"`
	Oracle     string            `json:"oracle"`
}

// Param is one compiled parameter.
type Param struct {
	Name string            `json:"name"`
	Type ir.TypeDescriptor `json:"type"`
}

// Failure is a callable that did not compile.
type Failure struct {
	Callable string `json:"callable"`
	Reason   string `json:"reason"`
	Error    string `json:"error"`
}

// Output is the document inspect prints.
type Output struct {
	Records  []Record  `json:"records"`
	Failures []Failure `json:"failures,omitempty"`
}

func (c *Cmd) Run() error {
	return c.run(context.Background(), os.Stdout, os.Stderr)
}

func (c *Cmd) run(ctx context.Context, stdout, stderr io.Writer) error {
	batch, err := c.Suite(stderr).Compile(ctx)
	if err != nil {
		return err
	}

	out := Output{Records: []Record{}}
	for _, rec := range batch.Records {
		r := Record{
			Callable:   rec.QualifiedName(),
			Test:       rec.TestName(),
			Invocation: rec.Invocation().String(),
			Params:     []Param{},
			Returns:    rec.Return(),
			Oracle:     rec.Oracle().String(),
		}
		if recv, ok := rec.Receiver(); ok {
			r.Receiver = recv.Descriptor
		}
		if rec.Invocation() != compile.Nullary {
			for _, a := range rec.Arguments() {
				r.Params = append(r.Params, Param{Name: a.Name, Type: a.Descriptor})
			}
		}
		out.Records = append(out.Records, r)
	}
	for _, f := range batch.Failures {
		out.Failures = append(out.Failures, Failure{Callable: f.Callable, Reason: f.Reason(), Error: f.Err.Error()})
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
