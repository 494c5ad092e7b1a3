package compile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/broady/sigprop/annotation"
	"github.com/broady/sigprop/ir"
)

// Failure records a callable that could not be compiled.
type Failure struct {
	Callable string
	Err      error
}

// Reason classifies the failure: "cyclic", "unsupported" or "error".
func (f Failure) Reason() string {
	var cyc *ir.CyclicTypeError
	var unsup *ir.UnsupportedTypeError
	switch {
	case errors.As(f.Err, &cyc):
		return "cyclic"
	case errors.As(f.Err, &unsup):
		return "unsupported"
	default:
		return "error"
	}
}

func (f Failure) String() string {
	return fmt.Sprintf("%s: %s: %v", f.Callable, f.Reason(), f.Err)
}

// Batch is the result of compiling many signatures with per-callable
// isolation.
type Batch struct {
	Records  []TestRecord
	Failures []Failure
}

// CompileAll compiles every signature. A failing signature is recorded and
// skipped; the others still compile. Records keep input order.
func (c *Compiler) CompileAll(sigs []annotation.Signature) Batch {
	var b Batch
	for _, sig := range sigs {
		rec, err := c.Compile(sig)
		if err != nil {
			c.logger.Debug("skipping callable", "callable", sig.QualifiedName(), "error", err)
			b.Failures = append(b.Failures, Failure{Callable: sig.QualifiedName(), Err: err})
			continue
		}
		b.Records = append(b.Records, rec)
	}
	if len(b.Failures) > 0 {
		c.logger.Info("compiled with skipped callables",
			"compiled", len(b.Records), "skipped", len(b.Failures))
	}
	return b
}

// Err joins all failures, or returns nil if there were none.
func (b Batch) Err() error {
	errs := make([]error, len(b.Failures))
	for i, f := range b.Failures {
		errs[i] = f.Err
	}
	return errors.Join(errs...)
}

// Summary renders a one-line count followed by one line per skipped callable.
func (b Batch) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d compiled, %d skipped", len(b.Records), len(b.Failures))
	for _, f := range b.Failures {
		sb.WriteString("\n  ")
		sb.WriteString(f.String())
	}
	return sb.String()
}
