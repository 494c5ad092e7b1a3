// Package runner executes compiled test records against bound callables.
//
// Property adapts a record to rapid for use inside go test. Run drives
// records without a testing.T, drawing a fixed number of seeded examples per
// record and reporting pass, fail and error counts.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pgregory.net/rapid"

	"github.com/broady/sigprop/compile"
	"github.com/broady/sigprop/value"
)

// Binding calls the callable under test. recv is the drawn receiver for
// methods and nil for functions; args holds the drawn arguments and is empty
// for nullary callables.
type Binding func(recv any, args []any) (any, error)

// Bindings maps qualified callable names ("add", "Counter.next") to bindings.
type Bindings map[string]Binding

// Property returns a rapid property exercising rec through call: draw the
// receiver and arguments, call, then check the result against the oracle.
func Property(rec compile.TestRecord, call Binding) func(*rapid.T) {
	return func(t *rapid.T) {
		var recv any
		if r, ok := rec.Receiver(); ok {
			recv = r.Generator.Draw(t, r.Name)
		}
		var args []any
		for _, a := range rec.Arguments() {
			v := a.Generator.Draw(t, a.Name)
			if v == value.NoArgs {
				continue
			}
			args = append(args, v)
		}
		result, err := call(recv, args)
		if err != nil {
			t.Fatalf("%s: %v", rec.QualifiedName(), err)
		}
		if err := rec.Oracle().Check(result); err != nil {
			t.Fatalf("%s returned a non-conforming value: %v", rec.QualifiedName(), err)
		}
	}
}

// Invoke draws one example from rec using seed, calls it and checks the
// result. It reports oracle rejections as *FailureError and every other
// problem as a plain error.
func Invoke(rec compile.TestRecord, call Binding, seed int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	var recv any
	if r, ok := rec.Receiver(); ok {
		recv = r.Generator.Example(seed)
	}
	args := make([]any, 0, len(rec.Arguments()))
	for i, a := range rec.Arguments() {
		v := a.Generator.Example(seed + i + 1)
		if v == value.NoArgs {
			continue
		}
		args = append(args, v)
	}

	result, err := call(recv, args)
	if err != nil {
		return fmt.Errorf("call: %w", err)
	}
	if err := rec.Oracle().Check(result); err != nil {
		return &FailureError{Args: args, Result: result, Err: err}
	}
	return nil
}

// FailureError reports a result the oracle rejected.
type FailureError struct {
	Args   []any
	Result any
	Err    error
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("args %v: result %v: %v", e.Args, e.Result, e.Err)
}

func (e *FailureError) Unwrap() error { return e.Err }

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

// Run executes every record with its binding. Records without a binding are
// skipped. Run stops early, marking the remaining records skipped, when ctx
// is done.
func Run(ctx context.Context, records []compile.TestRecord, bindings Bindings, opts Options) (Report, error) {
	if err := opts.validate(); err != nil {
		return Report{}, err
	}
	log := logger(opts.Logger)

	var rep Report
	for _, rec := range records {
		res := Result{Callable: rec.QualifiedName()}
		call, ok := bindings[rec.QualifiedName()]
		switch {
		case ctx.Err() != nil:
			res.Outcome = Skipped
			res.Err = ctx.Err()
		case !ok:
			res.Outcome = Skipped
			res.Err = fmt.Errorf("no binding for %s", rec.QualifiedName())
		default:
			res = runOne(ctx, rec, call, opts)
		}

		switch res.Outcome {
		case Failed:
			log.Error("property failed", "callable", res.Callable, "examples", res.Examples, "error", res.Err)
		case Errored:
			log.Error("callable errored", "callable", res.Callable, "examples", res.Examples, "error", res.Err)
		case Skipped:
			log.Warn("callable skipped", "callable", res.Callable, "reason", res.Err)
		default:
			log.Debug("property passed", "callable", res.Callable, "examples", res.Examples)
		}
		rep.add(res)
	}
	log.Info("run complete", "passed", rep.Passed, "failed", rep.Failed, "errored", rep.Errored, "skipped", rep.Skipped)
	return rep, nil
}

func runOne(ctx context.Context, rec compile.TestRecord, call Binding, opts Options) Result {
	res := Result{Callable: rec.QualifiedName(), Outcome: Passed}
	stride := len(rec.Arguments()) + 1
	for i := 0; i < opts.Examples; i++ {
		if err := ctx.Err(); err != nil {
			res.Outcome = Errored
			res.Err = err
			return res
		}
		res.Examples++
		err := Invoke(rec, call, opts.Seed+i*stride)
		if err == nil {
			continue
		}
		res.Err = err
		var failure *FailureError
		if errors.As(err, &failure) {
			res.Outcome = Failed
		} else {
			res.Outcome = Errored
		}
		return res
	}
	return res
}
