// Package sigprop compiles callable signatures into property-based tests.
//
// For every parameter it synthesizes a generator of conforming random values,
// and for the return type an oracle that checks a result conforms. The
// pipeline runs one way:
//
//	annotations -> resolve -> descriptors -> {gen, oracle} -> compile -> records
//
// Suite is the fluent entry point:
//
//	batch, err := sigprop.FromManifest("sigs.yaml").
//	    MaxLen(8).
//	    DeepProducts().
//	    Compile(ctx)
package sigprop

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"pgregory.net/rapid"

	"github.com/broady/sigprop/annotation"
	"github.com/broady/sigprop/compile"
	"github.com/broady/sigprop/provider"
	"github.com/broady/sigprop/resolve"
	"github.com/broady/sigprop/runner"
)

// Suite provides a fluent API for compiling and running signatures.
// Create one with FromExtractor, FromManifest, FromPackages or
// FromSignatures, then configure it with method chaining.
type Suite struct {
	extractor provider.Extractor
	cfg       compile.Config
	run       runner.Options
}

// FromExtractor creates a Suite reading signatures from e.
func FromExtractor(e provider.Extractor) *Suite {
	return &Suite{
		extractor: e,
		cfg:       compile.DefaultConfig(),
		run:       runner.DefaultOptions(),
	}
}

// FromManifest creates a Suite reading a YAML manifest.
func FromManifest(path string) *Suite {
	return FromExtractor(&provider.Manifest{Path: path})
}

// FromPackages creates a Suite extracting exported callables from Go packages.
func FromPackages(patterns ...string) *Suite {
	return FromExtractor(&provider.Source{Patterns: patterns})
}

// FromSignatures creates a Suite over signatures already in hand.
func FromSignatures(u *annotation.Universe, sigs ...annotation.Signature) *Suite {
	return FromExtractor(provider.Static{Universe: u, Signatures: sigs})
}

// RepeatIsCycle reports a declared type that occurs twice within one
// annotation, or in two parameters of one signature, as cyclic, even when the
// occurrences are siblings.
func (s *Suite) RepeatIsCycle() *Suite {
	s.cfg.RepeatPolicy = resolve.RepeatIsCycle
	return s
}

// MaxDepth bounds annotation nesting.
func (s *Suite) MaxDepth(n int) *Suite {
	s.cfg.MaxDepth = n
	return s
}

// MaxLen caps generated container sizes.
func (s *Suite) MaxLen(n int) *Suite {
	s.cfg.MaxLen = n
	return s
}

// DeepProducts makes oracles validate product fields.
func (s *Suite) DeepProducts() *Suite {
	s.cfg.Validation.DeepProducts = true
	return s
}

// DeepDomains makes oracles validate domain shape elements.
func (s *Suite) DeepDomains() *Suite {
	s.cfg.Validation.DeepDomains = true
	return s
}

// Examples sets how many examples Run draws per record.
func (s *Suite) Examples(n int) *Suite {
	s.run.Examples = n
	return s
}

// Seed sets the base seed Run draws examples from.
func (s *Suite) Seed(seed int) *Suite {
	s.run.Seed = seed
	return s
}

// Logger sets the logger for compilation and runs.
func (s *Suite) Logger(l *slog.Logger) *Suite {
	s.cfg.Logger = l
	s.run.Logger = l
	return s
}

// Compile extracts and compiles every signature. Callables that fail to
// compile are reported in the batch; the error covers extraction and
// configuration problems only.
func (s *Suite) Compile(ctx context.Context) (compile.Batch, error) {
	u, sigs, err := s.extractor.Extract(ctx)
	if err != nil {
		return compile.Batch{}, fmt.Errorf("extract: %w", err)
	}
	c, err := compile.New(u, s.cfg)
	if err != nil {
		return compile.Batch{}, err
	}
	return c.CompileAll(sigs), nil
}

// Run compiles, then runs every compiled record that has a binding.
func (s *Suite) Run(ctx context.Context, bindings runner.Bindings) (compile.Batch, runner.Report, error) {
	batch, err := s.Compile(ctx)
	if err != nil {
		return compile.Batch{}, runner.Report{}, err
	}
	rep, err := runner.Run(ctx, batch.Records, bindings, s.run)
	if err != nil {
		return batch, runner.Report{}, err
	}
	return batch, rep, nil
}

// Test compiles the suite and checks every bound record as a rapid property
// in its own subtest. Records without a binding are skipped, and callables
// that fail to compile are logged.
func (s *Suite) Test(t *testing.T, bindings runner.Bindings) {
	t.Helper()
	batch, err := s.Compile(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range batch.Failures {
		t.Logf("not compiled: %s", f)
	}
	for _, rec := range batch.Records {
		call, ok := bindings[rec.QualifiedName()]
		t.Run(rec.TestName(), func(t *testing.T) {
			if !ok {
				t.Skipf("no binding for %s", rec.QualifiedName())
			}
			rapid.Check(t, runner.Property(rec, call))
		})
	}
}
