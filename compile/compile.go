// Package compile turns callable signatures into test records: one generator
// per parameter, an invocation shape and a return-value oracle.
package compile

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/broady/sigprop/annotation"
	"github.com/broady/sigprop/gen"
	"github.com/broady/sigprop/ir"
	"github.com/broady/sigprop/oracle"
	"github.com/broady/sigprop/resolve"
)

var validate = validator.New()

// Config holds compiler settings.
type Config struct {
	// RepeatPolicy decides whether repeated declared types count as cycles.
	RepeatPolicy resolve.RepeatPolicy `validate:"gte=0,lte=1"`

	// MaxDepth bounds annotation nesting. Zero removes the bound.
	MaxDepth int `validate:"gte=0,lte=4096"`

	// MaxLen caps generated container sizes.
	MaxLen int `validate:"gte=0,lte=10000"`

	// Validation selects oracle depth for products and domain shapes.
	Validation oracle.Policy

	// Logger receives compile diagnostics. If nil, slog.Default() is used.
	Logger *slog.Logger `validate:"-"`
}

// DefaultConfig returns the settings used when none are given.
func DefaultConfig() Config {
	return Config{
		RepeatPolicy: resolve.RepeatAllowed,
		MaxDepth:     resolve.DefaultMaxDepth,
		MaxLen:       gen.DefaultMaxLen,
	}
}

// Compiler compiles signatures against a universe of declarations.
// Compilations share no state.
type Compiler struct {
	universe *annotation.Universe
	cfg      Config
	logger   *slog.Logger
}

// New returns a Compiler. It fails if cfg is invalid.
func New(u *annotation.Universe, cfg Config) (*Compiler, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid compile config: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Compiler{universe: u, cfg: cfg, logger: logger}, nil
}

// Compile compiles one signature. Resolution failures are returned wrapped
// with the callable name; errors.As still finds *ir.UnsupportedTypeError and
// *ir.CyclicTypeError.
func (c *Compiler) Compile(sig annotation.Signature) (TestRecord, error) {
	rec, err := c.compile(sig)
	if err != nil {
		return TestRecord{}, fmt.Errorf("compile %s: %w", sig.QualifiedName(), err)
	}
	return rec, nil
}

func (c *Compiler) compile(sig annotation.Signature) (TestRecord, error) {
	if sig.Name == "" {
		return TestRecord{}, errors.New("signature without a name")
	}
	// Descriptors are built per signature and never shared between records.
	r := resolve.New(c.universe,
		resolve.WithRepeatPolicy(c.cfg.RepeatPolicy),
		resolve.WithMaxDepth(c.cfg.MaxDepth),
		resolve.WithLogger(c.logger),
	)
	genOpts := []gen.Option{gen.WithMaxLen(c.cfg.MaxLen)}

	rec := TestRecord{name: sig.Name, owner: sig.Owner, invocation: Function}

	if sig.Owner != "" {
		d, err := r.Resolve(annotation.N(sig.Owner))
		if err != nil {
			return TestRecord{}, fmt.Errorf("owner: %w", err)
		}
		if _, ok := ir.Unalias(d).(*ir.ProductDescriptor); !ok {
			return TestRecord{}, fmt.Errorf("owner %s is not a class", sig.Owner)
		}
		g, err := gen.Synthesize(d, genOpts...)
		if err != nil {
			return TestRecord{}, fmt.Errorf("owner: %w", err)
		}
		rec.receiver = &Argument{Name: "self", Descriptor: d, Generator: g}
		rec.invocation = Method
	}

	// Unannotated parameters are left to the callable's defaults and never
	// drawn; a callable with no annotated parameters is nullary.
	var params []annotation.Param
	for _, p := range sig.Params {
		if p.Type == nil {
			c.logger.Debug("dropping unannotated parameter", "callable", sig.QualifiedName(), "parameter", p.Name)
			continue
		}
		params = append(params, p)
	}
	if len(params) == 0 {
		rec.invocation = Nullary
		rec.args = []Argument{{Name: "_", Generator: gen.Placeholder()}}
	}
	// Parameters share one scope, so under RepeatIsCycle a declared type
	// repeated across parameters is reported as well.
	scope := r.Scope()
	for _, p := range params {
		d, err := scope.Resolve(p.Type)
		if err != nil {
			return TestRecord{}, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		g, err := gen.Synthesize(d, genOpts...)
		if err != nil {
			return TestRecord{}, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		rec.args = append(rec.args, Argument{Name: p.Name, Descriptor: d, Generator: g})
	}

	if sig.Return == nil {
		rec.oracle = oracle.None()
		return rec, nil
	}
	d, err := r.Resolve(sig.Return)
	if err != nil {
		return TestRecord{}, fmt.Errorf("return: %w", err)
	}
	o, err := oracle.Synthesize(d, oracle.WithPolicy(c.cfg.Validation))
	if err != nil {
		return TestRecord{}, fmt.Errorf("return: %w", err)
	}
	rec.ret = d
	rec.oracle = o
	return rec, nil
}
