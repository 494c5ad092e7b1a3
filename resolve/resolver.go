// Package resolve turns raw annotations into type descriptors.
//
// Resolution is a recursive descent guarded by a path of the identities
// currently being resolved. An identity that is re-entered while it is still
// on the path is a cycle; every branch releases its identity on exit, so the
// guard never outlives one top-level call.
package resolve

import (
	"fmt"
	"log/slog"

	"github.com/broady/sigprop/annotation"
	"github.com/broady/sigprop/ir"
)

// DefaultMaxDepth bounds the nesting of a single annotation.
const DefaultMaxDepth = 64

// Resolver resolves annotations against a universe of declarations.
// A Resolver holds no per-call state and may be reused.
type Resolver struct {
	universe *annotation.Universe
	policy   RepeatPolicy
	maxDepth int
	logger   *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRepeatPolicy sets how repeated declared names are treated.
// The default is RepeatAllowed.
func WithRepeatPolicy(p RepeatPolicy) Option {
	return func(r *Resolver) { r.policy = p }
}

// WithMaxDepth bounds annotation nesting. Deeper annotations are reported as
// unsupported. n <= 0 removes the bound.
func WithMaxDepth(n int) Option {
	return func(r *Resolver) { r.maxDepth = n }
}

// WithLogger sets the logger for resolution diagnostics.
// If nil, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// New returns a Resolver over u. A nil universe knows only builtins.
func New(u *annotation.Universe, opts ...Option) *Resolver {
	r := &Resolver{
		universe: u,
		policy:   RepeatAllowed,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Resolve resolves a top-level annotation. It returns *ir.CyclicTypeError for
// self-referential annotations and *ir.UnsupportedTypeError for shapes with no
// rule; in both cases the descriptor is nil.
func (r *Resolver) Resolve(a annotation.Annotation) (ir.TypeDescriptor, error) {
	return r.Scope().Resolve(a)
}

// Scope resolves several annotations as one unit, such as the parameters of
// one signature. Under RepeatIsCycle a declared type occurring in two of them
// is reported as cyclic; under RepeatAllowed a Scope behaves like separate
// Resolve calls.
type Scope struct {
	r    *Resolver
	path *path
}

// Scope returns a new, empty scope.
func (r *Resolver) Scope() *Scope {
	return &Scope{r: r, path: newPath(r.policy, r.maxDepth)}
}

// Resolve resolves a top-level annotation within the scope. Errors are as
// for Resolver.Resolve.
func (s *Scope) Resolve(a annotation.Annotation) (ir.TypeDescriptor, error) {
	d, err := s.r.resolve(a, s.path)
	if err != nil {
		s.r.logger.Debug("resolve failed", "annotation", fmt.Sprint(a), "error", err)
		return nil, err
	}
	return d, nil
}

func (r *Resolver) resolve(a annotation.Annotation, p *path) (ir.TypeDescriptor, error) {
	if a == nil {
		return nil, unsupported("<nil>", "missing annotation")
	}
	id := a.String()
	decl := r.declared(a)
	release, err := p.enter(id, decl)
	if err != nil {
		return nil, err
	}
	defer release()

	switch a := a.(type) {
	case annotation.Name:
		return r.resolveName(a, p)
	case annotation.Subscript:
		return r.resolveSubscript(a, p)
	case annotation.Const:
		return nil, unsupported(id, "constant outside Literal")
	default:
		return nil, unsupported(id, fmt.Sprintf("unknown annotation %T", a))
	}
}

// declared reports whether a names a declared class or alias, the only
// declarations that can lead back to themselves.
func (r *Resolver) declared(a annotation.Annotation) bool {
	n, ok := a.(annotation.Name)
	if !ok {
		return false
	}
	d, ok := r.universe.Lookup(n.Ident)
	if !ok {
		return false
	}
	switch d.(type) {
	case *annotation.Class, *annotation.NewType:
		return true
	default:
		return false
	}
}

func unsupported(id, reason string) *ir.UnsupportedTypeError {
	return &ir.UnsupportedTypeError{Annotation: id, Reason: reason}
}
