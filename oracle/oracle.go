// Package oracle synthesizes conformance checks from type descriptors.
//
// An Oracle answers whether a runtime value conforms to a declared type. It
// can also explain a rejection with the path to the offending element, render
// itself as a predicate, and act as a gomega matcher:
//
//	Expect(result).To(rec.Oracle())
package oracle

import (
	"fmt"

	"github.com/onsi/gomega/format"

	"github.com/broady/sigprop/ir"
)

// Root is the name of the checked value in paths and rendered predicates.
const Root = "x1"

// Policy selects how deeply shapes with opaque internals are validated.
// Containers, tuples, mappings, sums and aliases are always checked element by
// element; products and domain shapes only by identity unless opted in.
type Policy struct {
	// DeepProducts also checks every field of a product instance.
	// Products without an unpacker cannot be checked deeply.
	DeepProducts bool

	// DeepDomains also checks the elements of domain shapes.
	DeepDomains bool
}

// Option configures oracle synthesis.
type Option func(*Policy)

// WithDeepProducts validates product fields recursively.
func WithDeepProducts() Option {
	return func(p *Policy) { p.DeepProducts = true }
}

// WithDeepDomains validates domain shape elements.
func WithDeepDomains() Option {
	return func(p *Policy) { p.DeepDomains = true }
}

// WithPolicy replaces the whole policy.
func WithPolicy(policy Policy) Option {
	return func(p *Policy) { *p = policy }
}

// Oracle checks values against a type descriptor. The zero value is not
// usable; use Synthesize or None.
type Oracle struct {
	desc ir.TypeDescriptor // nil for None()
	root node
}

// Synthesize returns an oracle for d.
func Synthesize(d ir.TypeDescriptor, opts ...Option) (*Oracle, error) {
	var p Policy
	for _, opt := range opts {
		opt(&p)
	}
	n, err := build(d, p)
	if err != nil {
		return nil, err
	}
	return &Oracle{desc: d, root: n}, nil
}

// None returns the oracle for an absent return annotation. It accepts every
// value.
func None() *Oracle {
	return &Oracle{root: anyNode{}}
}

// Descriptor returns the descriptor the oracle checks, or nil for None().
func (o *Oracle) Descriptor() ir.TypeDescriptor { return o.desc }

// Accept reports whether v conforms.
func (o *Oracle) Accept(v any) bool {
	return o.root.check(v, Root) == nil
}

// Check returns nil if v conforms, or a *MismatchError locating the first
// offending element.
func (o *Oracle) Check(v any) error {
	return o.root.check(v, Root)
}

// String renders the predicate, e.g.
// "lambda x1: isinstance(x1, list) and all(isinstance(x2, int) for x2 in x1)".
func (o *Oracle) String() string {
	return "lambda " + Root + ": " + o.root.describe(Root, 1)
}

// Match implements gomega's types.GomegaMatcher.
func (o *Oracle) Match(actual any) (bool, error) {
	return o.Accept(actual), nil
}

// FailureMessage implements gomega's types.GomegaMatcher.
func (o *Oracle) FailureMessage(actual any) string {
	msg := format.Message(actual, "to satisfy", o.String())
	if err := o.Check(actual); err != nil {
		msg += "\n" + err.Error()
	}
	return msg
}

// NegatedFailureMessage implements gomega's types.GomegaMatcher.
func (o *Oracle) NegatedFailureMessage(actual any) string {
	return format.Message(actual, "not to satisfy", o.String())
}

// MismatchError reports a value that does not conform.
type MismatchError struct {
	// Path locates the offending element, e.g. "x1[2].name".
	Path string

	// Want is the expected type.
	Want string

	// Got is the offending value.
	Got any

	// Reason optionally refines the mismatch.
	Reason string
}

func (e *MismatchError) Error() string {
	msg := fmt.Sprintf("%s: want %s, got %s", e.Path, e.Want, show(e.Got))
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func show(v any) string {
	if v == nil {
		return "None"
	}
	return fmt.Sprintf("%T(%v)", v, v)
}

func mismatch(at, want string, got any) error {
	return &MismatchError{Path: at, Want: want, Got: got}
}
