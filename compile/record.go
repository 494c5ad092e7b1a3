package compile

import (
	"pgregory.net/rapid"

	"github.com/broady/sigprop/ir"
	"github.com/broady/sigprop/oracle"
)

// Invocation is the call shape a runner uses for a record.
type Invocation int

const (
	// Function calls a free function with the drawn arguments.
	Function Invocation = iota

	// Method instantiates the owner first, then calls the method on it with
	// the drawn arguments.
	Method

	// Nullary calls a callable that takes no parameters. Its single argument
	// generator yields value.NoArgs, which runners drop before the call. A
	// nullary method still instantiates its owner.
	Nullary
)

func (i Invocation) String() string {
	switch i {
	case Function:
		return "function"
	case Method:
		return "method"
	case Nullary:
		return "nullary"
	default:
		return "unknown"
	}
}

// Argument is one compiled parameter.
type Argument struct {
	Name       string
	Descriptor ir.TypeDescriptor // nil for the nullary placeholder
	Generator  *rapid.Generator[any]
}

// TestRecord is the compiled form of one callable. It is immutable;
// accessors return copies of internal slices.
type TestRecord struct {
	name       string
	owner      string
	invocation Invocation
	receiver   *Argument
	args       []Argument
	ret        ir.TypeDescriptor
	oracle     *oracle.Oracle
}

// Name returns the callable name.
func (r TestRecord) Name() string { return r.name }

// Owner returns the owning type name, or "" for free functions.
func (r TestRecord) Owner() string { return r.owner }

// QualifiedName returns "Owner.name" for methods and "name" otherwise.
func (r TestRecord) QualifiedName() string {
	if r.owner == "" {
		return r.name
	}
	return r.owner + "." + r.name
}

// TestName returns the conventional test function name:
// test_<Owner>_<name> for methods, test_<name> otherwise.
func (r TestRecord) TestName() string {
	if r.owner == "" {
		return "test_" + r.name
	}
	return "test_" + r.owner + "_" + r.name
}

// Invocation returns the call shape.
func (r TestRecord) Invocation() Invocation { return r.invocation }

// Receiver returns the generator for the method receiver. ok is false for
// free functions.
func (r TestRecord) Receiver() (arg Argument, ok bool) {
	if r.receiver == nil {
		return Argument{}, false
	}
	return *r.receiver, true
}

// Arguments returns the compiled parameters in declaration order. Nullary
// records have exactly one placeholder argument.
func (r TestRecord) Arguments() []Argument {
	return append([]Argument(nil), r.args...)
}

// Generators returns the argument generators in declaration order.
func (r TestRecord) Generators() []*rapid.Generator[any] {
	gens := make([]*rapid.Generator[any], len(r.args))
	for i, a := range r.args {
		gens[i] = a.Generator
	}
	return gens
}

// Return returns the resolved return descriptor, or nil when the callable
// declares none.
func (r TestRecord) Return() ir.TypeDescriptor { return r.ret }

// Oracle returns the return-value check. Callables without a declared return
// type get oracle.None().
func (r TestRecord) Oracle() *oracle.Oracle { return r.oracle }
