// Package annotation defines raw, unresolved type annotations as a signature
// extractor produces them, and the declarations those annotations refer to.
//
// Annotations use type-hint syntax, e.g. "dict[str, list[Optional[int]]]".
// They may name declared types, so a set of annotations can describe a
// self-referential type graph; only the resolver turns them into finite
// descriptors.
package annotation

import (
	"strings"

	"github.com/broady/sigprop/ir"
)

// Annotation is a raw type annotation.
type Annotation interface {
	// String renders the annotation. The rendering is its identity on the
	// resolution path.
	String() string

	annotation()
}

// Name is a bare identifier: a builtin such as "int" or "None", or a declared name.
type Name struct {
	Ident string
}

func (n Name) String() string { return n.Ident }

func (Name) annotation() {}

// Subscript is a parameterized annotation such as list[int] or Union[int, str].
type Subscript struct {
	Origin string
	Args   []Annotation
}

func (s Subscript) String() string {
	parts := make([]string, len(s.Args))
	for i, a := range s.Args {
		parts[i] = a.String()
	}
	return s.Origin + "[" + strings.Join(parts, ", ") + "]"
}

func (Subscript) annotation() {}

// Const is a constant appearing as a Literal member.
type Const struct {
	Value any
}

func (c Const) String() string { return ir.FormatConst(c.Value) }

func (Const) annotation() {}

// N returns a Name annotation.
func N(ident string) Name { return Name{Ident: ident} }

// Of returns a Subscript annotation.
func Of(origin string, args ...Annotation) Subscript {
	return Subscript{Origin: origin, Args: args}
}

// Lit returns a Literal annotation over the given constants.
func Lit(values ...any) Subscript {
	args := make([]Annotation, len(values))
	for i, v := range values {
		args[i] = Const{Value: v}
	}
	return Subscript{Origin: "Literal", Args: args}
}

// Param is a named, annotated parameter.
type Param struct {
	Name string
	Type Annotation
}

// Signature is one callable as the extractor sees it.
type Signature struct {
	// Name is the callable name.
	Name string

	// Owner is the declared class name for methods, empty for free functions.
	Owner string

	// Params are the parameters in declaration order, excluding the receiver.
	Params []Param

	// Return is the declared return annotation, nil when absent.
	Return Annotation
}

// QualifiedName returns "Owner.Name" for methods and Name otherwise.
func (s Signature) QualifiedName() string {
	if s.Owner == "" {
		return s.Name
	}
	return s.Owner + "." + s.Name
}
