// Package domain implements the externally defined shapes that the generic
// rules cannot express: binary tree nodes, typed arrays and fixed-shape
// ndarrays. Each shape is configured by hints carried on its descriptor.
package domain

import (
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"pgregory.net/rapid"

	"github.com/broady/sigprop/ir"
)

var (
	validate      = validator.New()
	schemaDecoder = schema.NewDecoder()
)

// Shape is a decoded domain descriptor.
type Shape interface {
	// Tag returns the domain tag, one of the ir.Domain* constants.
	Tag() string

	// Generator returns a generator of conforming values.
	Generator() *rapid.Generator[any]

	// Check validates v. Shallow checks look at the value's type and header
	// only; deep checks also walk its elements.
	Check(v any, deep bool) error

	// Describe renders the membership predicate for the bound variable x.
	Describe(x string) string
}

// Decode turns a domain descriptor into its Shape, applying default hints for
// anything the descriptor leaves unset.
func Decode(d *ir.DomainDescriptor) (Shape, error) {
	return DecodeHints(d.Tag, d.Hints)
}

// DecodeHints decodes hints for the given tag.
func DecodeHints(tag string, hints url.Values) (Shape, error) {
	switch tag {
	case ir.DomainBinaryTree:
		h := TreeHints{Depth: 1}
		if err := decode(&h, hints); err != nil {
			return nil, fmt.Errorf("%s hints: %w", tag, err)
		}
		return &treeShape{hints: h}, nil
	case ir.DomainArray:
		h := ArrayHints{Typecode: "i", MaxLen: 16}
		if err := decode(&h, hints); err != nil {
			return nil, fmt.Errorf("%s hints: %w", tag, err)
		}
		return &arrayShape{hints: h}, nil
	case ir.DomainNDArray:
		h := NDArrayHints{DType: "float"}
		if err := decode(&h, hints); err != nil {
			return nil, fmt.Errorf("%s hints: %w", tag, err)
		}
		if len(h.Shape) == 0 {
			h.Shape = []int{3, 3}
		}
		return &ndarrayShape{hints: h}, nil
	default:
		return nil, fmt.Errorf("unknown domain tag %q", tag)
	}
}

// decode fills dst from hints and validates the result. dst must be a
// pointer to a hint struct.
func decode(dst any, hints url.Values) error {
	if len(hints) > 0 {
		if err := schemaDecoder.Decode(dst, hints); err != nil {
			return err
		}
	}
	return validate.Struct(dst)
}

// TypecodeFor returns the array typecode used for elements of kind k.
// Kinds without a dedicated typecode fall back to "i".
func TypecodeFor(k ir.PrimitiveKind) string {
	switch k {
	case ir.PrimitiveFloat:
		return "f"
	case ir.PrimitiveComplex:
		return "c"
	case ir.PrimitiveString:
		return "u"
	default:
		return "i"
	}
}

// DTypeFor returns the ndarray dtype used for elements of kind k.
// Kinds without a dedicated dtype fall back to "float".
func DTypeFor(k ir.PrimitiveKind) string {
	switch k {
	case ir.PrimitiveInt:
		return "int"
	case ir.PrimitiveComplex:
		return "complex"
	default:
		return "float"
	}
}
