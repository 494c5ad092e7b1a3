// Package gen synthesizes rapid generators from type descriptors.
//
// Generated values use the runtime representations of package value: ints
// are drawn from the 32-bit signed range, containers have variable length,
// mapping keys are unique, and sums pick a variant uniformly on every draw.
package gen

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"pgregory.net/rapid"

	"github.com/broady/sigprop/domain"
	"github.com/broady/sigprop/ir"
	"github.com/broady/sigprop/value"
)

// DefaultMaxLen caps the size of generated containers.
const DefaultMaxLen = 16

type config struct {
	maxLen int
}

// Option configures generator synthesis.
type Option func(*config)

// WithMaxLen caps the number of elements drawn for containers, mappings and
// byte strings. n < 0 is treated as 0.
func WithMaxLen(n int) Option {
	return func(c *config) { c.maxLen = max(n, 0) }
}

// Synthesize returns a generator producing values that conform to d.
// It fails only for descriptors it has no rule for.
func Synthesize(d ir.TypeDescriptor, opts ...Option) (*rapid.Generator[any], error) {
	c := config{maxLen: DefaultMaxLen}
	for _, opt := range opts {
		opt(&c)
	}
	return c.synthesize(d)
}

// Placeholder returns the generator used for callables without parameters.
// It always yields value.NoArgs.
func Placeholder() *rapid.Generator[any] {
	return rapid.Just[any](value.NoArgs)
}

func (c *config) synthesize(d ir.TypeDescriptor) (*rapid.Generator[any], error) {
	switch d := d.(type) {
	case *ir.PrimitiveDescriptor:
		return c.primitive(d.PrimitiveKind)
	case *ir.ContainerDescriptor:
		return c.container(d)
	case *ir.MappingDescriptor:
		key, err := c.key(d.Key)
		if err != nil {
			return nil, err
		}
		val, err := c.synthesize(d.Value)
		if err != nil {
			return nil, err
		}
		keys := rapid.SliceOfNDistinct(key, 0, c.maxLen, value.Distinct)
		return rapid.Custom(func(t *rapid.T) any {
			ks := keys.Draw(t, "keys")
			m := make(map[any]any, len(ks))
			for _, k := range ks {
				m[k] = val.Draw(t, "value")
			}
			return m
		}), nil
	case *ir.TupleDescriptor:
		elems := make([]*rapid.Generator[any], len(d.Elements))
		for i, e := range d.Elements {
			g, err := c.synthesize(e)
			if err != nil {
				return nil, err
			}
			elems[i] = g
		}
		return rapid.Custom(func(t *rapid.T) any {
			tup := make(value.Tuple, len(elems))
			for i, g := range elems {
				tup[i] = g.Draw(t, fmt.Sprintf("[%d]", i))
			}
			return tup
		}), nil
	case *ir.ProductDescriptor:
		return c.product(d)
	case *ir.SumDescriptor:
		variants := make([]*rapid.Generator[any], len(d.Variants))
		for i, v := range d.Variants {
			g, err := c.synthesize(v)
			if err != nil {
				return nil, err
			}
			variants[i] = g
		}
		return rapid.OneOf(variants...), nil
	case *ir.NoneDescriptor:
		return rapid.Just[any](nil), nil
	case *ir.LiteralDescriptor:
		if len(d.Values) == 0 {
			return nil, fmt.Errorf("generate %s: no literal values", d)
		}
		return rapid.SampledFrom(d.Values), nil
	case *ir.AliasDescriptor:
		return c.synthesize(d.Underlying)
	case *ir.DomainDescriptor:
		s, err := domain.Decode(d)
		if err != nil {
			return nil, fmt.Errorf("generate %s: %w", d, err)
		}
		return s.Generator(), nil
	case *ir.UnresolvedDescriptor:
		return c.primitive(d.Fallback().PrimitiveKind)
	default:
		return nil, fmt.Errorf("generate: unknown descriptor %T", d)
	}
}

func (c *config) container(d *ir.ContainerDescriptor) (*rapid.Generator[any], error) {
	switch d.ContainerKind {
	case ir.ContainerList, ir.ContainerSequence:
		elem, err := c.synthesize(d.Element)
		if err != nil {
			return nil, err
		}
		s := rapid.SliceOfN(elem, 0, c.maxLen)
		return rapid.Custom(func(t *rapid.T) any { return s.Draw(t, d.ContainerKind.String()) }), nil
	case ir.ContainerSet, ir.ContainerFrozenSet:
		member, err := c.key(d.Element)
		if err != nil {
			return nil, err
		}
		s := rapid.SliceOfNDistinct(member, 0, c.maxLen, value.Distinct)
		frozen := d.ContainerKind == ir.ContainerFrozenSet
		return rapid.Custom(func(t *rapid.T) any {
			elems := s.Draw(t, d.ContainerKind.String())
			if frozen {
				return value.NewFrozenSet(elems...)
			}
			return value.NewSet(elems...)
		}), nil
	default:
		return nil, fmt.Errorf("generate %s: unknown container kind", d)
	}
}

// key synthesizes a generator for set members and mapping keys. Its values
// are comparable: tuples are drawn as arrays.
func (c *config) key(d ir.TypeDescriptor) (*rapid.Generator[any], error) {
	g, err := c.synthesize(d)
	if err != nil {
		return nil, err
	}
	return rapid.Custom(func(t *rapid.T) any { return value.Key(g.Draw(t, "key")) }), nil
}

// product draws each constructor argument in field order, then builds the
// instance. A constructor that rejects drawn arguments fails the draw.
func (c *config) product(d *ir.ProductDescriptor) (*rapid.Generator[any], error) {
	if d.New == nil {
		return nil, fmt.Errorf("generate %s: no constructor", d)
	}
	fields := make([]*rapid.Generator[any], len(d.Fields))
	for i, f := range d.Fields {
		g, err := c.synthesize(f.Type)
		if err != nil {
			return nil, err
		}
		fields[i] = g
	}
	return rapid.Custom(func(t *rapid.T) any {
		args := make([]any, len(fields))
		for i, g := range fields {
			args[i] = g.Draw(t, d.Fields[i].Name)
		}
		v, err := d.New(args)
		if err != nil {
			t.Fatalf("construct %s: %v", d.Name, err)
		}
		return v
	}), nil
}

func (c *config) primitive(k ir.PrimitiveKind) (*rapid.Generator[any], error) {
	switch k {
	case ir.PrimitiveInt:
		return rapid.Custom(func(t *rapid.T) any {
			return int(rapid.Int32().Draw(t, "int"))
		}), nil
	case ir.PrimitiveFloat:
		return rapid.Custom(func(t *rapid.T) any { return rapid.Float64().Draw(t, "float") }), nil
	case ir.PrimitiveString:
		return rapid.Custom(func(t *rapid.T) any { return rapid.String().Draw(t, "string") }), nil
	case ir.PrimitiveBool:
		return rapid.Custom(func(t *rapid.T) any { return rapid.Bool().Draw(t, "bool") }), nil
	case ir.PrimitiveBytes:
		b := rapid.SliceOfN(rapid.Byte(), 0, c.maxLen)
		return rapid.Custom(func(t *rapid.T) any { return b.Draw(t, "bytes") }), nil
	case ir.PrimitiveComplex:
		return rapid.Custom(func(t *rapid.T) any {
			return complex(rapid.Float64().Draw(t, "real"), rapid.Float64().Draw(t, "imag"))
		}), nil
	case ir.PrimitiveDate:
		return rapid.Custom(func(t *rapid.T) any { return drawDate(t) }), nil
	case ir.PrimitiveTime:
		return rapid.Custom(func(t *rapid.T) any { return drawTime(t) }), nil
	case ir.PrimitiveDateTime:
		return rapid.Custom(func(t *rapid.T) any {
			return civil.DateTime{Date: drawDate(t), Time: drawTime(t)}
		}), nil
	default:
		return nil, fmt.Errorf("generate: unknown primitive %v", k)
	}
}

func drawDate(t *rapid.T) civil.Date {
	year := rapid.IntRange(1, 9999).Draw(t, "year")
	month := time.Month(rapid.IntRange(1, 12).Draw(t, "month"))
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return civil.Date{Year: year, Month: month, Day: rapid.IntRange(1, last).Draw(t, "day")}
}

func drawTime(t *rapid.T) civil.Time {
	return civil.Time{
		Hour:       rapid.IntRange(0, 23).Draw(t, "hour"),
		Minute:     rapid.IntRange(0, 59).Draw(t, "minute"),
		Second:     rapid.IntRange(0, 59).Draw(t, "second"),
		Nanosecond: rapid.IntRange(0, 999_999_999).Draw(t, "nanosecond"),
	}
}
