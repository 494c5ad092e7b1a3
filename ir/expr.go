package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// ContainerKind identifies the collection flavor of a ContainerDescriptor.
type ContainerKind int

const (
	ContainerList ContainerKind = iota
	ContainerSet
	ContainerFrozenSet
	ContainerSequence // read-only view; accepts lists and tuples
)

// String returns the annotation spelling of the container kind.
func (k ContainerKind) String() string {
	switch k {
	case ContainerList:
		return "list"
	case ContainerSet:
		return "set"
	case ContainerFrozenSet:
		return "frozenset"
	case ContainerSequence:
		return "Sequence"
	default:
		return "unknown"
	}
}

// ContainerDescriptor represents a variable-length homogeneous collection.
type ContainerDescriptor struct {
	ContainerKind ContainerKind

	// Element is the element type.
	Element TypeDescriptor
}

// Kind returns KindContainer.
func (d *ContainerDescriptor) Kind() DescriptorKind { return KindContainer }

func (d *ContainerDescriptor) String() string {
	return d.ContainerKind.String() + "[" + d.Element.String() + "]"
}

func (*ContainerDescriptor) sealed() {}

// Container returns a ContainerDescriptor of the given kind.
func Container(kind ContainerKind, element TypeDescriptor) *ContainerDescriptor {
	return &ContainerDescriptor{ContainerKind: kind, Element: element}
}

// List returns a ContainerDescriptor for list[element].
func List(element TypeDescriptor) *ContainerDescriptor {
	return Container(ContainerList, element)
}

// MappingDescriptor represents a key-value mapping with unique keys.
type MappingDescriptor struct {
	Key   TypeDescriptor
	Value TypeDescriptor
}

// Kind returns KindMapping.
func (d *MappingDescriptor) Kind() DescriptorKind { return KindMapping }

func (d *MappingDescriptor) String() string {
	return "dict[" + d.Key.String() + ", " + d.Value.String() + "]"
}

func (*MappingDescriptor) sealed() {}

// Mapping returns a MappingDescriptor.
func Mapping(key, value TypeDescriptor) *MappingDescriptor {
	return &MappingDescriptor{Key: key, Value: value}
}

// TupleDescriptor represents a fixed-arity, position-significant product.
type TupleDescriptor struct {
	Elements []TypeDescriptor
}

// Kind returns KindTuple.
func (d *TupleDescriptor) Kind() DescriptorKind { return KindTuple }

func (d *TupleDescriptor) String() string {
	return "tuple[" + joinDescriptors(d.Elements) + "]"
}

func (*TupleDescriptor) sealed() {}

// Tuple returns a TupleDescriptor with the given positions.
func Tuple(elements ...TypeDescriptor) *TupleDescriptor {
	return &TupleDescriptor{Elements: append([]TypeDescriptor(nil), elements...)}
}

// NoneDescriptor is the none marker. It appears as a Sum variant and as the
// return type of callables declared to return nothing.
type NoneDescriptor struct{}

// Kind returns KindNone.
func (d *NoneDescriptor) Kind() DescriptorKind { return KindNone }

func (d *NoneDescriptor) String() string { return "None" }

func (*NoneDescriptor) sealed() {}

// None returns the none marker.
func None() *NoneDescriptor { return &NoneDescriptor{} }

// SumDescriptor represents a union. A value conforms if it conforms to any variant.
type SumDescriptor struct {
	// Variants are deduplicated by their rendering and never nested sums.
	Variants []TypeDescriptor
}

// Kind returns KindSum.
func (d *SumDescriptor) Kind() DescriptorKind { return KindSum }

func (d *SumDescriptor) String() string {
	if inner, ok := d.OptionalOf(); ok {
		return "Optional[" + inner.String() + "]"
	}
	return "Union[" + joinDescriptors(d.Variants) + "]"
}

func (*SumDescriptor) sealed() {}

// OptionalOf reports whether d is exactly Optional(T) and returns T.
func (d *SumDescriptor) OptionalOf() (TypeDescriptor, bool) {
	if len(d.Variants) != 2 {
		return nil, false
	}
	switch {
	case d.Variants[1].Kind() == KindNone:
		return d.Variants[0], true
	case d.Variants[0].Kind() == KindNone:
		return d.Variants[1], true
	}
	return nil, false
}

// Sum returns a SumDescriptor. Nested sums are flattened and duplicate variants
// dropped, keeping first-seen order.
func Sum(variants ...TypeDescriptor) *SumDescriptor {
	seen := make(map[string]bool, len(variants))
	var flat []TypeDescriptor
	var add func(v TypeDescriptor)
	add = func(v TypeDescriptor) {
		if s, ok := v.(*SumDescriptor); ok {
			for _, inner := range s.Variants {
				add(inner)
			}
			return
		}
		key := v.String()
		if seen[key] {
			return
		}
		seen[key] = true
		flat = append(flat, v)
	}
	for _, v := range variants {
		add(v)
	}
	return &SumDescriptor{Variants: flat}
}

// Optional returns Sum(t, None).
func Optional(t TypeDescriptor) *SumDescriptor {
	return Sum(t, None())
}

// LiteralDescriptor represents an enumerated set of constants.
type LiteralDescriptor struct {
	// Values are comparable constants: int, float64, string, bool or nil.
	Values []any
}

// Kind returns KindLiteral.
func (d *LiteralDescriptor) Kind() DescriptorKind { return KindLiteral }

func (d *LiteralDescriptor) String() string {
	parts := make([]string, len(d.Values))
	for i, v := range d.Values {
		parts[i] = FormatConst(v)
	}
	return "Literal[" + strings.Join(parts, ", ") + "]"
}

func (*LiteralDescriptor) sealed() {}

// Contains reports whether v is one of the literal values.
func (d *LiteralDescriptor) Contains(v any) bool {
	for _, lit := range d.Values {
		if lit == v {
			return true
		}
	}
	return false
}

// Literal returns a LiteralDescriptor. Duplicate values are dropped.
func Literal(values ...any) *LiteralDescriptor {
	var out []any
	for _, v := range values {
		dup := false
		for _, o := range out {
			if o == v {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, v)
		}
	}
	return &LiteralDescriptor{Values: out}
}

// UnresolvedDescriptor represents an unbound type variable. Generators and
// oracles treat it as the fallback primitive.
type UnresolvedDescriptor struct {
	// Name is the type variable name, e.g. "T".
	Name string
}

// Kind returns KindUnresolved.
func (d *UnresolvedDescriptor) Kind() DescriptorKind { return KindUnresolved }

func (d *UnresolvedDescriptor) String() string { return "~" + d.Name }

func (*UnresolvedDescriptor) sealed() {}

// Fallback returns the primitive used in place of the type variable.
func (d *UnresolvedDescriptor) Fallback() *PrimitiveDescriptor { return Int() }

// Unresolved returns an UnresolvedDescriptor for the named type variable.
func Unresolved(name string) *UnresolvedDescriptor {
	return &UnresolvedDescriptor{Name: name}
}

// FormatConst renders a literal constant in annotation syntax.
func FormatConst(v any) string {
	switch v := v.(type) {
	case nil:
		return "None"
	case string:
		return strconv.Quote(v)
	case bool:
		if v {
			return "True"
		}
		return "False"
	default:
		return fmt.Sprint(v)
	}
}

func joinDescriptors(ds []TypeDescriptor) string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = d.String()
	}
	return strings.Join(parts, ", ")
}
