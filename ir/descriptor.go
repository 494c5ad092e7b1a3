// Package ir defines the type descriptors the compiler works on.
// A descriptor is the resolved, finite shape of a declared type; generators and
// oracles are synthesized from descriptors, never from raw annotations.
//
// Descriptors are immutable once constructed. Constructors copy the slices and
// maps they are given, and nothing in this module mutates a descriptor after it
// has been returned.
package ir

// DescriptorKind identifies the category of a type descriptor.
type DescriptorKind int

const (
	KindPrimitive  DescriptorKind = iota // int, float, string, ...
	KindContainer                        // list[T], set[T], frozenset[T], Sequence[T]
	KindMapping                          // dict[K, V]
	KindTuple                            // tuple[A, B, ...]
	KindProduct                          // user-defined record built by a constructor
	KindSum                              // Union[A, B, ...]
	KindNone                             // the none marker inside sums
	KindLiteral                          // Literal[a, b, ...]
	KindAlias                            // NewType("Name", T)
	KindDomain                           // externally defined fixed shapes
	KindUnresolved                       // unbound type variable
)

// String returns the string representation of the descriptor kind.
func (k DescriptorKind) String() string {
	switch k {
	case KindPrimitive:
		return "Primitive"
	case KindContainer:
		return "Container"
	case KindMapping:
		return "Mapping"
	case KindTuple:
		return "Tuple"
	case KindProduct:
		return "Product"
	case KindSum:
		return "Sum"
	case KindNone:
		return "None"
	case KindLiteral:
		return "Literal"
	case KindAlias:
		return "Alias"
	case KindDomain:
		return "DomainSpecific"
	case KindUnresolved:
		return "Unresolved"
	default:
		return "Unknown"
	}
}

// TypeDescriptor is the base interface for all type descriptors.
type TypeDescriptor interface {
	// Kind returns the descriptor kind for type switching.
	Kind() DescriptorKind

	// String renders the descriptor in annotation syntax, e.g. "dict[string, list[int]]".
	String() string

	// Ensure only types in this package can implement TypeDescriptor.
	sealed()
}

// Hashable reports whether values of d can be set elements or mapping keys.
// Generated values of hashable shapes are comparable Go values: tuples become
// fixed-size arrays in those positions (see value.Key), while products,
// frozensets and tree nodes compare by reference.
func Hashable(d TypeDescriptor) bool {
	switch d := d.(type) {
	case *PrimitiveDescriptor:
		return d.PrimitiveKind != PrimitiveBytes
	case *LiteralDescriptor, *NoneDescriptor, *UnresolvedDescriptor, *ProductDescriptor:
		return true
	case *AliasDescriptor:
		return Hashable(d.Underlying)
	case *ContainerDescriptor:
		return d.ContainerKind == ContainerFrozenSet
	case *DomainDescriptor:
		return d.Tag == DomainBinaryTree
	case *TupleDescriptor:
		return allHashable(d.Elements)
	case *SumDescriptor:
		return allHashable(d.Variants)
	default:
		return false
	}
}

func allHashable(ds []TypeDescriptor) bool {
	for _, d := range ds {
		if !Hashable(d) {
			return false
		}
	}
	return true
}
