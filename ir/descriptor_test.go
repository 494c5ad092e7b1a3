package ir

import (
	"net/url"
	"testing"
)

func TestDescriptorKind_String(t *testing.T) {
	tests := []struct {
		kind DescriptorKind
		want string
	}{
		{KindPrimitive, "Primitive"},
		{KindContainer, "Container"},
		{KindMapping, "Mapping"},
		{KindTuple, "Tuple"},
		{KindProduct, "Product"},
		{KindSum, "Sum"},
		{KindNone, "None"},
		{KindLiteral, "Literal"},
		{KindAlias, "Alias"},
		{KindDomain, "DomainSpecific"},
		{KindUnresolved, "Unresolved"},
		{DescriptorKind(999), "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("DescriptorKind.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDescriptor_String(t *testing.T) {
	person := Product("Person", []FieldDescriptor{{Name: "name", Type: String()}}, nil, nil, nil)

	tests := []struct {
		name string
		desc TypeDescriptor
		want string
	}{
		{"primitive", Int(), "int"},
		{"datetime", Primitive(PrimitiveDateTime), "datetime"},
		{"list", List(Int()), "list[int]"},
		{"nested list", List(List(String())), "list[list[string]]"},
		{"frozenset", Container(ContainerFrozenSet, Int()), "frozenset[int]"},
		{"sequence", Container(ContainerSequence, Float()), "Sequence[float]"},
		{"mapping", Mapping(String(), List(Int())), "dict[string, list[int]]"},
		{"tuple", Tuple(Int(), String(), Bool()), "tuple[int, string, bool]"},
		{"optional", Optional(Int()), "Optional[int]"},
		{"union", Sum(Int(), String()), "Union[int, string]"},
		{"union with none", Sum(Int(), String(), None()), "Union[int, string, None]"},
		{"literal", Literal(1, "a", true, nil), `Literal[1, "a", True, None]`},
		{"alias", Alias("UserID", Int()), "UserID"},
		{"product", person, "Person"},
		{"domain", Domain(DomainNDArray, nil), "ndarray"},
		{"domain with hints", Domain(DomainNDArray, url.Values{"dtype": {"int"}}), "ndarray?dtype=int"},
		{"unresolved", Unresolved("T"), "~T"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.desc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHashable(t *testing.T) {
	tests := []struct {
		name string
		desc TypeDescriptor
		want bool
	}{
		{"int", Int(), true},
		{"bytes", Bytes(), false},
		{"literal", Literal("a", "b"), true},
		{"optional string", Optional(String()), true},
		{"optional bytes", Optional(Bytes()), false},
		{"alias of int", Alias("ID", Int()), true},
		{"alias of list", Alias("IDs", List(Int())), false},
		{"tuple", Tuple(Int(), String()), true},
		{"nested tuple", Tuple(Int(), Tuple(Bool(), Optional(Int()))), true},
		{"tuple of lists", Tuple(Int(), List(Int())), false},
		{"frozenset", Container(ContainerFrozenSet, Int()), true},
		{"set", Container(ContainerSet, Int()), false},
		{"tree node", Domain(DomainBinaryTree, nil), true},
		{"ndarray", Domain(DomainNDArray, nil), false},
		{"mapping", Mapping(Int(), Int()), false},
		{"list", List(Int()), false},
		{"type variable", Unresolved("T"), true},
		{"product", Product("P", nil, nil, nil, nil), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hashable(tt.desc); got != tt.want {
				t.Errorf("Hashable(%s) = %v, want %v", tt.desc, got, tt.want)
			}
		})
	}
}

func TestUnalias(t *testing.T) {
	inner := List(Int())
	got := Unalias(Alias("Outer", Alias("Inner", inner)))
	if got != inner {
		t.Errorf("Unalias() = %v, want the innermost descriptor", got)
	}
	if got := Unalias(inner); got != inner {
		t.Errorf("Unalias() on a non-alias should return it unchanged")
	}
}
