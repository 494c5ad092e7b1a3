package ir

import (
	"net/url"
	"testing"
)

func TestSum_FlattensAndDedupes(t *testing.T) {
	s := Sum(Int(), Sum(String(), Int()), None(), Sum(None()))
	if len(s.Variants) != 3 {
		t.Fatalf("len(Variants) = %d, want 3: %v", len(s.Variants), s)
	}
	want := []string{"int", "string", "None"}
	for i, v := range s.Variants {
		if v.String() != want[i] {
			t.Errorf("Variants[%d] = %s, want %s", i, v, want[i])
		}
	}
}

func TestSum_OptionalOf(t *testing.T) {
	inner, ok := Optional(List(Int())).OptionalOf()
	if !ok {
		t.Fatal("OptionalOf() should report an optional")
	}
	if inner.String() != "list[int]" {
		t.Errorf("OptionalOf() inner = %s, want list[int]", inner)
	}

	// None first is still optional
	if _, ok := Sum(None(), Int()).OptionalOf(); !ok {
		t.Error("Sum(None, int) should be optional")
	}
	if _, ok := Sum(Int(), String()).OptionalOf(); ok {
		t.Error("Sum(int, string) should not be optional")
	}
	if _, ok := Sum(Int(), String(), None()).OptionalOf(); ok {
		t.Error("three-variant sum should not render as optional")
	}
}

func TestLiteral_DedupesAndContains(t *testing.T) {
	lit := Literal(1, 2, 1, "x")
	if len(lit.Values) != 3 {
		t.Errorf("len(Values) = %d, want 3", len(lit.Values))
	}
	if !lit.Contains(2) || !lit.Contains("x") {
		t.Error("Contains() should find declared values")
	}
	if lit.Contains(3) || lit.Contains("1") {
		t.Error("Contains() should reject undeclared values")
	}
}

func TestConstructors_CopyInputs(t *testing.T) {
	elems := []TypeDescriptor{Int(), String()}
	tup := Tuple(elems...)
	elems[0] = Bool()
	if tup.Elements[0].String() != "int" {
		t.Error("Tuple() should copy its elements")
	}

	fields := []FieldDescriptor{{Name: "a", Type: Int()}}
	p := Product("P", fields, nil, nil, nil)
	fields[0].Name = "mutated"
	if p.Fields[0].Name != "a" {
		t.Error("Product() should copy its fields")
	}

	hints := url.Values{"dtype": {"int"}}
	d := Domain(DomainArray, hints)
	hints["dtype"][0] = "float"
	if d.Hints.Get("dtype") != "int" {
		t.Error("Domain() should copy its hints")
	}
}

func TestUnresolved_Fallback(t *testing.T) {
	if got := Unresolved("T").Fallback(); got.PrimitiveKind != PrimitiveInt {
		t.Errorf("Fallback() = %s, want int", got)
	}
}
