package annotation

import (
	"testing"

	"github.com/broady/sigprop/value"
)

func TestUniverse_Declare(t *testing.T) {
	u, err := NewUniverse(
		RecordClass("Person", Param{Name: "name", Type: N("str")}),
		&NewType{Name: "UserID", Base: N("int")},
		&TypeVar{Name: "T"},
	)
	if err != nil {
		t.Fatalf("NewUniverse() error = %v", err)
	}

	if _, ok := u.Lookup("Person"); !ok {
		t.Error("Lookup(Person) should succeed")
	}
	if _, ok := u.Lookup("Missing"); ok {
		t.Error("Lookup(Missing) should fail")
	}

	got := u.Names()
	want := []string{"Person", "T", "UserID"}
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestUniverse_DeclareErrors(t *testing.T) {
	u, _ := NewUniverse()

	if err := u.Declare(&TypeVar{Name: "int"}); err == nil {
		t.Error("declaring a builtin name should fail")
	}
	if err := u.Declare(&TypeVar{}); err == nil {
		t.Error("declaring an empty name should fail")
	}
	if err := u.Declare(&TypeVar{Name: "T"}); err != nil {
		t.Fatalf("Declare(T) error = %v", err)
	}
	if err := u.Declare(&NewType{Name: "T", Base: N("int")}); err == nil {
		t.Error("duplicate declaration should fail")
	}
}

func TestUniverse_NilLookup(t *testing.T) {
	var u *Universe
	if _, ok := u.Lookup("x"); ok {
		t.Error("nil universe should have no declarations")
	}
	if u.Names() != nil {
		t.Error("nil universe should have no names")
	}
}

func TestRecordClass(t *testing.T) {
	c := RecordClass("Point", Param{Name: "x", Type: N("float")}, Param{Name: "y", Type: N("float")})

	v, err := c.New([]any{1.0, 2.0})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !c.Is(v) {
		t.Error("Is() should accept a constructed instance")
	}
	fields, ok := c.Unpack(v)
	if !ok || len(fields) != 2 || fields[1] != 2.0 {
		t.Errorf("Unpack() = %v, %v", fields, ok)
	}

	other, _ := value.NewRecord("Other", []string{"x"}, []any{1.0})
	if c.Is(other) {
		t.Error("Is() should reject records of another class")
	}
	if _, ok := c.Unpack("nope"); ok {
		t.Error("Unpack() should reject non-records")
	}
	var nilRecord *value.Record
	if c.Is(nilRecord) {
		t.Error("Is() should reject a nil record")
	}
	if _, ok := c.Unpack(nilRecord); ok {
		t.Error("Unpack() should reject a nil record")
	}
	if _, err := c.New([]any{1.0}); err == nil {
		t.Error("New() with the wrong arity should fail")
	}
}

func TestSignature_QualifiedName(t *testing.T) {
	if got := (Signature{Name: "add"}).QualifiedName(); got != "add" {
		t.Errorf("QualifiedName() = %q", got)
	}
	if got := (Signature{Name: "next", Owner: "Counter"}).QualifiedName(); got != "Counter.next" {
		t.Errorf("QualifiedName() = %q", got)
	}
}
