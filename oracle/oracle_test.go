package oracle

import (
	"errors"
	"math"
	"net/url"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	. "github.com/onsi/gomega"
	"pgregory.net/rapid"

	"github.com/broady/sigprop/annotation"
	"github.com/broady/sigprop/gen"
	"github.com/broady/sigprop/internal/fixture"
	"github.com/broady/sigprop/ir"
	"github.com/broady/sigprop/resolve"
	"github.com/broady/sigprop/value"
)

func mustOracle(t *testing.T, src string, opts ...Option) *Oracle {
	t.Helper()
	d, err := resolve.New(fixture.Universe()).Resolve(annotation.MustParse(src))
	if err != nil {
		t.Fatalf("resolve %s: %v", src, err)
	}
	o, err := Synthesize(d, opts...)
	if err != nil {
		t.Fatalf("oracle %s: %v", src, err)
	}
	return o
}

func person(t *testing.T, name string, age int) *value.Record {
	t.Helper()
	r, err := value.NewRecord("Person", []string{"name", "age"}, []any{name, age})
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestAccept(t *testing.T) {
	tests := []struct {
		src    string
		accept []any
		reject []any
	}{
		{"int", []any{0, -5, int64(7), uint16(3)}, []any{1.5, "1", true, nil}},
		{"float", []any{1.5, math.Inf(1), float32(2)}, []any{1, "x"}},
		{"str", []any{"", "hello"}, []any{[]byte("x"), 3}},
		{"bool", []any{true, false}, []any{0, "True"}},
		{"bytes", []any{[]byte{1, 2}}, []any{"ab"}},
		{"complex", []any{complex(1, 2)}, []any{1.0}},
		{"date", []any{civil.Date{Year: 2024, Month: 2, Day: 29}}, []any{civil.Date{Year: 2023, Month: 2, Day: 29}, "2024-01-01"}},
		{"datetime", []any{civil.DateTime{Date: civil.Date{Year: 1, Month: 1, Day: 1}}}, []any{civil.Date{Year: 1, Month: 1, Day: 1}}},
		{"None", []any{nil, (*value.Record)(nil)}, []any{0, ""}},
		{"list[int]", []any{[]any{}, []any{1, 2}, []int{3}}, []any{[]any{1, "x"}, value.Tuple{1}, "abc", nil}},
		{"Sequence[int]", []any{[]any{1}, value.Tuple{1, 2}}, []any{[]any{"a"}}},
		{"list[list[int]]", []any{[]any{[]any{1}, []any{}}}, []any{[]any{[]any{1, "x"}}}},
		{"set[int]", []any{value.NewSet(1, 2), map[int]struct{}{4: {}}}, []any{value.NewSet(1, "a"), []any{1}, value.NewFrozenSet(1)}},
		{"frozenset[str]", []any{value.NewFrozenSet("a")}, []any{value.NewSet("a"), value.NewFrozenSet(1)}},
		{"dict[str, int]", []any{map[any]any{"a": 1}, map[string]int{"b": 2}, map[any]any{}}, []any{map[any]any{1: 1}, map[any]any{"a": "b"}, []any{}}},
		{"tuple[int, str]", []any{value.Tuple{1, "a"}, [2]any{2, "b"}}, []any{value.Tuple{1}, value.Tuple{"a", 1}, []any{1, "a"}, nil}},
		{"Union[int, str]", []any{1, "a"}, []any{1.5, nil}},
		{"Optional[int]", []any{nil, 3}, []any{"3", 1.5}},
		{"Literal['a', 'b', 3]", []any{"a", "b", 3, int64(3), uint8(3)}, []any{"c", 4, 3.0, float32(3), []any{"a"}}},
		{"Literal[1.5]", []any{1.5, float32(1.5)}, []any{1, 2.5}},
		{"Literal[None]", []any{nil}, []any{0}},
		{"UserId", []any{7}, []any{"7"}},
		{"T", []any{1}, []any{"x"}},
		{"Any", []any{1, 1.5, "s", true}, []any{nil, []any{}}},
		{"Person", []any{person(t, "ada", 36)}, []any{"ada", &value.Record{Type: "Book"}, (*value.Record)(nil), nil}},
		{"Optional[Person]", []any{nil, (*value.Record)(nil), person(t, "ada", 36)}, []any{"ada", &value.Record{Type: "Book"}}},
		{"dict[tuple[int, int], str]", []any{map[any]any{[2]any{1, 2}: "a"}, map[[2]int]string{{1, 2}: "a"}, map[any]any{}}, []any{map[any]any{[2]any{1, "x"}: "a"}, map[any]any{[3]any{1, 2, 3}: "a"}, map[any]any{[2]any{1, 2}: 3}}},
		{"set[tuple[str, int]]", []any{value.NewSet([2]any{"a", 1}), value.NewSet()}, []any{value.NewSet([2]any{1, "a"})}},
		{"set[Person]", []any{value.NewSet(person(t, "ada", 36))}, []any{value.NewSet(&value.Record{Type: "Book"})}},
		{"set[frozenset[int]]", []any{value.NewSet(value.NewFrozenSet(1, 2), value.NewFrozenSet())}, []any{value.NewSet(value.NewSet(1)), value.NewSet(value.NewFrozenSet("a"))}},
		{"Node", []any{&value.TreeNode{Value: 1}}, []any{(*value.TreeNode)(nil), 1}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			o := mustOracle(t, tt.src)
			for _, v := range tt.accept {
				if err := o.Check(v); err != nil {
					t.Errorf("Check(%#v) = %v, want nil", v, err)
				}
			}
			for _, v := range tt.reject {
				if o.Accept(v) {
					t.Errorf("Accept(%#v) = true, want false", v)
				}
			}
		})
	}
}

func TestAccept_PanickingInstanceCheck(t *testing.T) {
	d := ir.Product("Strict", nil,
		func([]any) (any, error) { return &value.Record{Type: "Strict"}, nil },
		func(v any) bool { return v.(*value.Record).Type == "Strict" },
		func(v any) ([]any, bool) { return v.(*value.Record).Values, true },
	)
	for _, opts := range [][]Option{nil, {WithDeepProducts()}} {
		o, err := Synthesize(d, opts...)
		if err != nil {
			t.Fatal(err)
		}
		for _, v := range []any{"x", 3, (*value.Record)(nil)} {
			if o.Accept(v) {
				t.Errorf("Accept(%#v) = true, want false", v)
			}
		}
		if !o.Accept(&value.Record{Type: "Strict"}) {
			t.Error("Accept rejected a Strict instance")
		}
	}
}

func TestCheck_NestedRejectionPath(t *testing.T) {
	o := mustOracle(t, "list[list[int]]")
	err := o.Check([]any{[]any{1, 2}, []any{3, "x"}})
	var m *MismatchError
	if !errors.As(err, &m) {
		t.Fatalf("err = %v, want MismatchError", err)
	}
	if m.Path != "x1[1][1]" || m.Want != "int" || m.Got != "x" {
		t.Errorf("mismatch = %+v", m)
	}
}

func TestCheck_MappingPaths(t *testing.T) {
	o := mustOracle(t, "dict[str, list[int]]")
	err := o.Check(map[any]any{"k": []any{1, 2.5}})
	var m *MismatchError
	if !errors.As(err, &m) {
		t.Fatalf("err = %v", err)
	}
	if m.Path != `x1["k"][1]` {
		t.Errorf("Path = %q", m.Path)
	}
}

func TestCheck_TupleArity(t *testing.T) {
	err := mustOracle(t, "tuple[int, int]").Check(value.Tuple{1, 2, 3})
	if err == nil || !strings.Contains(err.Error(), "want 2 elements, got 3") {
		t.Errorf("err = %v", err)
	}
}

func TestSumIsUnionOfVariants(t *testing.T) {
	ints := mustOracle(t, "int")
	strs := mustOracle(t, "str")
	sum := mustOracle(t, "Union[int, str]")
	rapid.Check(t, func(rt *rapid.T) {
		v := rapid.OneOf(
			rapid.Custom(func(t *rapid.T) any { return rapid.Int().Draw(t, "int") }),
			rapid.Custom(func(t *rapid.T) any { return rapid.String().Draw(t, "str") }),
			rapid.Custom(func(t *rapid.T) any { return rapid.Float64().Draw(t, "float") }),
			rapid.Custom(func(t *rapid.T) any { return rapid.Bool().Draw(t, "bool") }),
		).Draw(rt, "v")
		want := ints.Accept(v) || strs.Accept(v)
		if got := sum.Accept(v); got != want {
			rt.Fatalf("sum.Accept(%#v) = %v, want %v", v, got, want)
		}
	})
}

func TestOptionalAcceptsNoneAndExactlyT(t *testing.T) {
	opt := mustOracle(t, "Optional[str]")
	base := mustOracle(t, "str")
	rapid.Check(t, func(rt *rapid.T) {
		v := rapid.OneOf(
			rapid.Just[any](nil),
			rapid.Custom(func(t *rapid.T) any { return rapid.String().Draw(t, "str") }),
			rapid.Custom(func(t *rapid.T) any { return rapid.Int().Draw(t, "int") }),
		).Draw(rt, "v")
		want := v == nil || base.Accept(v)
		if got := opt.Accept(v); got != want {
			rt.Fatalf("Accept(%#v) = %v, want %v", v, got, want)
		}
	})
}

func TestLiteralMembership(t *testing.T) {
	o := mustOracle(t, "Literal['red', 'green', 7]")
	rapid.Check(t, func(rt *rapid.T) {
		v := rapid.SampledFrom([]any{"red", "green", "blue", 7, 8, "7"}).Draw(rt, "v")
		want := v == "red" || v == "green" || v == 7
		if got := o.Accept(v); got != want {
			rt.Fatalf("Accept(%#v) = %v, want %v", v, got, want)
		}
	})
}

func TestGeneratedValuesAreAccepted(t *testing.T) {
	srcs := []string{
		"int", "float", "str", "bool", "bytes", "complex", "date", "time", "datetime",
		"None", "Any", "T", "UserId",
		"list[int]", "Sequence[str]", "set[int]", "frozenset[str]", "set[Optional[int]]",
		"dict[str, list[float]]", "tuple[int, str, bool]",
		"dict[tuple[int, int], str]", "set[tuple[str, int]]", "set[Person]",
		"set[frozenset[int]]", "dict[tuple[str, tuple[int, bool]], int]", "Optional[Person]",
		"Union[int, str, None]", "Literal['a', 2, True]",
		"Person", "list[Person]", "dict[int, Book]", "Counter",
		"Node", "array.array[float]", "numpy.ndarray[int]",
	}
	for _, src := range srcs {
		t.Run(src, func(t *testing.T) {
			d, err := resolve.New(fixture.Universe()).Resolve(annotation.MustParse(src))
			if err != nil {
				t.Fatal(err)
			}
			g, err := gen.Synthesize(d, gen.WithMaxLen(4))
			if err != nil {
				t.Fatal(err)
			}
			o, err := Synthesize(d, WithDeepProducts(), WithDeepDomains())
			if err != nil {
				t.Fatal(err)
			}
			rapid.Check(t, func(rt *rapid.T) {
				v := g.Draw(rt, "v")
				if err := o.Check(v); err != nil {
					rt.Fatalf("generated value rejected: %v", err)
				}
			})
		})
	}
}

func TestPolicy_Products(t *testing.T) {
	bad, err := value.NewRecord("Person", []string{"name", "age"}, []any{"ada", "old"})
	if err != nil {
		t.Fatal(err)
	}
	if err := mustOracle(t, "Person").Check(bad); err != nil {
		t.Errorf("shallow: %v", err)
	}
	err = mustOracle(t, "Person", WithDeepProducts()).Check(bad)
	var m *MismatchError
	if !errors.As(err, &m) || m.Path != "x1.age" {
		t.Errorf("deep: err = %v, want mismatch at x1.age", err)
	}
}

func TestPolicy_DeepProductNeedsUnpacker(t *testing.T) {
	p := ir.Product("Opaque", nil, func([]any) (any, error) { return 1, nil }, func(any) bool { return true }, nil)
	if _, err := Synthesize(p); err != nil {
		t.Errorf("shallow: %v", err)
	}
	if _, err := Synthesize(p, WithDeepProducts()); err == nil {
		t.Error("deep without unpacker succeeded")
	}
}

func TestPolicy_Domains(t *testing.T) {
	d := ir.Domain(ir.DomainArray, url.Values{"typecode": {"i"}})
	b := &value.Buffer{Code: "i", Shape: []int{1}, Data: []any{"x"}}
	shallow, err := Synthesize(d)
	if err != nil {
		t.Fatal(err)
	}
	if !shallow.Accept(b) {
		t.Error("shallow rejected")
	}
	deep, err := Synthesize(d, WithPolicy(Policy{DeepDomains: true}))
	if err != nil {
		t.Fatal(err)
	}
	if deep.Accept(b) {
		t.Error("deep accepted")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"int", "lambda x1: isinstance(x1, int)"},
		{"list[int]", "lambda x1: isinstance(x1, list) and all(isinstance(x2, int) for x2 in x1)"},
		{"list[list[str]]", "lambda x1: isinstance(x1, list) and all(isinstance(x2, list) and all(isinstance(x3, str) for x3 in x2) for x2 in x1)"},
		{"Optional[int]", "lambda x1: (isinstance(x1, int) or x1 is None)"},
		{"Literal['a']", `lambda x1: x1 in ("a",)`},
		{"tuple[int, str]", "lambda x1: isinstance(x1, tuple) and len(x1) == 2 and isinstance(x1[0], int) and isinstance(x1[1], str)"},
		{"dict[str, int]", "lambda x1: isinstance(x1, dict) and all(isinstance(x2, str) and isinstance(x1[x2], int) for x2 in x1)"},
		{"Person", "lambda x1: isinstance(x1, Person)"},
	}
	for _, tt := range tests {
		if got := mustOracle(t, tt.src).String(); got != tt.want {
			t.Errorf("%s:\n got %s\nwant %s", tt.src, got, tt.want)
		}
	}
	if got := None().String(); got != "lambda x1: True" {
		t.Errorf("None() = %s", got)
	}
}

func TestNone(t *testing.T) {
	o := None()
	for _, v := range []any{nil, 1, "x", []any{}} {
		if !o.Accept(v) {
			t.Errorf("None().Accept(%#v) = false", v)
		}
	}
	if o.Descriptor() != nil {
		t.Error("None().Descriptor() != nil")
	}
}

func TestGomegaMatcher(t *testing.T) {
	g := NewWithT(t)
	o := mustOracle(t, "list[int]")

	g.Expect([]any{1, 2}).To(o)
	g.Expect([]any{"a"}).NotTo(o)

	msg := o.FailureMessage([]any{1, "a"})
	g.Expect(msg).To(ContainSubstring("to satisfy"))
	g.Expect(msg).To(ContainSubstring("x1[1]: want int"))
	g.Expect(o.NegatedFailureMessage([]any{1})).To(ContainSubstring("not to satisfy"))
}
