package domain

import (
	"net/url"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/broady/sigprop/ir"
	"github.com/broady/sigprop/value"
)

func TestDecodeHints_Defaults(t *testing.T) {
	tree, err := DecodeHints(ir.DomainBinaryTree, nil)
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	if got := tree.(*treeShape).hints.Depth; got != 1 {
		t.Errorf("tree depth = %d, want 1", got)
	}

	arr, err := DecodeHints(ir.DomainArray, nil)
	if err != nil {
		t.Fatalf("array: %v", err)
	}
	if got := arr.(*arrayShape).hints.Typecode; got != "i" {
		t.Errorf("array typecode = %q, want i", got)
	}

	nd, err := DecodeHints(ir.DomainNDArray, nil)
	if err != nil {
		t.Fatalf("ndarray: %v", err)
	}
	h := nd.(*ndarrayShape).hints
	if h.DType != "float" || len(h.Shape) != 2 || h.Shape[0] != 3 || h.Shape[1] != 3 {
		t.Errorf("ndarray hints = %+v, want float 3x3", h)
	}
}

func TestDecodeHints_Explicit(t *testing.T) {
	nd, err := DecodeHints(ir.DomainNDArray, url.Values{"dtype": {"int"}, "shape": {"2", "4"}})
	if err != nil {
		t.Fatal(err)
	}
	h := nd.(*ndarrayShape).hints
	if h.DType != "int" || len(h.Shape) != 2 || h.Shape[0] != 2 || h.Shape[1] != 4 {
		t.Errorf("hints = %+v", h)
	}
}

func TestDecodeHints_Errors(t *testing.T) {
	tests := []struct {
		name  string
		tag   string
		hints url.Values
	}{
		{"unknown tag", "matrix", nil},
		{"unknown key", ir.DomainArray, url.Values{"color": {"red"}}},
		{"bad typecode", ir.DomainArray, url.Values{"typecode": {"q"}}},
		{"not a number", ir.DomainBinaryTree, url.Values{"depth": {"deep"}}},
		{"depth too large", ir.DomainBinaryTree, url.Values{"depth": {"99"}}},
		{"bad dtype", ir.DomainNDArray, url.Values{"dtype": {"object"}}},
		{"zero dimension", ir.DomainNDArray, url.Values{"shape": {"0"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeHints(tt.tag, tt.hints); err == nil {
				t.Errorf("DecodeHints(%q, %v) succeeded, want error", tt.tag, tt.hints)
			}
		})
	}
}

func TestGeneratedValuesConform(t *testing.T) {
	shapes := []*ir.DomainDescriptor{
		ir.Domain(ir.DomainBinaryTree, nil),
		ir.Domain(ir.DomainBinaryTree, url.Values{"depth": {"3"}}),
		ir.Domain(ir.DomainArray, nil),
		ir.Domain(ir.DomainArray, url.Values{"typecode": {"f"}}),
		ir.Domain(ir.DomainArray, url.Values{"typecode": {"u"}}),
		ir.Domain(ir.DomainArray, url.Values{"typecode": {"c"}}),
		ir.Domain(ir.DomainNDArray, nil),
		ir.Domain(ir.DomainNDArray, url.Values{"dtype": {"int"}, "shape": {"4"}}),
	}
	for _, d := range shapes {
		t.Run(d.String(), func(t *testing.T) {
			s, err := Decode(d)
			if err != nil {
				t.Fatal(err)
			}
			g := s.Generator()
			rapid.Check(t, func(rt *rapid.T) {
				v := g.Draw(rt, "v")
				if err := s.Check(v, true); err != nil {
					rt.Fatalf("generated %v rejected: %v", v, err)
				}
			})
		})
	}
}

func TestTreeDepthBounded(t *testing.T) {
	s, err := DecodeHints(ir.DomainBinaryTree, url.Values{"depth": {"2"}})
	if err != nil {
		t.Fatal(err)
	}
	g := s.Generator()
	rapid.Check(t, func(rt *rapid.T) {
		n := g.Draw(rt, "tree").(*value.TreeNode)
		if d := n.Depth(); d > 3 {
			rt.Fatalf("depth %d exceeds 3 levels", d)
		}
	})
}

func TestCheck_Rejects(t *testing.T) {
	tree, _ := DecodeHints(ir.DomainBinaryTree, nil)
	arr, _ := DecodeHints(ir.DomainArray, nil)
	nd, _ := DecodeHints(ir.DomainNDArray, nil)

	shared := &value.TreeNode{Value: 1}
	diamond := &value.TreeNode{Value: 0, Left: shared, Right: shared}

	tests := []struct {
		name  string
		shape Shape
		v     any
		deep  bool
	}{
		{"tree nil", tree, (*value.TreeNode)(nil), false},
		{"tree wrong type", tree, 3, false},
		{"tree shared node", tree, diamond, true},
		{"array wrong code", arr, &value.Buffer{Code: "d", Shape: []int{0}}, false},
		{"array two dims", arr, &value.Buffer{Code: "i", Shape: []int{1, 1}, Data: []any{1}}, false},
		{"array bad element", arr, &value.Buffer{Code: "i", Shape: []int{1}, Data: []any{"x"}}, true},
		{"array short data", arr, &value.Buffer{Code: "i", Shape: []int{2}, Data: []any{1}}, true},
		{"ndarray wrong shape", nd, &value.Buffer{Code: "float", Shape: []int{2, 2}}, false},
		{"ndarray bad element", nd, &value.Buffer{Code: "float", Shape: []int{3, 3}, Data: []any{1, 2, 3, 4, 5, 6, 7, 8, 9}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.shape.Check(tt.v, tt.deep); err == nil {
				t.Errorf("Check(%v) succeeded, want error", tt.v)
			}
		})
	}
}

func TestCheck_ShallowSkipsElements(t *testing.T) {
	arr, _ := DecodeHints(ir.DomainArray, nil)
	b := &value.Buffer{Code: "i", Shape: []int{1}, Data: []any{"x"}}
	if err := arr.Check(b, false); err != nil {
		t.Errorf("shallow Check: %v", err)
	}
	if err := arr.Check(b, true); err == nil {
		t.Error("deep Check succeeded, want error")
	}
}

func TestDescribe(t *testing.T) {
	nd, _ := DecodeHints(ir.DomainNDArray, url.Values{"shape": {"5"}})
	got := nd.Describe("x1")
	if !strings.Contains(got, "x1.shape == (5,)") {
		t.Errorf("Describe = %q", got)
	}
	arr, _ := DecodeHints(ir.DomainArray, url.Values{"typecode": {"d"}})
	if got, want := arr.Describe("x"), "isinstance(x, array) and x.typecode == 'd'"; got != want {
		t.Errorf("Describe = %q, want %q", got, want)
	}
}

func TestTypecodeAndDType(t *testing.T) {
	if got := TypecodeFor(ir.PrimitiveFloat); got != "f" {
		t.Errorf("TypecodeFor(float) = %q", got)
	}
	if got := TypecodeFor(ir.PrimitiveBool); got != "i" {
		t.Errorf("TypecodeFor(bool) = %q", got)
	}
	if got := DTypeFor(ir.PrimitiveInt); got != "int" {
		t.Errorf("DTypeFor(int) = %q", got)
	}
	if got := DTypeFor(ir.PrimitiveString); got != "float" {
		t.Errorf("DTypeFor(string) = %q", got)
	}
}
