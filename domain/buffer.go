package domain

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"pgregory.net/rapid"

	"github.com/broady/sigprop/ir"
	"github.com/broady/sigprop/value"
)

type arrayShape struct {
	hints ArrayHints
}

func (s *arrayShape) Tag() string { return ir.DomainArray }

func (s *arrayShape) Generator() *rapid.Generator[any] {
	elem := element(s.hints.Typecode)
	return rapid.Custom(func(t *rapid.T) any {
		data := rapid.SliceOfN(elem, 0, s.hints.MaxLen).Draw(t, "data")
		return &value.Buffer{Code: s.hints.Typecode, Shape: []int{len(data)}, Data: data}
	})
}

func (s *arrayShape) Check(v any, deep bool) error {
	b, err := buffer(v, s.hints.Typecode)
	if err != nil {
		return err
	}
	if len(b.Shape) != 1 {
		return fmt.Errorf("want a one-dimensional array, got shape %v", b.Shape)
	}
	if !deep {
		return nil
	}
	return checkData(b)
}

func (s *arrayShape) Describe(x string) string {
	return fmt.Sprintf("isinstance(%s, array) and %s.typecode == '%s'", x, x, s.hints.Typecode)
}

type ndarrayShape struct {
	hints NDArrayHints
}

func (s *ndarrayShape) Tag() string { return ir.DomainNDArray }

func (s *ndarrayShape) Generator() *rapid.Generator[any] {
	elem := element(s.hints.DType)
	n := (&value.Buffer{Shape: s.hints.Shape}).Len()
	return rapid.Custom(func(t *rapid.T) any {
		data := rapid.SliceOfN(elem, n, n).Draw(t, "data")
		return &value.Buffer{Code: s.hints.DType, Shape: slices.Clone(s.hints.Shape), Data: data}
	})
}

func (s *ndarrayShape) Check(v any, deep bool) error {
	b, err := buffer(v, s.hints.DType)
	if err != nil {
		return err
	}
	if !slices.Equal(b.Shape, s.hints.Shape) {
		return fmt.Errorf("want shape %v, got %v", s.hints.Shape, b.Shape)
	}
	if !deep {
		return nil
	}
	return checkData(b)
}

func (s *ndarrayShape) Describe(x string) string {
	dims := make([]string, len(s.hints.Shape))
	for i, d := range s.hints.Shape {
		dims[i] = fmt.Sprint(d)
	}
	shape := strings.Join(dims, ", ")
	if len(dims) == 1 {
		shape += ","
	}
	return fmt.Sprintf("isinstance(%s, ndarray) and %s.dtype == %s and %s.shape == (%s)", x, x, s.hints.DType, x, shape)
}

func buffer(v any, code string) (*value.Buffer, error) {
	b, ok := v.(*value.Buffer)
	if !ok || b == nil {
		return nil, fmt.Errorf("want buffer, got %T", v)
	}
	if b.Code != code {
		return nil, fmt.Errorf("want element type %q, got %q", code, b.Code)
	}
	return b, nil
}

func checkData(b *value.Buffer) error {
	if len(b.Data) != b.Len() {
		return fmt.Errorf("shape %v calls for %d elements, got %d", b.Shape, b.Len(), len(b.Data))
	}
	for i, e := range b.Data {
		if !conforms(b.Code, e) {
			return fmt.Errorf("[%d]: %v is not a %q element", i, e, b.Code)
		}
	}
	return nil
}

// element returns the generator for one element of the given typecode or dtype.
func element(code string) *rapid.Generator[any] {
	switch code {
	case "i", "int":
		return rapid.Custom(func(t *rapid.T) any { return int(rapid.Int32().Draw(t, "i")) })
	case "f":
		return rapid.Custom(func(t *rapid.T) any { return float64(rapid.Float32().Draw(t, "f")) })
	case "u":
		return rapid.Custom(func(t *rapid.T) any { return string(rapid.Rune().Draw(t, "u")) })
	case "c", "complex":
		return rapid.Custom(func(t *rapid.T) any {
			return complex(rapid.Float64().Draw(t, "re"), rapid.Float64().Draw(t, "im"))
		})
	default:
		return rapid.Custom(func(t *rapid.T) any { return rapid.Float64().Draw(t, "d") })
	}
}

func conforms(code string, e any) bool {
	switch code {
	case "i", "int":
		n, ok := e.(int)
		return ok && n >= math.MinInt32 && n <= math.MaxInt32
	case "u":
		s, ok := e.(string)
		return ok && utf8.RuneCountInString(s) == 1
	case "c", "complex":
		_, ok := e.(complex128)
		return ok
	default:
		_, ok := e.(float64)
		return ok
	}
}
