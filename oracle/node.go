package oracle

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"cloud.google.com/go/civil"
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/broady/sigprop/domain"
	"github.com/broady/sigprop/ir"
	"github.com/broady/sigprop/value"
)

// node is one level of a synthesized check.
type node interface {
	// check validates v, found at path at.
	check(v any, at string) error

	// describe renders the predicate for the expression x. level is the
	// nesting depth of x; comprehensions bind x<level+1>.
	describe(x string, level int) string
}

func build(d ir.TypeDescriptor, p Policy) (node, error) {
	switch d := d.(type) {
	case *ir.PrimitiveDescriptor:
		return primitiveNode{kind: d.PrimitiveKind}, nil
	case *ir.ContainerDescriptor:
		elem, err := build(d.Element, p)
		if err != nil {
			return nil, err
		}
		return containerNode{kind: d.ContainerKind, elem: elem}, nil
	case *ir.MappingDescriptor:
		key, err := build(d.Key, p)
		if err != nil {
			return nil, err
		}
		val, err := build(d.Value, p)
		if err != nil {
			return nil, err
		}
		return mappingNode{key: key, val: val}, nil
	case *ir.TupleDescriptor:
		elems := make([]node, len(d.Elements))
		for i, e := range d.Elements {
			n, err := build(e, p)
			if err != nil {
				return nil, err
			}
			elems[i] = n
		}
		return tupleNode{elems: elems}, nil
	case *ir.ProductDescriptor:
		if d.Is == nil {
			return nil, fmt.Errorf("oracle for %s: no instance check", d)
		}
		pn := productNode{desc: d}
		if p.DeepProducts {
			if d.Unpack == nil {
				return nil, fmt.Errorf("oracle for %s: deep validation needs an unpacker", d)
			}
			pn.fields = make([]node, len(d.Fields))
			for i, f := range d.Fields {
				n, err := build(f.Type, p)
				if err != nil {
					return nil, err
				}
				pn.fields[i] = n
			}
		}
		return pn, nil
	case *ir.SumDescriptor:
		variants := make([]node, len(d.Variants))
		for i, v := range d.Variants {
			n, err := build(v, p)
			if err != nil {
				return nil, err
			}
			variants[i] = n
		}
		return sumNode{want: d.String(), variants: variants}, nil
	case *ir.NoneDescriptor:
		return noneNode{}, nil
	case *ir.LiteralDescriptor:
		return literalNode{desc: d}, nil
	case *ir.AliasDescriptor:
		return build(d.Underlying, p)
	case *ir.DomainDescriptor:
		s, err := domain.Decode(d)
		if err != nil {
			return nil, fmt.Errorf("oracle for %s: %w", d, err)
		}
		return domainNode{shape: s, deep: p.DeepDomains}, nil
	case *ir.UnresolvedDescriptor:
		return primitiveNode{kind: d.Fallback().PrimitiveKind}, nil
	default:
		return nil, fmt.Errorf("oracle: unknown descriptor %T", d)
	}
}

func bound(level int) string { return fmt.Sprintf("x%d", level+1) }

type anyNode struct{}

func (anyNode) check(any, string) error { return nil }

func (anyNode) describe(string, int) string { return "True" }

type noneNode struct{}

func (noneNode) check(v any, at string) error {
	if isNone(v) {
		return nil
	}
	return mismatch(at, "None", v)
}

func (noneNode) describe(x string, _ int) string { return x + " is None" }

// isNone reports whether v is untyped nil or a nil pointer.
func isNone(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

type primitiveNode struct {
	kind ir.PrimitiveKind
}

// classNames are the runtime class names used in rendered predicates.
var classNames = map[ir.PrimitiveKind]string{
	ir.PrimitiveInt:      "int",
	ir.PrimitiveFloat:    "float",
	ir.PrimitiveString:   "str",
	ir.PrimitiveBool:     "bool",
	ir.PrimitiveBytes:    "bytes",
	ir.PrimitiveComplex:  "complex",
	ir.PrimitiveDate:     "date",
	ir.PrimitiveTime:     "time",
	ir.PrimitiveDateTime: "datetime",
}

func (n primitiveNode) check(v any, at string) error {
	ok := false
	switch n.kind {
	case ir.PrimitiveInt:
		switch v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			ok = true
		}
	case ir.PrimitiveFloat:
		switch v.(type) {
		case float64, float32:
			ok = true
		}
	case ir.PrimitiveString:
		_, ok = v.(string)
	case ir.PrimitiveBool:
		_, ok = v.(bool)
	case ir.PrimitiveBytes:
		_, ok = v.([]byte)
	case ir.PrimitiveComplex:
		switch v.(type) {
		case complex128, complex64:
			ok = true
		}
	case ir.PrimitiveDate:
		d, isDate := v.(civil.Date)
		ok = isDate && d.IsValid()
	case ir.PrimitiveTime:
		t, isTime := v.(civil.Time)
		ok = isTime && t.IsValid()
	case ir.PrimitiveDateTime:
		dt, isDateTime := v.(civil.DateTime)
		ok = isDateTime && dt.IsValid()
	}
	if !ok {
		return mismatch(at, classNames[n.kind], v)
	}
	return nil
}

func (n primitiveNode) describe(x string, _ int) string {
	return fmt.Sprintf("isinstance(%s, %s)", x, classNames[n.kind])
}

type containerNode struct {
	kind ir.ContainerKind
	elem node
}

func (n containerNode) check(v any, at string) error {
	want := n.kind.String()
	switch n.kind {
	case ir.ContainerSet:
		var members []any
		switch s := v.(type) {
		case mapset.Set[any]:
			members = s.ToSlice()
		default:
			m, ok := setMembers(v)
			if !ok {
				return mismatch(at, want, v)
			}
			members = m
		}
		return n.checkMembers(members, at)
	case ir.ContainerFrozenSet:
		s, ok := v.(value.FrozenSet)
		if !ok {
			return mismatch(at, want, v)
		}
		return n.checkMembers(s.Members(), at)
	default:
		rv := reflect.ValueOf(v)
		if !sequence(rv) {
			return mismatch(at, want, v)
		}
		if _, isTuple := v.(value.Tuple); isTuple && n.kind == ir.ContainerList {
			return mismatch(at, want, v)
		}
		for i := 0; i < rv.Len(); i++ {
			if err := n.elem.check(rv.Index(i).Interface(), fmt.Sprintf("%s[%d]", at, i)); err != nil {
				return err
			}
		}
		return nil
	}
}

func (n containerNode) checkMembers(members []any, at string) error {
	for _, m := range members {
		if err := n.elem.check(m, fmt.Sprintf("%s{%s}", at, ir.FormatConst(m))); err != nil {
			return err
		}
	}
	return nil
}

func (n containerNode) describe(x string, level int) string {
	y := bound(level)
	return fmt.Sprintf("isinstance(%s, %s) and all(%s for %s in %s)",
		x, n.kind, n.elem.describe(y, level+1), y, x)
}

// sequence reports whether rv is a slice or array other than a byte string.
func sequence(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Type().Elem().Kind() != reflect.Uint8
	default:
		return false
	}
}

var emptyStruct = reflect.TypeOf(struct{}{})

// setMembers accepts Go's map[T]struct{} set idiom.
func setMembers(v any) ([]any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Elem() != emptyStruct {
		return nil, false
	}
	members := make([]any, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		members = append(members, k.Interface())
	}
	return members, true
}

type mappingNode struct {
	key, val node
}

func (n mappingNode) check(v any, at string) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return mismatch(at, "dict", v)
	}
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key().Interface()
		if err := n.key.check(k, fmt.Sprintf("%s{%s}", at, ir.FormatConst(k))); err != nil {
			return err
		}
		if err := n.val.check(iter.Value().Interface(), fmt.Sprintf("%s[%s]", at, ir.FormatConst(k))); err != nil {
			return err
		}
	}
	return nil
}

func (n mappingNode) describe(x string, level int) string {
	y := bound(level)
	return fmt.Sprintf("isinstance(%s, dict) and all(%s and %s for %s in %s)",
		x, n.key.describe(y, level+1), n.val.describe(x+"["+y+"]", level+1), y, x)
}

type tupleNode struct {
	elems []node
}

func (n tupleNode) check(v any, at string) error {
	rv := reflect.ValueOf(v)
	if _, ok := v.(value.Tuple); !ok && rv.Kind() != reflect.Array {
		return mismatch(at, "tuple", v)
	}
	if rv.Len() != len(n.elems) {
		return &MismatchError{Path: at, Want: "tuple", Got: v, Reason: fmt.Sprintf("want %d elements, got %d", len(n.elems), rv.Len())}
	}
	for i, e := range n.elems {
		if err := e.check(rv.Index(i).Interface(), fmt.Sprintf("%s[%d]", at, i)); err != nil {
			return err
		}
	}
	return nil
}

func (n tupleNode) describe(x string, level int) string {
	parts := []string{
		fmt.Sprintf("isinstance(%s, tuple)", x),
		fmt.Sprintf("len(%s) == %d", x, len(n.elems)),
	}
	for i, e := range n.elems {
		parts = append(parts, e.describe(fmt.Sprintf("%s[%d]", x, i), level))
	}
	return strings.Join(parts, " and ")
}

type productNode struct {
	desc   *ir.ProductDescriptor
	fields []node // nil unless validated deeply
}

func (n productNode) check(v any, at string) error {
	if isNone(v) || !guard(n.desc.Is, v) {
		return mismatch(at, n.desc.Name, v)
	}
	if n.fields == nil {
		return nil
	}
	vals, ok := unpack(n.desc.Unpack, v)
	if !ok || len(vals) != len(n.fields) {
		return &MismatchError{Path: at, Want: n.desc.Name, Got: v, Reason: "cannot unpack fields"}
	}
	for i, f := range n.fields {
		if err := f.check(vals[i], at+"."+n.desc.Fields[i].Name); err != nil {
			return err
		}
	}
	return nil
}

// guard calls is, treating a panic as a rejection. Instance checks are
// supplied by callers and may not expect arbitrary values.
func guard(is func(any) bool, v any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return is(v)
}

func unpack(fn func(any) ([]any, bool), v any) (vals []any, ok bool) {
	defer func() {
		if recover() != nil {
			vals, ok = nil, false
		}
	}()
	return fn(v)
}

func (n productNode) describe(x string, level int) string {
	s := fmt.Sprintf("isinstance(%s, %s)", x, n.desc.Name)
	for i, f := range n.fields {
		s += " and " + f.describe(x+"."+n.desc.Fields[i].Name, level)
	}
	return s
}

type sumNode struct {
	want     string
	variants []node
}

func (n sumNode) check(v any, at string) error {
	for _, variant := range n.variants {
		if variant.check(v, at) == nil {
			return nil
		}
	}
	return mismatch(at, n.want, v)
}

func (n sumNode) describe(x string, level int) string {
	parts := make([]string, len(n.variants))
	for i, v := range n.variants {
		parts[i] = v.describe(x, level)
	}
	return "(" + strings.Join(parts, " or ") + ")"
}

type literalNode struct {
	desc *ir.LiteralDescriptor
}

func (n literalNode) check(v any, at string) error {
	if v != nil && !reflect.TypeOf(v).Comparable() {
		return mismatch(at, n.desc.String(), v)
	}
	if !n.desc.Contains(normalize(v)) {
		return mismatch(at, n.desc.String(), v)
	}
	return nil
}

// normalize maps Go numeric, string and bool kinds onto the int, float64,
// string and bool values literal members are stored as. Unsigned integers
// above math.MaxInt are left unchanged.
func normalize(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if u := rv.Uint(); u <= math.MaxInt {
			return int(u)
		}
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	}
	return v
}

func (n literalNode) describe(x string, _ int) string {
	parts := make([]string, len(n.desc.Values))
	for i, v := range n.desc.Values {
		parts[i] = ir.FormatConst(v)
	}
	if len(parts) == 1 {
		return fmt.Sprintf("%s in (%s,)", x, parts[0])
	}
	return fmt.Sprintf("%s in (%s)", x, strings.Join(parts, ", "))
}

type domainNode struct {
	shape domain.Shape
	deep  bool
}

func (n domainNode) check(v any, at string) error {
	if err := n.shape.Check(v, n.deep); err != nil {
		return &MismatchError{Path: at, Want: n.shape.Tag(), Got: v, Reason: err.Error()}
	}
	return nil
}

func (n domainNode) describe(x string, _ int) string { return n.shape.Describe(x) }
