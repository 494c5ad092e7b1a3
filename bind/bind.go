// Package bind adapts ordinary Go functions to runner bindings.
//
// Drawn values are converted to the function's parameter types and results
// are converted back to the value model oracles check:
//
//	int, float, str, bool, complex   Go numeric, string and bool kinds
//	list[T], Sequence[T]             []T
//	tuple[T, ...]                    [N]T
//	dict[K, V]                       map[K]V
//	set[T]                           map[T]struct{}
//	Optional[T]                      *T
//	datetime                         time.Time or civil.DateTime
//	product classes                  structs, matched by exported field name
//
// A trailing error result becomes the binding's error. Several remaining
// results become a value.Tuple.
package bind

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"cloud.google.com/go/civil"
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/broady/sigprop/provider"
	"github.com/broady/sigprop/runner"
	"github.com/broady/sigprop/value"
)

var (
	errorType = reflect.TypeFor[error]()
	timeType  = reflect.TypeFor[time.Time]()
)

// Func returns a binding calling fn, which must be a function. Method
// expressions such as (*T).M take the drawn receiver as their first
// argument.
func Func(fn any) runner.Binding {
	f := reflect.ValueOf(fn)
	if f.Kind() != reflect.Func {
		panic(fmt.Sprintf("bind.Func: %T is not a function", fn))
	}
	ft := f.Type()
	return func(recv any, args []any) (any, error) {
		if recv != nil {
			args = append([]any{recv}, args...)
		}
		if len(args) != ft.NumIn() {
			return nil, fmt.Errorf("%d arguments for %s", len(args), ft)
		}
		in := make([]reflect.Value, len(args))
		for i, a := range args {
			v, err := ToGo(a, ft.In(i))
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			in[i] = v
		}
		var out []reflect.Value
		if ft.IsVariadic() {
			out = f.CallSlice(in)
		} else {
			out = f.Call(in)
		}
		return results(ft, out)
	}
}

func results(ft reflect.Type, out []reflect.Value) (any, error) {
	if n := len(out); n > 0 && ft.Out(n-1) == errorType {
		if err, _ := out[n-1].Interface().(error); err != nil {
			return nil, err
		}
		out = out[:n-1]
	}
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return FromGo(out[0]), nil
	default:
		tup := make(value.Tuple, len(out))
		for i, o := range out {
			tup[i] = FromGo(o)
		}
		return tup, nil
	}
}

// ToGo converts a drawn value to type t.
func ToGo(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("None for %s", t)
	}
	rv := reflect.ValueOf(v)
	if rv.Type() == t {
		return rv, nil
	}

	switch t.Kind() {
	case reflect.Interface:
		if rv.Type().Implements(t) {
			out := reflect.New(t).Elem()
			out.Set(rv)
			return out, nil
		}
	case reflect.Pointer:
		elem, err := ToGo(v, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(elem)
		return p, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if isInt(rv) {
			var i int64
			if isUint(rv.Kind()) {
				i = int64(rv.Uint())
			} else {
				i = rv.Int()
			}
			out := reflect.New(t).Elem()
			if out.OverflowInt(i) {
				return reflect.Value{}, fmt.Errorf("%d overflows %s", i, t)
			}
			out.SetInt(i)
			return out, nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if isInt(rv) {
			out := reflect.New(t).Elem()
			if isUint(rv.Kind()) {
				out.SetUint(rv.Uint())
				return out, nil
			}
			i := rv.Int()
			if i < 0 || out.OverflowUint(uint64(i)) {
				return reflect.Value{}, fmt.Errorf("%d overflows %s", i, t)
			}
			out.SetUint(uint64(i))
			return out, nil
		}
	case reflect.Float32, reflect.Float64, reflect.String, reflect.Bool, reflect.Complex64, reflect.Complex128:
		if rv.Kind() == t.Kind() || sameFamily(rv.Kind(), t.Kind()) {
			return rv.Convert(t), nil
		}
	case reflect.Slice:
		if rv.Kind() == reflect.Slice {
			return convertSeq(rv, t, reflect.MakeSlice(t, rv.Len(), rv.Len()))
		}
	case reflect.Array:
		if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Len() == t.Len() {
			return convertSeq(rv, t, reflect.New(t).Elem())
		}
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			return reflect.Value{}, fmt.Errorf("%d elements for %s", rv.Len(), t)
		}
	case reflect.Map:
		if s, ok := v.(mapset.Set[any]); ok && isSetType(t) {
			return convertSet(s.ToSlice(), t)
		}
		if f, ok := v.(value.FrozenSet); ok && isSetType(t) {
			return convertSet(f.Members(), t)
		}
		if rv.Kind() == reflect.Map {
			return convertMap(rv, t)
		}
	case reflect.Struct:
		if t == timeType {
			if dt, ok := v.(civil.DateTime); ok {
				return reflect.ValueOf(dt.In(time.UTC)), nil
			}
		}
		if r, ok := v.(*value.Record); ok {
			return convertRecord(r, t)
		}
	}
	return reflect.Value{}, fmt.Errorf("cannot use %T as %s", v, t)
}

func isInt(rv reflect.Value) bool {
	k := rv.Kind()
	return (k >= reflect.Int && k <= reflect.Int64) || isUint(k)
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func sameFamily(a, b reflect.Kind) bool {
	float := func(k reflect.Kind) bool { return k == reflect.Float32 || k == reflect.Float64 }
	cplx := func(k reflect.Kind) bool { return k == reflect.Complex64 || k == reflect.Complex128 }
	return (float(a) && float(b)) || (cplx(a) && cplx(b))
}

func isSetType(t reflect.Type) bool {
	return t.Elem().Kind() == reflect.Struct && t.Elem().NumField() == 0
}

func convertSeq(src reflect.Value, t reflect.Type, dst reflect.Value) (reflect.Value, error) {
	for i := 0; i < src.Len(); i++ {
		e, err := ToGo(src.Index(i).Interface(), t.Elem())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("[%d]: %w", i, err)
		}
		dst.Index(i).Set(e)
	}
	return dst, nil
}

func convertSet(members []any, t reflect.Type) (reflect.Value, error) {
	out := reflect.MakeMapWithSize(t, len(members))
	for _, m := range members {
		k, err := ToGo(m, t.Key())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("member: %w", err)
		}
		out.SetMapIndex(k, reflect.New(t.Elem()).Elem())
	}
	return out, nil
}

func convertMap(src reflect.Value, t reflect.Type) (reflect.Value, error) {
	out := reflect.MakeMapWithSize(t, src.Len())
	iter := src.MapRange()
	for iter.Next() {
		k, err := ToGo(iter.Key().Interface(), t.Key())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("key: %w", err)
		}
		v, err := ToGo(iter.Value().Interface(), t.Elem())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("[%v]: %w", iter.Key().Interface(), err)
		}
		out.SetMapIndex(k, v)
	}
	return out, nil
}

func convertRecord(r *value.Record, t reflect.Type) (reflect.Value, error) {
	if r.Type != t.Name() {
		return reflect.Value{}, fmt.Errorf("cannot use %s record as %s", r.Type, t)
	}
	out := reflect.New(t).Elem()
	for i, name := range r.Names {
		f, ok := t.FieldByName(name)
		if !ok || !f.IsExported() {
			return reflect.Value{}, fmt.Errorf("%s has no exported field %s", t, name)
		}
		v, err := ToGo(r.Values[i], f.Type)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%s.%s: %w", t.Name(), name, err)
		}
		out.FieldByIndex(f.Index).Set(v)
	}
	return out, nil
}

// FromGo converts a Go value to the value model oracles check.
func FromGo(rv reflect.Value) any {
	if !rv.IsValid() {
		return nil
	}
	t := rv.Type()
	switch v := rv.Interface().(type) {
	case civil.Date, civil.Time, civil.DateTime:
		return v
	case time.Time:
		return civil.DateTimeOf(v)
	case mapset.Set[any]:
		return v
	}

	switch t.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return FromGo(rv.Elem())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return int(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Complex64, reflect.Complex128:
		return rv.Complex()
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Slice:
		if rv.IsNil() {
			return []any{}
		}
		if t.Elem().Kind() == reflect.Uint8 {
			return rv.Bytes()
		}
		return seq(rv)
	case reflect.Array:
		if t.Len() == 0 || t.Len() > provider.MaxTupleArray {
			return seq(rv)
		}
		return value.Tuple(seq(rv))
	case reflect.Map:
		if isSetType(t) {
			s := value.NewSet()
			for _, k := range rv.MapKeys() {
				s.Add(value.Key(FromGo(k)))
			}
			return s
		}
		out := make(map[any]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[value.Key(FromGo(iter.Key()))] = FromGo(iter.Value())
		}
		return out
	case reflect.Struct:
		var names []string
		var values []any
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			names = append(names, f.Name)
			values = append(values, FromGo(rv.Field(i)))
		}
		r, _ := value.NewRecord(t.Name(), names, values)
		return r
	}
	return rv.Interface()
}

func seq(rv reflect.Value) []any {
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = FromGo(rv.Index(i))
	}
	return out
}

// ErrNotFunc is returned by Map for names bound to non-functions.
var ErrNotFunc = errors.New("not a function")

// Map builds bindings from qualified names to functions.
func Map(fns map[string]any) (runner.Bindings, error) {
	b := make(runner.Bindings, len(fns))
	for name, fn := range fns {
		if reflect.TypeOf(fn) == nil || reflect.TypeOf(fn).Kind() != reflect.Func {
			return nil, fmt.Errorf("%s: %w", name, ErrNotFunc)
		}
		b[name] = Func(fn)
	}
	return b, nil
}
