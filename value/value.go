// Package value defines the runtime representations of generated values for
// shapes Go has no single built-in type for.
//
// Primitive mappings used across the module:
//
//	int      -> int (within the signed 32-bit range when generated)
//	float    -> float64
//	string   -> string
//	bool     -> bool
//	bytes    -> []byte
//	complex  -> complex128
//	date     -> civil.Date
//	time     -> civil.Time
//	datetime -> civil.DateTime
//	list     -> []any
//	tuple    -> Tuple
//	set      -> mapset.Set[any]
//	dict     -> map[any]any
//	None     -> untyped nil
package value

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// NoArgsToken is the type of NoArgs.
type NoArgsToken struct{}

func (NoArgsToken) String() string { return "<no arguments>" }

// NoArgs is the sentinel drawn for callables without parameters. A runner that
// sees it calls the target with no arguments.
var NoArgs = NoArgsToken{}

// Tuple is a fixed-arity, position-significant sequence.
type Tuple []any

var anyType = reflect.TypeFor[any]()

// Key returns v in a form usable as a map key or set member. Tuples, nested
// ones included, become [n]any arrays; other values are returned unchanged.
func Key(v any) any {
	t, ok := v.(Tuple)
	if !ok {
		return v
	}
	a := reflect.New(reflect.ArrayOf(len(t), anyType)).Elem()
	for i, e := range t {
		if e = Key(e); e != nil {
			a.Index(i).Set(reflect.ValueOf(e))
		}
	}
	return a.Interface()
}

// Distinct returns the identity used to keep set members and mapping keys
// unique. Frozen sets are identified by their members; everything else by
// Go equality.
func Distinct(v any) any {
	f, ok := v.(FrozenSet)
	if !ok {
		return v
	}
	return f.canonical()
}

// canonical renders the members in sorted order, so equal frozen sets render
// identically.
func (f FrozenSet) canonical() string {
	parts := make([]string, 0, f.Len())
	for _, m := range f.Members() {
		if inner, ok := m.(FrozenSet); ok {
			parts = append(parts, inner.canonical())
			continue
		}
		parts = append(parts, fmt.Sprintf("%T(%#v)", m, m))
	}
	slices.Sort(parts)
	return "frozenset{" + strings.Join(parts, ", ") + "}"
}

// NewSet returns a mutable set holding elems.
// Elements must be comparable; the resolver only admits hashable element shapes.
func NewSet(elems ...any) mapset.Set[any] {
	return mapset.NewThreadUnsafeSet(elems...)
}

// FrozenSet is an immutable set. It does not implement mapset.Set, which keeps
// set and frozenset values distinguishable.
type FrozenSet struct {
	s mapset.Set[any]
}

// NewFrozenSet returns a frozen set holding elems.
func NewFrozenSet(elems ...any) FrozenSet {
	return FrozenSet{s: mapset.NewThreadUnsafeSet(elems...)}
}

// Contains reports whether v is a member.
func (f FrozenSet) Contains(v any) bool {
	return f.s != nil && f.s.Contains(v)
}

// Len returns the number of members.
func (f FrozenSet) Len() int {
	if f.s == nil {
		return 0
	}
	return f.s.Cardinality()
}

// Members returns the members in unspecified order.
func (f FrozenSet) Members() []any {
	if f.s == nil {
		return nil
	}
	return f.s.ToSlice()
}

func (f FrozenSet) String() string {
	if f.s == nil {
		return "frozenset()"
	}
	return "frozen" + f.s.String()
}

// Record is the generic instance built for declared classes that have no Go
// constructor of their own.
type Record struct {
	Type   string
	Names  []string
	Values []any
}

// NewRecord returns a Record. names and values must have equal length.
func NewRecord(typ string, names []string, values []any) (*Record, error) {
	if len(names) != len(values) {
		return nil, fmt.Errorf("record %s: %d field names but %d values", typ, len(names), len(values))
	}
	return &Record{
		Type:   typ,
		Names:  append([]string(nil), names...),
		Values: append([]any(nil), values...),
	}, nil
}

// Get returns the named field value.
func (r *Record) Get(name string) (any, bool) {
	for i, n := range r.Names {
		if n == name {
			return r.Values[i], true
		}
	}
	return nil, false
}

func (r *Record) String() string {
	parts := make([]string, len(r.Names))
	for i, n := range r.Names {
		parts[i] = fmt.Sprintf("%s=%v", n, r.Values[i])
	}
	return r.Type + "(" + strings.Join(parts, ", ") + ")"
}
