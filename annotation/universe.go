package annotation

import (
	"fmt"
	"net/url"
	"sort"

	"github.com/broady/sigprop/ir"
	"github.com/broady/sigprop/value"
)

// Decl is a named declaration an annotation can refer to.
type Decl interface {
	DeclName() string
	decl()
}

// Class declares a composite type built through a constructor.
type Class struct {
	Name string

	// Params are the constructor parameters, excluding the receiver.
	Params []Param

	// New is the constructor. Nil means the class has no accessible
	// constructor and cannot be resolved.
	New ir.Constructor

	// Is reports whether a value is an instance of the class.
	Is func(v any) bool

	// Unpack returns an instance's field values in parameter order. Optional.
	Unpack func(v any) ([]any, bool)
}

func (c *Class) DeclName() string { return c.Name }
func (*Class) decl()              {}

// RecordClass returns a Class whose instances are *value.Record values tagged
// with the class name.
func RecordClass(name string, params ...Param) *Class {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return &Class{
		Name:   name,
		Params: params,
		New: func(args []any) (any, error) {
			r, err := value.NewRecord(name, names, args)
			if err != nil {
				return nil, err
			}
			return r, nil
		},
		Is: func(v any) bool {
			r, ok := v.(*value.Record)
			return ok && r != nil && r.Type == name
		},
		Unpack: func(v any) ([]any, bool) {
			r, ok := v.(*value.Record)
			if !ok || r == nil || r.Type != name {
				return nil, false
			}
			return r.Values, true
		},
	}
}

// NewType declares a named type that supersedes a base type.
type NewType struct {
	Name string
	Base Annotation
}

func (n *NewType) DeclName() string { return n.Name }
func (*NewType) decl()              {}

// TypeVar declares an unconstrained type variable.
type TypeVar struct {
	Name string
}

func (v *TypeVar) DeclName() string { return v.Name }
func (*TypeVar) decl()              {}

// Domain declares an externally defined shape, such as a tree node or a numeric
// buffer, identified by an ir domain tag.
type Domain struct {
	Name  string
	Tag   string
	Hints url.Values
}

func (d *Domain) DeclName() string { return d.Name }
func (*Domain) decl()              {}

// Universe is the set of declarations visible to a group of signatures.
type Universe struct {
	decls map[string]Decl
}

// NewUniverse returns a Universe holding decls.
func NewUniverse(decls ...Decl) (*Universe, error) {
	u := &Universe{decls: make(map[string]Decl)}
	for _, d := range decls {
		if err := u.Declare(d); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// Declare adds a declaration. Names must be unique and must not shadow builtins.
func (u *Universe) Declare(d Decl) error {
	name := d.DeclName()
	if name == "" {
		return fmt.Errorf("declaration without a name: %T", d)
	}
	if IsBuiltin(name) {
		return fmt.Errorf("declaration %s shadows a builtin", name)
	}
	if _, dup := u.decls[name]; dup {
		return fmt.Errorf("duplicate declaration: %s", name)
	}
	if u.decls == nil {
		u.decls = make(map[string]Decl)
	}
	u.decls[name] = d
	return nil
}

// Lookup returns the declaration for name.
func (u *Universe) Lookup(name string) (Decl, bool) {
	if u == nil {
		return nil, false
	}
	d, ok := u.decls[name]
	return d, ok
}

// Names returns all declared names, sorted.
func (u *Universe) Names() []string {
	if u == nil {
		return nil
	}
	names := make([]string, 0, len(u.decls))
	for n := range u.decls {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
