package provider

import (
	"context"
	"fmt"
	"go/constant"
	"go/types"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/broady/sigprop/annotation"
)

// MaxTupleArray is the largest Go array length mapped to a tuple. Longer
// arrays become lists.
const MaxTupleArray = 8

// Source extracts signatures from Go packages: exported package-level
// functions and the exported methods of exported named types.
//
// Go types map onto annotations as follows. Named structs become record
// classes over their exported fields. Named basic types with package-level
// constants become aliases of a Literal of those constants; other named types
// become aliases of their underlying type. Slices become lists, maps become
// dicts (map[K]struct{} becomes a set), pointers become Optional, arrays up
// to eight elements become tuples, time.Time becomes datetime, and type
// parameters become type variables. A trailing error result is dropped;
// several remaining results become a tuple.
type Source struct {
	// Patterns are package patterns in go command syntax.
	Patterns []string

	// Dir is the working directory for package loading. Empty means the
	// current directory.
	Dir string
}

// Extract loads the packages and converts their exported callables.
func (s *Source) Extract(ctx context.Context) (*annotation.Universe, []annotation.Signature, error) {
	if len(s.Patterns) == 0 {
		return nil, nil, fmt.Errorf("no packages specified")
	}
	cfg := &packages.Config{
		Context: ctx,
		Mode:    packages.NeedName | packages.NeedTypes,
		Dir:     s.Dir,
	}
	pkgs, err := packages.Load(cfg, s.Patterns...)
	if err != nil {
		return nil, nil, fmt.Errorf("load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, nil, fmt.Errorf("no packages found matching %q", strings.Join(s.Patterns, " "))
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, nil, fmt.Errorf("package %s has errors: %v", pkg.PkgPath, pkg.Errors[0])
		}
	}

	b := &sourceBuilder{declared: make(map[string]bool)}
	b.universe, _ = annotation.NewUniverse()
	for _, pkg := range pkgs {
		b.scanPackage(pkg.Types)
	}
	return b.universe, b.sigs, nil
}

type sourceBuilder struct {
	universe *annotation.Universe
	sigs     []annotation.Signature
	declared map[string]bool
}

func (b *sourceBuilder) scanPackage(pkg *types.Package) {
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		obj := scope.Lookup(name)
		if !obj.Exported() {
			continue
		}
		switch obj := obj.(type) {
		case *types.Func:
			b.sigs = append(b.sigs, b.signature(obj.Name(), "", obj.Type().(*types.Signature)))
		case *types.TypeName:
			named, ok := obj.Type().(*types.Named)
			if !ok {
				continue
			}
			for i := 0; i < named.NumMethods(); i++ {
				m := named.Method(i)
				if !m.Exported() {
					continue
				}
				owner := b.annotate(named).String()
				b.sigs = append(b.sigs, b.signature(m.Name(), owner, m.Type().(*types.Signature)))
			}
		}
	}
}

func (b *sourceBuilder) signature(name, owner string, sig *types.Signature) annotation.Signature {
	for i := 0; i < sig.TypeParams().Len(); i++ {
		b.typeVar(sig.TypeParams().At(i).Obj().Name())
	}
	out := annotation.Signature{Name: name, Owner: owner}
	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		p := params.At(i)
		pname := p.Name()
		if pname == "" || pname == "_" {
			pname = fmt.Sprintf("arg%d", i)
		}
		out.Params = append(out.Params, annotation.Param{Name: pname, Type: b.annotate(p.Type())})
	}

	var results []annotation.Annotation
	for i := 0; i < sig.Results().Len(); i++ {
		t := sig.Results().At(i).Type()
		if i == sig.Results().Len()-1 && isError(t) {
			break
		}
		results = append(results, b.annotate(t))
	}
	switch len(results) {
	case 0:
	case 1:
		out.Return = results[0]
	default:
		out.Return = annotation.Of(annotation.OriginTuple, results...)
	}
	return out
}

func isError(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}

// annotate maps a Go type onto an annotation, declaring named types it
// meets. Types without a mapping are spelled with their Go name, which the
// resolver later reports as unsupported.
func (b *sourceBuilder) annotate(t types.Type) annotation.Annotation {
	switch t := t.(type) {
	case *types.Basic:
		return basic(t)
	case *types.Slice:
		if e, ok := t.Elem().(*types.Basic); ok && e.Kind() == types.Byte {
			return annotation.N("bytes")
		}
		return annotation.Of("list", b.annotate(t.Elem()))
	case *types.Array:
		if t.Len() == 0 || t.Len() > MaxTupleArray {
			return annotation.Of("list", b.annotate(t.Elem()))
		}
		elem := b.annotate(t.Elem())
		args := make([]annotation.Annotation, t.Len())
		for i := range args {
			args[i] = elem
		}
		return annotation.Of(annotation.OriginTuple, args...)
	case *types.Map:
		if s, ok := t.Elem().(*types.Struct); ok && s.NumFields() == 0 {
			return annotation.Of("set", b.annotate(t.Key()))
		}
		return annotation.Of(annotation.OriginDict, b.annotate(t.Key()), b.annotate(t.Elem()))
	case *types.Pointer:
		return annotation.Of(annotation.OriginOptional, b.annotate(t.Elem()))
	case *types.TypeParam:
		return b.typeVar(t.Obj().Name())
	case *types.Interface:
		if t.Empty() {
			return annotation.N(annotation.NameAny)
		}
		return annotation.N(types.TypeString(t, nil))
	case *types.Alias:
		return b.annotate(types.Unalias(t))
	case *types.Named:
		return b.named(t)
	default:
		return annotation.N(types.TypeString(t, nil))
	}
}

func basic(t *types.Basic) annotation.Annotation {
	info := t.Info()
	switch {
	case info&types.IsBoolean != 0:
		return annotation.N("bool")
	case info&types.IsInteger != 0:
		return annotation.N("int")
	case info&types.IsFloat != 0:
		return annotation.N("float")
	case info&types.IsComplex != 0:
		return annotation.N("complex")
	case info&types.IsString != 0:
		return annotation.N("str")
	default:
		return annotation.N(t.Name())
	}
}

// wellKnown maps qualified Go type names onto builtin annotations.
var wellKnown = map[string]string{
	"time.Time":                          "datetime",
	"cloud.google.com/go/civil.Date":     "date",
	"cloud.google.com/go/civil.Time":     "time",
	"cloud.google.com/go/civil.DateTime": "datetime",
}

func (b *sourceBuilder) named(t *types.Named) annotation.Annotation {
	obj := t.Obj()
	if obj.Pkg() == nil {
		// Predeclared, such as error.
		return annotation.N(obj.Name())
	}
	if builtin, ok := wellKnown[obj.Pkg().Path()+"."+obj.Name()]; ok {
		return annotation.N(builtin)
	}
	name := obj.Name()
	if b.declared[name] {
		return annotation.N(name)
	}
	b.declared[name] = true

	switch u := t.Underlying().(type) {
	case *types.Struct:
		var params []annotation.Param
		for i := 0; i < u.NumFields(); i++ {
			f := u.Field(i)
			if !f.Exported() {
				continue
			}
			params = append(params, annotation.Param{Name: f.Name(), Type: b.annotate(f.Type())})
		}
		b.declare(annotation.RecordClass(name, params...))
	case *types.Basic:
		base := basic(u)
		if consts := enumConstants(t); len(consts) > 0 {
			base = annotation.Lit(consts...)
		}
		b.declare(&annotation.NewType{Name: name, Base: base})
	default:
		b.declare(&annotation.NewType{Name: name, Base: b.annotate(u)})
	}
	return annotation.N(name)
}

func (b *sourceBuilder) typeVar(name string) annotation.Annotation {
	if !b.declared[name] {
		b.declared[name] = true
		b.declare(&annotation.TypeVar{Name: name})
	}
	return annotation.N(name)
}

// declare adds d to the universe. A name clash with a builtin leaves the
// name undeclared so that uses of it fail to resolve instead of aliasing
// the builtin.
func (b *sourceBuilder) declare(d annotation.Decl) {
	_ = b.universe.Declare(d)
}

// enumConstants returns the values of package-level constants of type t.
func enumConstants(t *types.Named) []any {
	pkg := t.Obj().Pkg()
	scope := pkg.Scope()
	var values []any
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if !ok || !types.Identical(c.Type(), t) {
			continue
		}
		if v, ok := constantValue(c.Val()); ok {
			values = append(values, v)
		}
	}
	return values
}

func constantValue(v constant.Value) (any, bool) {
	switch v.Kind() {
	case constant.String:
		return constant.StringVal(v), true
	case constant.Int:
		i64, exact := constant.Int64Val(v)
		return int(i64), exact
	case constant.Float:
		f64, _ := constant.Float64Val(v)
		return f64, true
	case constant.Bool:
		return constant.BoolVal(v), true
	default:
		return nil, false
	}
}
