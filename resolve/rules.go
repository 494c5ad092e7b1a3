package resolve

import (
	"fmt"
	"net/url"

	"github.com/broady/sigprop/annotation"
	"github.com/broady/sigprop/domain"
	"github.com/broady/sigprop/ir"
)

// anyVariants is what an unconstrained annotation resolves to.
func anyVariants() ir.TypeDescriptor {
	return ir.Sum(ir.Int(), ir.Float(), ir.String(), ir.Bool())
}

func (r *Resolver) resolveName(a annotation.Name, p *path) (ir.TypeDescriptor, error) {
	ident := a.Ident
	switch {
	case annotation.IsNone(ident):
		return ir.None(), nil
	case annotation.IsAny(ident):
		return anyVariants(), nil
	}
	if k, ok := annotation.PrimitiveKind(ident); ok {
		return ir.Primitive(k), nil
	}
	if k, ok := annotation.ContainerKind(ident); ok {
		// A bare container holds anything hashable, which Any is.
		return ir.Container(k, anyVariants()), nil
	}
	if tag, ok := annotation.DomainTag(ident); ok {
		return domainDescriptor(ident, tag, nil)
	}
	if o, ok := annotation.CanonicalOrigin(ident); ok {
		switch o {
		case annotation.OriginDict:
			return ir.Mapping(anyVariants(), anyVariants()), nil
		default:
			return nil, unsupported(ident, "missing type arguments")
		}
	}

	decl, ok := r.universe.Lookup(ident)
	if !ok {
		return nil, unsupported(ident, "unknown name")
	}
	switch decl := decl.(type) {
	case *annotation.Class:
		return r.resolveClass(decl, p)
	case *annotation.NewType:
		if decl.Base == nil {
			return nil, unsupported(ident, "alias without a base type")
		}
		base, err := r.resolve(decl.Base, p)
		if err != nil {
			return nil, err
		}
		return ir.Alias(decl.Name, base), nil
	case *annotation.TypeVar:
		return ir.Unresolved(decl.Name), nil
	case *annotation.Domain:
		return domainDescriptor(ident, decl.Tag, decl.Hints)
	default:
		return nil, unsupported(ident, fmt.Sprintf("unknown declaration %T", decl))
	}
}

// resolveClass derives a product from the class constructor's parameters.
func (r *Resolver) resolveClass(c *annotation.Class, p *path) (ir.TypeDescriptor, error) {
	if c.New == nil {
		return nil, unsupported(c.Name, "no accessible constructor")
	}
	if c.Is == nil {
		return nil, unsupported(c.Name, "no instance check")
	}
	fields := make([]ir.FieldDescriptor, len(c.Params))
	for i, param := range c.Params {
		if param.Type == nil {
			return nil, unsupported(c.Name, fmt.Sprintf("constructor parameter %s is not annotated", param.Name))
		}
		t, err := r.resolve(param.Type, p)
		if err != nil {
			return nil, err
		}
		fields[i] = ir.FieldDescriptor{Name: param.Name, Type: t}
	}
	return ir.Product(c.Name, fields, c.New, c.Is, c.Unpack), nil
}

func (r *Resolver) resolveSubscript(a annotation.Subscript, p *path) (ir.TypeDescriptor, error) {
	id := a.String()
	if k, ok := annotation.ContainerKind(a.Origin); ok {
		if len(a.Args) != 1 {
			return nil, unsupported(id, fmt.Sprintf("%s takes one type argument", a.Origin))
		}
		elem, err := r.resolve(a.Args[0], p)
		if err != nil {
			return nil, err
		}
		if (k == ir.ContainerSet || k == ir.ContainerFrozenSet) && !ir.Hashable(elem) {
			return nil, unsupported(id, fmt.Sprintf("set element %s is not hashable", elem))
		}
		return ir.Container(k, elem), nil
	}
	if tag, ok := annotation.DomainTag(a.Origin); ok {
		return r.resolveDomainSubscript(a, tag)
	}

	origin, ok := annotation.CanonicalOrigin(a.Origin)
	if !ok {
		if _, declared := r.universe.Lookup(a.Origin); declared {
			return nil, unsupported(id, fmt.Sprintf("%s is not generic", a.Origin))
		}
		return nil, unsupported(id, "unknown generic origin")
	}
	switch origin {
	case annotation.OriginLiteral:
		if len(a.Args) == 0 {
			return nil, unsupported(id, "empty Literal")
		}
		values := make([]any, len(a.Args))
		for i, arg := range a.Args {
			c, ok := arg.(annotation.Const)
			if !ok {
				return nil, unsupported(id, fmt.Sprintf("Literal member %s is not a constant", arg))
			}
			switch c.Value.(type) {
			case nil, bool, int, float64, string:
			default:
				return nil, unsupported(id, fmt.Sprintf("Literal member of type %T", c.Value))
			}
			values[i] = c.Value
		}
		return ir.Literal(values...), nil

	case annotation.OriginTuple:
		if len(a.Args) == 0 {
			return nil, unsupported(id, "empty tuple")
		}
		elems, err := r.resolveArgs(a.Args, p)
		if err != nil {
			return nil, err
		}
		return ir.Tuple(elems...), nil

	case annotation.OriginDict:
		if len(a.Args) != 2 {
			return nil, unsupported(id, "mapping takes key and value type arguments")
		}
		kv, err := r.resolveArgs(a.Args, p)
		if err != nil {
			return nil, err
		}
		if !ir.Hashable(kv[0]) {
			return nil, unsupported(id, fmt.Sprintf("mapping key %s is not hashable", kv[0]))
		}
		return ir.Mapping(kv[0], kv[1]), nil

	case annotation.OriginOptional:
		if len(a.Args) != 1 {
			return nil, unsupported(id, "Optional takes one type argument")
		}
		t, err := r.resolve(a.Args[0], p)
		if err != nil {
			return nil, err
		}
		return collapse(ir.Optional(t)), nil

	case annotation.OriginUnion:
		if len(a.Args) == 0 {
			return nil, unsupported(id, "empty Union")
		}
		variants, err := r.resolveArgs(a.Args, p)
		if err != nil {
			return nil, err
		}
		return collapse(ir.Sum(variants...)), nil
	}
	return nil, unsupported(id, "unknown generic origin")
}

func (r *Resolver) resolveArgs(args []annotation.Annotation, p *path) ([]ir.TypeDescriptor, error) {
	out := make([]ir.TypeDescriptor, len(args))
	for i, arg := range args {
		t, err := r.resolve(arg, p)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// collapse unwraps a sum left with a single variant, as Union[int] is int.
func collapse(s *ir.SumDescriptor) ir.TypeDescriptor {
	if len(s.Variants) == 1 {
		return s.Variants[0]
	}
	return s
}

// resolveDomainSubscript maps an element type argument onto domain hints:
// array.array[float] selects a typecode, numpy.ndarray[int] a dtype.
func (r *Resolver) resolveDomainSubscript(a annotation.Subscript, tag string) (ir.TypeDescriptor, error) {
	id := a.String()
	if len(a.Args) != 1 {
		return nil, unsupported(id, fmt.Sprintf("%s takes one element type", a.Origin))
	}
	n, ok := a.Args[0].(annotation.Name)
	if !ok {
		return nil, unsupported(id, "element type must be a primitive")
	}
	k, ok := annotation.PrimitiveKind(n.Ident)
	if !ok {
		return nil, unsupported(id, "element type must be a primitive")
	}
	hints := url.Values{}
	switch tag {
	case ir.DomainArray:
		hints.Set("typecode", domain.TypecodeFor(k))
	case ir.DomainNDArray:
		hints.Set("dtype", domain.DTypeFor(k))
	default:
		return nil, unsupported(id, fmt.Sprintf("%s is not generic", a.Origin))
	}
	return domainDescriptor(id, tag, hints)
}

// domainDescriptor validates hints up front so that a bad hint fails
// resolution instead of generation.
func domainDescriptor(id, tag string, hints url.Values) (ir.TypeDescriptor, error) {
	d := ir.Domain(tag, hints)
	if _, err := domain.Decode(d); err != nil {
		return nil, unsupported(id, err.Error())
	}
	return d, nil
}
