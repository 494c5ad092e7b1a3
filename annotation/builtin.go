package annotation

import "github.com/broady/sigprop/ir"

// Special origins and names with dedicated resolution rules.
const (
	OriginTuple    = "tuple"
	OriginDict     = "dict"
	OriginUnion    = "Union"
	OriginOptional = "Optional"
	OriginLiteral  = "Literal"

	NameNone = "None"
	NameAny  = "Any"
)

var primitives = map[string]ir.PrimitiveKind{
	"int":               ir.PrimitiveInt,
	"float":             ir.PrimitiveFloat,
	"str":               ir.PrimitiveString,
	"string":            ir.PrimitiveString,
	"bool":              ir.PrimitiveBool,
	"bytes":             ir.PrimitiveBytes,
	"complex":           ir.PrimitiveComplex,
	"date":              ir.PrimitiveDate,
	"datetime.date":     ir.PrimitiveDate,
	"time":              ir.PrimitiveTime,
	"datetime.time":     ir.PrimitiveTime,
	"datetime":          ir.PrimitiveDateTime,
	"datetime.datetime": ir.PrimitiveDateTime,
}

var containers = map[string]ir.ContainerKind{
	"list":                       ir.ContainerList,
	"List":                       ir.ContainerList,
	"set":                        ir.ContainerSet,
	"Set":                        ir.ContainerSet,
	"frozenset":                  ir.ContainerFrozenSet,
	"FrozenSet":                  ir.ContainerFrozenSet,
	"Sequence":                   ir.ContainerSequence,
	"collections.abc.Sequence":   ir.ContainerSequence,
	"typing.Sequence":            ir.ContainerSequence,
	"typing.List":                ir.ContainerList,
	"typing.Set":                 ir.ContainerSet,
	"typing.FrozenSet":           ir.ContainerFrozenSet,
	"collections.abc.MutableSet": ir.ContainerSet,
	"deque":                      ir.ContainerSequence,
	"collections.deque":          ir.ContainerSequence,
	"typing.Deque":               ir.ContainerSequence,
}

// origins maps spelling variants of the non-container origins to their
// canonical form.
var origins = map[string]string{
	"tuple":           OriginTuple,
	"Tuple":           OriginTuple,
	"typing.Tuple":    OriginTuple,
	"dict":            OriginDict,
	"Dict":            OriginDict,
	"Mapping":         OriginDict,
	"typing.Dict":     OriginDict,
	"typing.Mapping":  OriginDict,
	"Union":           OriginUnion,
	"typing.Union":    OriginUnion,
	"Optional":        OriginOptional,
	"typing.Optional": OriginOptional,
	"Literal":         OriginLiteral,
	"typing.Literal":  OriginLiteral,
}

// domains maps well-known external shapes to ir domain tags.
var domains = map[string]string{
	"binarytree.Node": ir.DomainBinaryTree,
	"array.array":     ir.DomainArray,
	"numpy.ndarray":   ir.DomainNDArray,
	"np.ndarray":      ir.DomainNDArray,
}

// PrimitiveKind returns the primitive an identifier names.
func PrimitiveKind(ident string) (ir.PrimitiveKind, bool) {
	k, ok := primitives[ident]
	return k, ok
}

// ContainerKind returns the container kind an origin names.
func ContainerKind(origin string) (ir.ContainerKind, bool) {
	k, ok := containers[origin]
	return k, ok
}

// CanonicalOrigin returns the canonical spelling of a tuple, dict, union,
// optional or literal origin.
func CanonicalOrigin(origin string) (string, bool) {
	o, ok := origins[origin]
	return o, ok
}

// DomainTag returns the ir domain tag for a well-known external shape.
func DomainTag(name string) (string, bool) {
	t, ok := domains[name]
	return t, ok
}

// IsNone reports whether ident spells the none type.
func IsNone(ident string) bool {
	return ident == NameNone || ident == "NoneType" || ident == "types.NoneType"
}

// IsAny reports whether ident spells the unconstrained type.
func IsAny(ident string) bool {
	return ident == NameAny || ident == "typing.Any"
}

// IsBuiltin reports whether name has a builtin meaning and so cannot be declared.
func IsBuiltin(name string) bool {
	if _, ok := primitives[name]; ok {
		return true
	}
	if _, ok := containers[name]; ok {
		return true
	}
	if _, ok := origins[name]; ok {
		return true
	}
	if _, ok := domains[name]; ok {
		return true
	}
	return IsNone(name) || IsAny(name)
}
