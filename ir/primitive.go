package ir

// PrimitiveKind identifies the category of a primitive type.
type PrimitiveKind int

const (
	PrimitiveInt PrimitiveKind = iota
	PrimitiveFloat
	PrimitiveString
	PrimitiveBool
	PrimitiveBytes
	PrimitiveComplex
	PrimitiveDate     // calendar date without a clock
	PrimitiveTime     // wall clock time without a date
	PrimitiveDateTime // date and wall clock time
)

// String returns the annotation spelling of the primitive kind.
func (k PrimitiveKind) String() string {
	switch k {
	case PrimitiveInt:
		return "int"
	case PrimitiveFloat:
		return "float"
	case PrimitiveString:
		return "string"
	case PrimitiveBool:
		return "bool"
	case PrimitiveBytes:
		return "bytes"
	case PrimitiveComplex:
		return "complex"
	case PrimitiveDate:
		return "date"
	case PrimitiveTime:
		return "time"
	case PrimitiveDateTime:
		return "datetime"
	default:
		return "unknown"
	}
}

// PrimitiveDescriptor represents a built-in primitive type.
type PrimitiveDescriptor struct {
	PrimitiveKind PrimitiveKind
}

// Kind returns KindPrimitive.
func (d *PrimitiveDescriptor) Kind() DescriptorKind { return KindPrimitive }

func (d *PrimitiveDescriptor) String() string { return d.PrimitiveKind.String() }

func (*PrimitiveDescriptor) sealed() {}

// Primitive returns a PrimitiveDescriptor of the given kind.
func Primitive(kind PrimitiveKind) *PrimitiveDescriptor {
	return &PrimitiveDescriptor{PrimitiveKind: kind}
}

// Convenience constructors for common primitives.

// Int returns a PrimitiveDescriptor for int.
func Int() *PrimitiveDescriptor { return Primitive(PrimitiveInt) }

// Float returns a PrimitiveDescriptor for float.
func Float() *PrimitiveDescriptor { return Primitive(PrimitiveFloat) }

// String returns a PrimitiveDescriptor for string.
func String() *PrimitiveDescriptor { return Primitive(PrimitiveString) }

// Bool returns a PrimitiveDescriptor for bool.
func Bool() *PrimitiveDescriptor { return Primitive(PrimitiveBool) }

// Bytes returns a PrimitiveDescriptor for bytes.
func Bytes() *PrimitiveDescriptor { return Primitive(PrimitiveBytes) }
