package ir

// Constructor builds a product value from positional field values, in field order.
type Constructor func(args []any) (any, error)

// ProductDescriptor represents a user-defined composite built by a constructor.
// Fields derive from the constructor's parameters.
type ProductDescriptor struct {
	// Name is the declared type name.
	Name string

	// Fields lists the constructor parameters in declaration order.
	Fields []FieldDescriptor

	// New builds an instance from drawn field values.
	New Constructor

	// Is reports whether a value is an instance of this product.
	// Oracles validate products through Is only, unless deep validation is requested.
	Is func(v any) bool

	// Unpack returns the field values of an instance in field order.
	// Nil when the product cannot be taken apart; deep validation then is unavailable.
	Unpack func(v any) ([]any, bool)
}

// Kind returns KindProduct.
func (d *ProductDescriptor) Kind() DescriptorKind { return KindProduct }

func (d *ProductDescriptor) String() string { return d.Name }

func (*ProductDescriptor) sealed() {}

// FieldDescriptor is a named constructor parameter.
type FieldDescriptor struct {
	Name string
	Type TypeDescriptor
}

// Product returns a ProductDescriptor. The fields slice is copied.
func Product(name string, fields []FieldDescriptor, ctor Constructor, is func(any) bool, unpack func(any) ([]any, bool)) *ProductDescriptor {
	return &ProductDescriptor{
		Name:   name,
		Fields: append([]FieldDescriptor(nil), fields...),
		New:    ctor,
		Is:     is,
		Unpack: unpack,
	}
}
