package ir

// AliasDescriptor represents a named wrapper over another type.
// It is transparent to generation and validation.
type AliasDescriptor struct {
	// Name is the alias identifier.
	Name string

	// Underlying is the resolved aliased type.
	Underlying TypeDescriptor
}

// Kind returns KindAlias.
func (d *AliasDescriptor) Kind() DescriptorKind { return KindAlias }

func (d *AliasDescriptor) String() string { return d.Name }

func (*AliasDescriptor) sealed() {}

// Alias returns an AliasDescriptor.
func Alias(name string, underlying TypeDescriptor) *AliasDescriptor {
	return &AliasDescriptor{Name: name, Underlying: underlying}
}

// Unalias strips any number of alias wrappers.
func Unalias(d TypeDescriptor) TypeDescriptor {
	for {
		a, ok := d.(*AliasDescriptor)
		if !ok {
			return d
		}
		d = a.Underlying
	}
}
