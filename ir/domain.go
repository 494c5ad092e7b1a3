package ir

import "net/url"

// Domain tags understood by the generator and oracle synthesizers.
const (
	DomainBinaryTree = "binary-tree" // binary tree node with an int payload
	DomainArray      = "array"       // typed one-dimensional numeric buffer
	DomainNDArray    = "ndarray"     // fixed-shape numeric buffer
)

// DomainDescriptor represents an externally defined shape with bespoke
// construction rules. Hints refine the shape, e.g. "dtype=int&shape=2&shape=4".
type DomainDescriptor struct {
	Tag   string
	Hints url.Values
}

// Kind returns KindDomain.
func (d *DomainDescriptor) Kind() DescriptorKind { return KindDomain }

func (d *DomainDescriptor) String() string {
	if len(d.Hints) == 0 {
		return d.Tag
	}
	return d.Tag + "?" + d.Hints.Encode()
}

func (*DomainDescriptor) sealed() {}

// Domain returns a DomainDescriptor. The hints are copied.
func Domain(tag string, hints url.Values) *DomainDescriptor {
	var cp url.Values
	if len(hints) > 0 {
		cp = make(url.Values, len(hints))
		for k, vs := range hints {
			cp[k] = append([]string(nil), vs...)
		}
	}
	return &DomainDescriptor{Tag: tag, Hints: cp}
}
