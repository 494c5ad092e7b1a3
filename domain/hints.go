package domain

// TreeHints configures binary tree nodes, e.g. "depth=2".
type TreeHints struct {
	// Depth is the number of levels generated below the root. Each child is
	// independently present or absent.
	Depth int `schema:"depth" validate:"gte=0,lte=8"`
}

// ArrayHints configures typed arrays, e.g. "typecode=d&maxlen=4".
type ArrayHints struct {
	Typecode string `schema:"typecode" validate:"oneof=i f d u c"`
	MaxLen   int    `schema:"maxlen" validate:"gte=0,lte=1024"`
}

// NDArrayHints configures fixed-shape arrays, e.g. "dtype=int&shape=2&shape=4".
type NDArrayHints struct {
	DType string `schema:"dtype" validate:"oneof=int float complex"`
	Shape []int  `schema:"shape" validate:"max=4,dive,gte=1,lte=16"`
}
