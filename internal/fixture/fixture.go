// Package fixture provides a shared universe of declarations for tests.
package fixture

import (
	"fmt"

	"github.com/broady/sigprop/annotation"
	"github.com/broady/sigprop/ir"
)

// Counter is a stateful class with a nullary constructor.
type Counter struct {
	n int
}

// Next increments the counter and returns its new value.
func (c *Counter) Next() int {
	c.n++
	return c.n
}

// CounterClass declares Counter with its zero-argument constructor.
func CounterClass() *annotation.Class {
	return &annotation.Class{
		Name: "Counter",
		New: func(args []any) (any, error) {
			if len(args) != 0 {
				return nil, fmt.Errorf("Counter takes no arguments, got %d", len(args))
			}
			return &Counter{}, nil
		},
		Is: func(v any) bool {
			_, ok := v.(*Counter)
			return ok
		},
		Unpack: func(v any) ([]any, bool) {
			_, ok := v.(*Counter)
			return nil, ok
		},
	}
}

// Universe returns a fresh universe with:
//
//	Person(name: str, age: int)
//	Point(x: float, y: float)
//	Book(title: str, author: str)
//	Counter()
//	Tree(value: int, children: list[Tree])  self-referential
//	Pair(left: Tree, right: int)            reaches a cycle through Tree
//	Opaque                                  no constructor
//	UserId = NewType(int)
//	Loop = NewType(list[Loop])              self-referential
//	T = TypeVar
//	Node: binary tree domain
func Universe() *annotation.Universe {
	u, err := annotation.NewUniverse(
		annotation.RecordClass("Person",
			annotation.Param{Name: "name", Type: annotation.N("str")},
			annotation.Param{Name: "age", Type: annotation.N("int")},
		),
		annotation.RecordClass("Point",
			annotation.Param{Name: "x", Type: annotation.N("float")},
			annotation.Param{Name: "y", Type: annotation.N("float")},
		),
		annotation.RecordClass("Book",
			annotation.Param{Name: "title", Type: annotation.N("str")},
			annotation.Param{Name: "author", Type: annotation.N("str")},
		),
		CounterClass(),
		annotation.RecordClass("Tree",
			annotation.Param{Name: "value", Type: annotation.N("int")},
			annotation.Param{Name: "children", Type: annotation.Of("list", annotation.N("Tree"))},
		),
		annotation.RecordClass("Pair",
			annotation.Param{Name: "left", Type: annotation.N("Tree")},
			annotation.Param{Name: "right", Type: annotation.N("int")},
		),
		&annotation.Class{Name: "Opaque"},
		&annotation.NewType{Name: "UserId", Base: annotation.N("int")},
		&annotation.NewType{Name: "Loop", Base: annotation.Of("list", annotation.N("Loop"))},
		&annotation.TypeVar{Name: "T"},
		&annotation.Domain{Name: "Node", Tag: ir.DomainBinaryTree},
	)
	if err != nil {
		panic(err)
	}
	return u
}
