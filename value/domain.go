package value

import "fmt"

// TreeNode is a binary tree node with an integer payload.
type TreeNode struct {
	Value int
	Left  *TreeNode
	Right *TreeNode
}

// Size returns the number of nodes in the tree rooted at n.
func (n *TreeNode) Size() int {
	if n == nil {
		return 0
	}
	return 1 + n.Left.Size() + n.Right.Size()
}

// Depth returns the number of levels in the tree rooted at n.
func (n *TreeNode) Depth() int {
	if n == nil {
		return 0
	}
	return 1 + max(n.Left.Depth(), n.Right.Depth())
}

// Buffer is a typed numeric buffer. One-dimensional buffers model typed arrays,
// multi-dimensional ones model fixed-shape ndarrays. Data is stored row-major.
type Buffer struct {
	// Code is the element type: a typecode ("i", "f", "d", "u", "c") for arrays
	// or a dtype ("int", "float", "complex") for ndarrays.
	Code  string
	Shape []int
	Data  []any
}

// Len returns the number of elements the shape calls for.
func (b *Buffer) Len() int {
	n := 1
	for _, d := range b.Shape {
		n *= d
	}
	return n
}

func (b *Buffer) String() string {
	return fmt.Sprintf("buffer[%s]%v%v", b.Code, b.Shape, b.Data)
}
