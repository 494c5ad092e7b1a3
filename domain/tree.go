package domain

import (
	"fmt"

	"pgregory.net/rapid"

	"github.com/broady/sigprop/ir"
	"github.com/broady/sigprop/value"
)

type treeShape struct {
	hints TreeHints
}

func (s *treeShape) Tag() string { return ir.DomainBinaryTree }

func (s *treeShape) Generator() *rapid.Generator[any] {
	return rapid.Custom(func(t *rapid.T) any {
		return s.draw(t, 0)
	})
}

func (s *treeShape) draw(t *rapid.T, level int) *value.TreeNode {
	n := &value.TreeNode{Value: int(rapid.Int32().Draw(t, "value"))}
	if level < s.hints.Depth {
		if rapid.Bool().Draw(t, "left") {
			n.Left = s.draw(t, level+1)
		}
		if rapid.Bool().Draw(t, "right") {
			n.Right = s.draw(t, level+1)
		}
	}
	return n
}

func (s *treeShape) Check(v any, deep bool) error {
	n, ok := v.(*value.TreeNode)
	if !ok {
		return fmt.Errorf("want Node, got %T", v)
	}
	if n == nil {
		return fmt.Errorf("want Node, got nil")
	}
	if !deep {
		return nil
	}
	seen := make(map[*value.TreeNode]bool)
	var walk func(n *value.TreeNode) error
	walk = func(n *value.TreeNode) error {
		if n == nil {
			return nil
		}
		if seen[n] {
			return fmt.Errorf("node %d is reachable twice", n.Value)
		}
		seen[n] = true
		if err := walk(n.Left); err != nil {
			return err
		}
		return walk(n.Right)
	}
	return walk(n)
}

func (s *treeShape) Describe(x string) string {
	return fmt.Sprintf("isinstance(%s, Node)", x)
}
