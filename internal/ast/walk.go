package ast

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Visitor receives named nodes in pre-order.
type Visitor interface {
	Enter(n Node)
}

// VisitorFunc adapts a function to Visitor.
type VisitorFunc func(Node)

func (f VisitorFunc) Enter(n Node) { f(n) }

// Walk visits every named node under root, root included, exactly once in
// pre-order. Comments are visited where the grammar attaches them.
func Walk(root Node, v Visitor) {
	if root.IsNil() {
		return
	}
	cur := sitter.NewTreeCursor(root.n)
	defer cur.Close()

	for {
		n := cur.CurrentNode()
		if n.IsNamed() {
			v.Enter(wrap(n))
		}
		if cur.GoToFirstChild() {
			continue
		}
		for !cur.GoToNextSibling() {
			if !cur.GoToParent() {
				return
			}
		}
	}
}

// Inspect is a recursive pre-order walk over named nodes; returning false
// from fn skips the node's children.
func Inspect(root Node, fn func(Node) bool) {
	if root.IsNil() || !fn(root) {
		return
	}
	for i, count := 0, root.NamedChildCount(); i < count; i++ {
		Inspect(root.NamedChild(i), fn)
	}
}
