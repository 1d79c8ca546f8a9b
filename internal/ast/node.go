package ast

import (
	sitter "github.com/smacker/go-tree-sitter"

	"rblint/internal/source"
)

// Node is a lightweight handle on a syntax node. The zero Node is nil.
type Node struct {
	n *sitter.Node
}

func wrap(n *sitter.Node) Node {
	return Node{n: n}
}

func (n Node) IsNil() bool {
	return n.n == nil
}

func (n Node) Kind() Kind {
	return Kind(n.n.Symbol())
}

// Type is the grammar name of the node ("call", "method", ...).
func (n Node) Type() string {
	if n.n == nil {
		return ""
	}
	return n.n.Type()
}

func (n Node) IsNamed() bool {
	return n.n != nil && n.n.IsNamed()
}

func (n Node) StartOffset() int {
	return int(n.n.StartByte())
}

func (n Node) EndOffset() int {
	return int(n.n.EndByte())
}

func (n Node) Span() source.Span {
	return source.Span{Start: n.StartOffset(), End: n.EndOffset()}
}

// StartLine is the 1-based line of the first byte.
func (n Node) StartLine() int {
	return int(n.n.StartPoint().Row) + 1
}

// EndLine is the 1-based line of the last byte.
func (n Node) EndLine() int {
	p := n.n.EndPoint()
	if p.Column == 0 && p.Row > 0 && n.EndOffset() > n.StartOffset() {
		return int(p.Row)
	}
	return int(p.Row) + 1
}

// Text returns the node's source text.
func (n Node) Text(src []byte) string {
	return n.n.Content(src)
}

func (n Node) Parent() Node {
	if n.n == nil {
		return Node{}
	}
	return wrap(n.n.Parent())
}

func (n Node) ChildCount() int {
	return int(n.n.ChildCount())
}

func (n Node) Child(i int) Node {
	return wrap(n.n.Child(i))
}

func (n Node) NamedChildCount() int {
	return int(n.n.NamedChildCount())
}

func (n Node) NamedChild(i int) Node {
	return wrap(n.n.NamedChild(i))
}

// NamedChildren collects the named children in order.
func (n Node) NamedChildren() []Node {
	count := n.NamedChildCount()
	out := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

// Field returns the child bound to a grammar field such as "receiver".
func (n Node) Field(name string) Node {
	if n.n == nil {
		return Node{}
	}
	return wrap(n.n.ChildByFieldName(name))
}

// Equal reports whether both handles point at the same syntax node.
func (n Node) Equal(other Node) bool {
	if n.n == nil || other.n == nil {
		return n.n == other.n
	}
	return n.n.Equal(other.n)
}

func (n Node) String() string {
	if n.n == nil {
		return "<nil>"
	}
	return n.n.String()
}
