package ast

import (
	"context"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"
)

// SyntaxError is a point where the parser had to recover.
type SyntaxError struct {
	Offset  int
	Message string
}

// Tree is a parsed Ruby file.
type Tree struct {
	Root     Node
	Source   []byte
	Comments []Node
	Errors   []SyntaxError

	tree *sitter.Tree
}

// HasErrors reports whether the parser recovered from at least one syntax error.
func (t *Tree) HasErrors() bool {
	return len(t.Errors) > 0
}

var parsers = sync.Pool{
	New: func() any {
		p := sitter.NewParser()
		p.SetLanguage(ruby.GetLanguage())
		return p
	},
}

// Parse builds a Tree for src. The returned error is non-nil only when the
// parser could not run at all (for example ctx was cancelled).
func Parse(ctx context.Context, src []byte) (*Tree, error) {
	p, ok := parsers.Get().(*sitter.Parser)
	if !ok {
		return nil, fmt.Errorf("parser pool returned %T", p)
	}
	defer parsers.Put(p)

	st, err := p.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	root := st.RootNode()
	t := &Tree{
		Root:   wrap(root),
		Source: src,
		tree:   st,
	}
	t.collectExtras(root.HasError())
	return t, nil
}

// collectExtras gathers comments and, when the tree has errors, the
// recovery points.
func (t *Tree) collectExtras(hasError bool) {
	cur := sitter.NewTreeCursor(t.Root.n)
	defer cur.Close()

	for {
		n := cur.CurrentNode()
		descend := true
		switch {
		case n.Type() == "comment":
			t.Comments = append(t.Comments, wrap(n))
			descend = false
		case hasError && n.IsMissing():
			t.Errors = append(t.Errors, SyntaxError{
				Offset:  int(n.StartByte()),
				Message: fmt.Sprintf("missing `%s`", n.Type()),
			})
		case hasError && n.Type() == "ERROR":
			t.Errors = append(t.Errors, SyntaxError{
				Offset:  int(n.StartByte()),
				Message: unexpectedMessage(n, t.Source),
			})
		}
		if descend && cur.GoToFirstChild() {
			continue
		}
		for !cur.GoToNextSibling() {
			if !cur.GoToParent() {
				return
			}
		}
	}
}

func unexpectedMessage(n *sitter.Node, src []byte) string {
	if int(n.StartByte()) >= len(src) {
		return "unexpected end-of-input"
	}
	text := n.Content(src)
	if i := indexLineBreak(text); i >= 0 {
		text = text[:i]
	}
	if len(text) > 20 {
		text = text[:20]
	}
	return fmt.Sprintf("unexpected token `%s`", text)
}

func indexLineBreak(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return i
		}
	}
	return -1
}
