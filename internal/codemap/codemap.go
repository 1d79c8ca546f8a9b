// Package codemap classifies byte offsets of a Ruby file as code or
// non-code (comments, string literals, heredoc bodies, regexes and the
// __END__ data section).
package codemap

import (
	"sort"

	"rblint/internal/ast"
	"rblint/internal/source"
)

// Map holds merged, sorted, non-overlapping spans per category.
type Map struct {
	nonCode  []source.Span
	strings  []source.Span
	heredocs []source.Span
	regexes  []source.Span
	comments []source.Span
}

// Build scans tree once. A nil tree yields a map in which every offset is code.
func Build(tree *ast.Tree) *Map {
	m := &Map{}
	if tree == nil {
		return m
	}
	c := collector{}
	ast.Inspect(tree.Root, c.visit)
	for _, cm := range tree.Comments {
		c.comments = append(c.comments, cm.Span())
	}

	m.strings = merge(c.strings)
	m.heredocs = merge(c.heredocs)
	m.regexes = merge(c.regexes)
	m.comments = merge(c.comments)
	all := make([]source.Span, 0, len(m.strings)+len(m.comments))
	all = append(all, m.strings...)
	all = append(all, m.comments...)
	m.nonCode = merge(all)
	return m
}

func (m *Map) IsCode(offset int) bool {
	return !contains(m.nonCode, offset)
}

func (m *Map) IsNotString(offset int) bool {
	return !contains(m.strings, offset)
}

func (m *Map) IsHeredoc(offset int) bool {
	return contains(m.heredocs, offset)
}

func (m *Map) IsRegex(offset int) bool {
	return contains(m.regexes, offset)
}

func (m *Map) IsComment(offset int) bool {
	return contains(m.comments, offset)
}

// Comments returns the comment spans in source order.
func (m *Map) Comments() []source.Span {
	return m.comments
}

type collector struct {
	strings  []source.Span
	heredocs []source.Span
	regexes  []source.Span
	comments []source.Span
}

func (c *collector) visit(n ast.Node) bool {
	switch n.Type() {
	case "string", "subshell", "delimited_symbol", "string_array", "symbol_array", "character":
		c.strings = append(c.strings, literalParts(n)...)
		return true // interpolations may hold heredocs or nested literals
	case "regex":
		c.regexes = append(c.regexes, n.Span())
		c.strings = append(c.strings, literalParts(n)...)
		return true
	case "heredoc_beginning":
		c.strings = append(c.strings, n.Span())
		return false
	case "heredoc_body":
		c.strings = append(c.strings, n.Span())
		c.heredocs = append(c.heredocs, n.Span())
		return false
	case "uninterpreted":
		c.strings = append(c.strings, n.Span())
		return false
	}
	return true
}

// literalParts returns the node's span minus its interpolations.
func literalParts(n ast.Node) []source.Span {
	var out []source.Span
	cursor := n.StartOffset()
	for _, child := range n.NamedChildren() {
		if child.Type() != "interpolation" {
			continue
		}
		if child.StartOffset() > cursor {
			out = append(out, source.Span{Start: cursor, End: child.StartOffset()})
		}
		cursor = child.EndOffset()
	}
	if n.EndOffset() > cursor {
		out = append(out, source.Span{Start: cursor, End: n.EndOffset()})
	}
	return out
}

func merge(spans []source.Span) []source.Span {
	if len(spans) == 0 {
		return nil
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End < spans[j].End
	})
	out := spans[:1]
	for _, s := range spans[1:] {
		last := &out[len(out)-1]
		if s.Start <= last.End {
			last.End = max(last.End, s.End)
			continue
		}
		out = append(out, s)
	}
	return out
}

func contains(spans []source.Span, offset int) bool {
	i := sort.Search(len(spans), func(i int) bool { return spans[i].End > offset })
	return i < len(spans) && spans[i].Start <= offset
}
