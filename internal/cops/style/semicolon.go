package style

import (
	"bytes"

	"rblint/internal/ast"
	"rblint/internal/codemap"
	"rblint/internal/cop"
	"rblint/internal/source"
)

const semicolonMsg = "Do not use semicolons to terminate expressions."

// statementLists are the nodes whose children are statements separated by
// newlines or semicolons.
var statementLists = map[string]bool{
	"program":                  true,
	"body_statement":           true,
	"then":                     true,
	"else":                     true,
	"ensure":                   true,
	"begin":                    true,
	"do":                       true,
	"block_body":               true,
	"parenthesized_statements": true,
}

// Semicolon flags semicolons that end a line, start a line, or (unless
// AllowAsExpressionSeparator) separate two statements on one line.
type Semicolon struct{ cop.Base }

func (Semicolon) Name() string              { return "Style/Semicolon" }
func (Semicolon) SupportsAutocorrect() bool { return true }

func (Semicolon) CheckSource(src *source.File, tree *ast.Tree, cm *codemap.Map, cfg *cop.Config, out *cop.Sink) {
	if !hasCodeSemicolon(src.Content, cm) {
		return
	}
	allowSeparator := cfg.GetBool("AllowAsExpressionSeparator", false)

	var visit func(n ast.Node)
	visit = func(n ast.Node) {
		for i, count := 0, n.ChildCount(); i < count; i++ {
			child := n.Child(i)
			if child.IsNamed() {
				visit(child)
				continue
			}
			if child.Type() != ";" {
				continue
			}
			checkSemicolon(src, cm, n, i, child.StartOffset(), allowSeparator, out)
		}
	}
	visit(tree.Root)
}

func hasCodeSemicolon(content []byte, cm *codemap.Map) bool {
	for off := bytes.IndexByte(content, ';'); off >= 0; {
		if cm.IsCode(off) {
			return true
		}
		next := bytes.IndexByte(content[off+1:], ';')
		if next < 0 {
			return false
		}
		off += next + 1
	}
	return false
}

func checkSemicolon(src *source.File, cm *codemap.Map, parent ast.Node, index, off int, allowSeparator bool, out *cop.Sink) {
	line, col := src.OffsetToLineCol(off)
	lineStart := src.LineStart(line)
	lineEnd := src.LineEnd(line)

	before := bytes.TrimSpace(src.Content[lineStart:off])
	if len(before) == 0 {
		out.Report(line, col, semicolonMsg).Delete(off, off+1).Emit()
		return
	}
	if onlyTrivia(src.Content, cm, off+1, lineEnd) {
		trimmed := lineStart + len(bytes.TrimRight(src.Content[lineStart:off], " \t"))
		out.Report(line, col, semicolonMsg).Delete(trimmed, off+1).Emit()
		return
	}
	if allowSeparator || !statementLists[parent.Type()] || !separatesStatements(parent, index) {
		return
	}
	end := off + 1
	for end < lineEnd && (src.Content[end] == ' ' || src.Content[end] == '\t') {
		end++
	}
	out.Report(line, col, semicolonMsg).Replace(off, end, "\n"+string(indentOf(src.Content[lineStart:lineEnd]))).Emit()
}

// onlyTrivia reports whether [from, to) holds only whitespace and comments.
func onlyTrivia(content []byte, cm *codemap.Map, from, to int) bool {
	for off := from; off < to; off++ {
		switch content[off] {
		case ' ', '\t', '\r':
			continue
		}
		return cm.IsComment(off)
	}
	return true
}

func separatesStatements(parent ast.Node, index int) bool {
	return index > 0 && index+1 < parent.ChildCount() &&
		parent.Child(index-1).IsNamed() && parent.Child(index+1).IsNamed() &&
		parent.Child(index+1).Type() != "comment"
}

func indentOf(line []byte) []byte {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return line[:n]
}
