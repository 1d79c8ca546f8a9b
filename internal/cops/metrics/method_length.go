package metrics

import (
	"bytes"
	"fmt"

	"rblint/internal/ast"
	"rblint/internal/cop"
	"rblint/internal/source"
)

// MethodLength limits the number of body lines of a method definition.
// Blank lines never count; comment lines count only with CountComments.
type MethodLength struct{ cop.Base }

func (MethodLength) Name() string { return "Metrics/MethodLength" }

func (MethodLength) InterestedNodeTypes() []string {
	return []string{"method", "singleton_method"}
}

func (MethodLength) CheckNode(src *source.File, node ast.Node, _ *ast.Tree, cfg *cop.Config, out *cop.Sink) {
	limit := cfg.GetInt("Max", 10)
	name := node.Field("name").Text(src.Content)
	if allowed, ok := cfg.GetStringArray("AllowedMethods"); ok && contains(allowed, name) {
		return
	}

	n := bodyLength(src, node, cfg.GetBool("CountComments", false))
	if n <= limit {
		return
	}
	out.ReportNode(node, fmt.Sprintf("Method has too many lines. [%d/%d]", n, limit)).Emit()
}

// bodyLength counts the lines strictly between the definition line and the
// closing `end`. An endless definition has no closing line.
func bodyLength(src *source.File, node ast.Node, countComments bool) int {
	first, last := node.StartLine()+1, node.EndLine()
	if endsWithKeyword(node) {
		last--
	}
	n := 0
	for line := first; line <= last; line++ {
		text := bytes.TrimSpace(src.Line(line))
		if len(text) == 0 {
			continue
		}
		if !countComments && text[0] == '#' {
			continue
		}
		n++
	}
	return n
}

func endsWithKeyword(node ast.Node) bool {
	count := node.ChildCount()
	return count > 0 && node.Child(count-1).Type() == "end"
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
