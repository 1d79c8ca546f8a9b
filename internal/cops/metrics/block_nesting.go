package metrics

import (
	"fmt"

	"rblint/internal/ast"
	"rblint/internal/codemap"
	"rblint/internal/cop"
	"rblint/internal/source"
)

var nestingNodes = map[string]bool{
	"if":              true,
	"unless":          true,
	"case":            true,
	"case_match":      true,
	"while":           true,
	"until":           true,
	"for":             true,
	"rescue":          true,
	"if_modifier":     true,
	"unless_modifier": true,
	"while_modifier":  true,
	"until_modifier":  true,
}

// BlockNesting limits how deeply conditionals and loops nest. With
// CountBlocks, blocks count as well. Only the outermost node past the
// limit is reported.
type BlockNesting struct{ cop.Base }

func (BlockNesting) Name() string { return "Metrics/BlockNesting" }

func (BlockNesting) CheckSource(_ *source.File, tree *ast.Tree, _ *codemap.Map, cfg *cop.Config, out *cop.Sink) {
	limit := cfg.GetInt("Max", 3)
	countBlocks := cfg.GetBool("CountBlocks", false)
	msg := fmt.Sprintf("Avoid more than %d levels of block nesting.", limit)

	type frame struct {
		node  ast.Node
		level int
	}
	stack := []frame{{node: tree.Root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		level := top.level
		if counts(top.node, countBlocks) {
			level++
			if level > limit {
				out.ReportNode(top.node, msg).Emit()
				continue
			}
		}
		children := top.node.NamedChildren()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: children[i], level: level})
		}
	}
}

func counts(n ast.Node, countBlocks bool) bool {
	t := n.Type()
	if nestingNodes[t] {
		return true
	}
	return countBlocks && (t == "block" || t == "do_block")
}
