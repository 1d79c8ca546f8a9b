package metrics

import (
	"fmt"
	"math"

	"rblint/internal/ast"
	"rblint/internal/cop"
	"rblint/internal/source"
)

var (
	assignmentNodes = map[string]bool{
		"assignment":          true,
		"operator_assignment": true,
	}
	branchNodes = map[string]bool{
		"call":  true,
		"yield": true,
		"super": true,
	}
	conditionNodes = map[string]bool{
		"if":              true,
		"unless":          true,
		"elsif":           true,
		"else":            true,
		"while":           true,
		"until":           true,
		"for":             true,
		"when":            true,
		"in_clause":       true,
		"rescue":          true,
		"conditional":     true,
		"if_modifier":     true,
		"unless_modifier": true,
		"while_modifier":  true,
		"until_modifier":  true,
		"rescue_modifier": true,
	}
	conditionOperators = map[string]bool{
		"==": true, "!=": true, "===": true, "=~": true, "!~": true,
		"<": true, ">": true, "<=": true, ">=": true, "<=>": true,
		"&&": true, "||": true, "and": true, "or": true,
	}
)

// AbcSize limits the ABC metric of a method: the magnitude of the vector
// of assignments, branches (calls) and conditions.
type AbcSize struct{ cop.Base }

func (AbcSize) Name() string { return "Metrics/AbcSize" }

func (AbcSize) InterestedNodeTypes() []string {
	return []string{"method", "singleton_method"}
}

func (AbcSize) CheckNode(src *source.File, node ast.Node, _ *ast.Tree, cfg *cop.Config, out *cop.Sink) {
	limit := float64(cfg.GetInt("Max", 17))
	name := node.Field("name").Text(src.Content)
	if allowed, ok := cfg.GetStringArray("AllowedMethods"); ok && contains(allowed, name) {
		return
	}

	a, b, c := abc(src, node)
	sum := a*a + b*b + c*c
	score := math.Round(math.Sqrt(float64(sum))*100) / 100
	if score <= limit {
		return
	}
	out.ReportNode(node, fmt.Sprintf(
		"Assignment Branch Condition size for %s is too high. [<%d, %d, %d> %.4g/%.4g]",
		name, a, b, c, score, limit,
	)).Emit()
}

// abc counts the method body, skipping nested definitions.
func abc(src *source.File, def ast.Node) (a, b, c int) {
	ast.Inspect(def, func(n ast.Node) bool {
		if !n.Equal(def) && (n.Type() == "method" || n.Type() == "singleton_method") {
			return false
		}
		t := n.Type()
		switch {
		case assignmentNodes[t]:
			a++
		case branchNodes[t]:
			b++
		case conditionNodes[t]:
			c++
		case t == "binary":
			if op := n.Field("operator"); !op.IsNil() && conditionOperators[op.Text(src.Content)] {
				c++
			}
		}
		return true
	})
	return a, b, c
}
