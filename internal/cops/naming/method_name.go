package naming

import (
	"regexp"

	"rblint/internal/ast"
	"rblint/internal/cop"
	"rblint/internal/source"
)

var (
	snakeCaseRE = regexp.MustCompile(`^@{0,2}[\da-z_]+[!?=]?$`)
	camelCaseRE = regexp.MustCompile(`^@{0,2}_?[a-z][\da-zA-Z]+[!?=]?$`)
)

// MethodName checks that method names follow EnforcedStyle: snake_case
// (default) or camelCase. Operator methods are ignored.
type MethodName struct{ cop.Base }

func (MethodName) Name() string { return "Naming/MethodName" }

func (MethodName) InterestedNodeTypes() []string {
	return []string{"method", "singleton_method"}
}

func (MethodName) CheckNode(src *source.File, node ast.Node, _ *ast.Tree, cfg *cop.Config, out *cop.Sink) {
	nameNode := node.Field("name")
	if nameNode.IsNil() || nameNode.Type() == "operator" {
		return
	}
	name := nameNode.Text(src.Content)
	if name == "" || !isWordStart(name[0]) {
		return
	}
	if patterns, ok := cfg.GetStringArray("AllowedPatterns"); ok && matchesAny(patterns, name) {
		return
	}

	style := cfg.GetStr("EnforcedStyle", "snake_case")
	re, label := snakeCaseRE, "snake_case"
	if style == "camelCase" {
		re, label = camelCaseRE, "camelCase"
	}
	if re.MatchString(name) {
		return
	}
	out.ReportNode(nameNode, "Use "+label+" for method names.").Emit()
}

func isWordStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
}

// matchesAny ignores patterns that do not compile.
func matchesAny(patterns []string, name string) bool {
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err == nil && re.MatchString(name) {
			return true
		}
	}
	return false
}
