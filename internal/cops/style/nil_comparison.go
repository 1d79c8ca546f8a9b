package style

import (
	"rblint/internal/ast"
	"rblint/internal/cop"
	"rblint/internal/source"
)

// simpleReceivers need no parentheses in front of ".nil?".
var simpleReceivers = map[string]bool{
	"identifier":               true,
	"instance_variable":        true,
	"class_variable":           true,
	"global_variable":          true,
	"constant":                 true,
	"scope_resolution":         true,
	"call":                     true,
	"self":                     true,
	"element_reference":        true,
	"parenthesized_statements": true,
}

// NilComparison prefers `x.nil?` (EnforcedStyle predicate, the default)
// or `x == nil` (comparison).
type NilComparison struct{ cop.Base }

func (NilComparison) Name() string                  { return "Style/NilComparison" }
func (NilComparison) SupportsAutocorrect() bool     { return true }
func (NilComparison) InterestedNodeTypes() []string { return []string{"binary", "call"} }

func (NilComparison) CheckNode(src *source.File, node ast.Node, _ *ast.Tree, cfg *cop.Config, out *cop.Sink) {
	comparison := cfg.GetStr("EnforcedStyle", "predicate") == "comparison"
	switch node.Type() {
	case "binary":
		if comparison {
			return
		}
		op, left, right := node.Field("operator"), node.Field("left"), node.Field("right")
		if op.IsNil() || op.Type() != "==" || right.Type() != "nil" || left.IsNil() {
			return
		}
		recv := left.Text(src.Content)
		if !simpleReceivers[left.Type()] {
			recv = "(" + recv + ")"
		}
		out.ReportNode(op, "Prefer the use of the `nil?` predicate.").
			Replace(node.StartOffset(), node.EndOffset(), recv+".nil?").
			Emit()
	case "call":
		if !comparison {
			return
		}
		method, recv := node.Field("method"), node.Field("receiver")
		if recv.IsNil() || method.Text(src.Content) != "nil?" || !node.Field("arguments").IsNil() {
			return
		}
		out.ReportNode(method, "Prefer the use of the `==` comparison.").
			Replace(node.StartOffset(), node.EndOffset(), recv.Text(src.Content)+" == nil").
			Emit()
	}
}
