package lint

import (
	"fmt"
	"strings"

	"rblint/internal/ast"
	"rblint/internal/cop"
	"rblint/internal/diag"
	"rblint/internal/source"
)

// defaultDebuggerMethods mirrors the grouped DebuggerMethods setting.
var defaultDebuggerMethods = []string{
	"binding.irb", "Kernel.binding.irb",
	"byebug", "remote_byebug", "Kernel.byebug", "Kernel.remote_byebug",
	"page.save_and_open_page", "page.save_and_open_screenshot", "page.save_page", "page.save_screenshot",
	"save_and_open_page", "save_and_open_screenshot", "save_page", "save_screenshot",
	"binding.b", "binding.break", "Kernel.binding.b", "Kernel.binding.break",
	"binding.pry", "binding.remote_pry", "binding.pry_remote",
	"Kernel.binding.pry", "Kernel.binding.remote_pry", "Kernel.binding.pry_remote", "Pry.rescue", "pry",
	"debugger", "Kernel.debugger",
	"jard",
	"binding.console",
}

// Debugger flags calls to debugger entry points. DebuggerMethods may be a
// flat list or groups of lists; DebuggerRequires is accepted for
// compatibility and not checked.
type Debugger struct{ cop.Base }

func (Debugger) Name() string                   { return "Lint/Debugger" }
func (Debugger) DefaultSeverity() diag.Severity { return diag.SevWarning }
func (Debugger) InterestedNodeTypes() []string  { return []string{"call", "identifier"} }

func (Debugger) CheckNode(src *source.File, node ast.Node, _ *ast.Tree, cfg *cop.Config, out *cop.Sink) {
	methods, ok := cfg.GetFlatStringValues("DebuggerMethods")
	if !ok {
		methods = defaultDebuggerMethods
	}

	var name string
	switch node.Type() {
	case "call":
		if parent := node.Parent(); parent.Type() == "call" && parent.Field("receiver").Equal(node) {
			// binding.pry.foo is not a bare entry point
			return
		}
		name = callName(src, node)
	case "identifier":
		if !isBareCall(node) {
			return
		}
		name = node.Text(src.Content)
	}
	if name == "" || !contains(methods, name) {
		return
	}
	text := strings.TrimSpace(node.Text(src.Content))
	if strings.Contains(text, "\n") {
		text = name
	}
	out.ReportNode(node, fmt.Sprintf("Remove debugger entry point `%s`.", text)).Emit()
}

// callName renders receiver.method with whitespace removed.
func callName(src *source.File, call ast.Node) string {
	method := call.Field("method")
	if method.IsNil() {
		return ""
	}
	recv := call.Field("receiver")
	if recv.IsNil() {
		return method.Text(src.Content)
	}
	switch recv.Type() {
	case "identifier", "constant", "call", "scope_resolution":
	default:
		return ""
	}
	name := recv.Text(src.Content) + "." + method.Text(src.Content)
	return strings.Join(strings.Fields(name), "")
}

// isBareCall reports whether an identifier stands alone as a statement or
// argument rather than naming a method, a parameter or an assignment target.
func isBareCall(id ast.Node) bool {
	parent := id.Parent()
	switch parent.Type() {
	case "call", "method", "singleton_method", "method_parameters", "block_parameters",
		"lambda_parameters", "optional_parameter", "keyword_parameter", "splat_parameter",
		"hash_splat_parameter", "block_parameter", "pair", "alias", "undef":
		return false
	case "assignment", "operator_assignment":
		return !parent.Field("left").Equal(id)
	}
	return true
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
