package gemspec

import (
	"fmt"
	"regexp"
	"strings"

	"rblint/internal/ast"
	"rblint/internal/codemap"
	"rblint/internal/cop"
	"rblint/internal/source"
)

var versionRE = regexp.MustCompile(`(\d+)(?:\.(\d+))?`)

// RequiredRubyVersion checks that a gemspec sets required_ruby_version and,
// when TargetRubyVersion is configured, that both name the same minor
// version.
type RequiredRubyVersion struct{ cop.Base }

func (RequiredRubyVersion) Name() string             { return "Gemspec/RequiredRubyVersion" }
func (RequiredRubyVersion) DefaultInclude() []string { return []string{"**/*.gemspec"} }

func (RequiredRubyVersion) CheckSource(src *source.File, tree *ast.Tree, _ *codemap.Map, cfg *cop.Config, out *cop.Sink) {
	value, found := findRequirement(src, tree)
	if !found {
		out.Report(1, 0, "`required_ruby_version` should be specified.").Emit()
		return
	}

	target := normalizeVersion(cfg.GetStr("TargetRubyVersion", ""))
	if target == "" || value.IsNil() {
		return
	}
	declared := normalizeVersion(value.Text(src.Content))
	if declared == "" || declared == target {
		return
	}
	out.ReportNode(value, fmt.Sprintf(
		"`required_ruby_version` and `TargetRubyVersion` (%s, which may be specified in .rubocop.yml) should be equal.",
		target,
	)).Emit()
}

// findRequirement locates `<spec>.required_ruby_version = value` and
// returns the value node.
func findRequirement(src *source.File, tree *ast.Tree) (ast.Node, bool) {
	var (
		value ast.Node
		found bool
	)
	ast.Inspect(tree.Root, func(n ast.Node) bool {
		if found {
			return false
		}
		if n.Type() != "assignment" {
			return true
		}
		left := n.Field("left")
		if left.Type() == "call" && left.Field("method").Text(src.Content) == "required_ruby_version" {
			value, found = n.Field("right"), true
			return false
		}
		return true
	})
	return value, found
}

// normalizeVersion extracts "major.minor" from a requirement or a version
// string; "3" becomes "3.0".
func normalizeVersion(s string) string {
	m := versionRE.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return ""
	}
	minor := m[2]
	if minor == "" {
		minor = "0"
	}
	return m[1] + "." + minor
}
