// Package cops assembles the built-in cop catalogue.
package cops

import (
	"rblint/internal/cop"
	"rblint/internal/cops/gemspec"
	"rblint/internal/cops/layout"
	"rblint/internal/cops/lint"
	"rblint/internal/cops/metrics"
	"rblint/internal/cops/naming"
	"rblint/internal/cops/style"
)

// All lists the built-in cops in registration order. The order is part of
// the correction tie-break and must stay stable.
func All() []cop.Cop {
	return []cop.Cop{
		gemspec.RequiredRubyVersion{},
		layout.IndentationStyle{},
		layout.LineLength{},
		layout.TrailingEmptyLines{},
		layout.TrailingWhitespace{},
		lint.Debugger{},
		lint.RedundantCopDisableDirective{},
		metrics.AbcSize{},
		metrics.BlockNesting{},
		metrics.MethodLength{},
		naming.MethodName{},
		style.AsciiComments{},
		style.Encoding{},
		style.FrozenStringLiteralComment{},
		style.NilComparison{},
		style.Semicolon{},
	}
}

// Default returns a registry holding every built-in cop.
func Default() *cop.Registry {
	reg := cop.NewRegistry()
	for _, c := range All() {
		reg.Register(c)
	}
	return reg
}
