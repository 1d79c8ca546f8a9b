package linter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rblint/internal/cop"
	"rblint/internal/cops/layout"
	"rblint/internal/cops/lint"
	"rblint/internal/diag"
	"rblint/internal/source"
)

func TestLintSourceClean(t *testing.T) {
	e := newEngine([]cop.Cop{layout.TrailingWhitespace{}}, cop.AutocorrectOff, Options{})
	res := lintSource(t, e, "x = 1\n")

	assert.Empty(t, res.Diagnostics)
	assert.Nil(t, res.Output)
	assert.Equal(t, 1, res.Passes)
	assert.False(t, res.Internal)
}

func TestLintSourceDirectives(t *testing.T) {
	e := newEngine([]cop.Cop{layout.TrailingWhitespace{}}, cop.AutocorrectOff, Options{})
	res := lintSource(t, e, "# rubocop:disable Layout/TrailingWhitespace\n"+
		"x = 1  \n"+
		"# rubocop:enable Layout/TrailingWhitespace\n"+
		"y = 2  \n"+
		"z = 3  # rubocop:disable Layout/TrailingWhitespace\n")

	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, 4, res.Diagnostics[0].Location.Line)
}

func TestLintSourceSyntaxError(t *testing.T) {
	e := newEngine([]cop.Cop{layout.TrailingWhitespace{}, lint.Debugger{}}, cop.AutocorrectOff, Options{})
	res := lintSource(t, e, "# rubocop:disable all\ndef foo(  \n  binding.pry\n")

	var syntax []diag.Diagnostic
	for _, d := range res.Diagnostics {
		if d.CopName == SyntaxCop {
			syntax = append(syntax, d)
		}
	}
	require.Len(t, syntax, 1, "exactly one syntax diagnostic, never suppressed")
	assert.Equal(t, diag.SevFatal, syntax[0].Severity)
	assert.NotContains(t, copNames(res.Diagnostics), "Lint/Debugger")
}

func TestLintSourceLineChecksRunOnBrokenFiles(t *testing.T) {
	e := newEngine([]cop.Cop{layout.TrailingWhitespace{}}, cop.AutocorrectOff, Options{})
	res := lintSource(t, e, "def foo(  \n")
	assert.ElementsMatch(t, []string{SyntaxCop, "Layout/TrailingWhitespace"}, copNames(res.Diagnostics))
}

func TestLintSourceInternalError(t *testing.T) {
	e := newEngine([]cop.Cop{panicCop{}, layout.TrailingWhitespace{}}, cop.AutocorrectOff, Options{})
	res := lintSource(t, e, "x = 1 \n")

	assert.True(t, res.Internal)
	require.Len(t, res.Diagnostics, 2)
	d := res.Diagnostics[0]
	assert.Equal(t, "Test/Panic", d.CopName)
	assert.Equal(t, diag.SevWarning, d.Severity)
	assert.Equal(t, diag.Location{Line: 1, Column: 0}, d.Location)
	assert.Equal(t, "An error occurred while Test/Panic cop was inspecting example.rb: boom", d.Message)
	assert.Equal(t, "Layout/TrailingWhitespace", res.Diagnostics[1].CopName)
}

func TestLintSourceCorrects(t *testing.T) {
	e := newEngine([]cop.Cop{layout.TrailingWhitespace{}}, cop.AutocorrectSafe, Options{MaxPasses: DefaultMaxPasses})
	res := lintSource(t, e, "x = 1  \ny = 2\t\n")

	assert.Equal(t, "x = 1\ny = 2\n", string(res.Output))
	assert.Equal(t, 2, res.CorrectedCount())
	assert.Equal(t, 2, res.Passes)
}

func TestLintSourceAutocorrectOffLeavesContent(t *testing.T) {
	e := newEngine([]cop.Cop{layout.TrailingWhitespace{}}, cop.AutocorrectOff, Options{})
	res := lintSource(t, e, "x = 1  \n")

	assert.Nil(t, res.Output)
	require.Len(t, res.Diagnostics, 1)
	assert.False(t, res.Diagnostics[0].Corrected)
}

func TestLintSourceIteratesUntilStable(t *testing.T) {
	shrink := replaceCop{name: "Test/Shrink", from: "aa", to: "a"}
	e := newEngine([]cop.Cop{shrink}, cop.AutocorrectAll, Options{MaxPasses: DefaultMaxPasses})
	res := lintSource(t, e, "x = :aaaa\n")

	assert.Equal(t, "x = :a\n", string(res.Output))
	assert.Equal(t, 4, res.Passes)
	assert.Equal(t, 3, res.CorrectedCount())
	assert.Len(t, res.Diagnostics, 3)
}

func TestLintSourceStopsAtMaxPasses(t *testing.T) {
	shrink := replaceCop{name: "Test/Shrink", from: "aa", to: "a"}
	e := newEngine([]cop.Cop{shrink}, cop.AutocorrectAll, Options{MaxPasses: 2})
	res := lintSource(t, e, "x = :aaaa\n")

	assert.Equal(t, "x = :aa\n", string(res.Output))
	assert.Equal(t, 2, res.Passes)
}

func TestLintSourceDetectsLoops(t *testing.T) {
	cops := []cop.Cop{
		replaceCop{name: "Test/AToB", from: ":a", to: ":b"},
		replaceCop{name: "Test/BToA", from: ":b", to: ":a"},
	}
	e := newEngine(cops, cop.AutocorrectAll, Options{MaxPasses: DefaultMaxPasses})
	res := lintSource(t, e, "x = :a\n")

	assert.Equal(t, 2, res.Passes)
	assert.Equal(t, "x = :b\n", string(res.Output), "the pass returning to :a is discarded")
	require.Len(t, res.Diagnostics, 2)
	byCop := make(map[string]diag.Diagnostic)
	for _, d := range res.Diagnostics {
		byCop[d.CopName] = d
	}
	assert.True(t, byCop["Test/AToB"].Corrected)
	assert.False(t, byCop["Test/BToA"].Corrected)
}

func TestLintSourceConflicts(t *testing.T) {
	cops := []cop.Cop{
		replaceCop{name: "Test/Bar", from: "foo", to: "bar"},
		replaceCop{name: "Test/Baz", from: "foo", to: "baz"},
	}
	e := newEngine(cops, cop.AutocorrectAll, Options{MaxPasses: 1, ReportConflicts: true})
	res := lintSource(t, e, "foo\n")

	assert.Equal(t, "bar\n", string(res.Output))
	byCop := make(map[string]diag.Diagnostic)
	for _, d := range res.Diagnostics {
		byCop[d.CopName] = d
	}
	assert.True(t, byCop["Test/Bar"].Corrected)
	assert.False(t, byCop["Test/Baz"].Corrected)
	conflict, ok := byCop[ConflictCop]
	require.True(t, ok)
	assert.Equal(t, diag.SevInfo, conflict.Severity)
	assert.Equal(t, "Correction for Test/Baz overlaps another correction and was not applied.", conflict.Message)
}

func TestLintSourceRevertsBreakingCorrections(t *testing.T) {
	breaker := replaceCop{name: "Test/Breaker", from: "end", to: ""}
	e := newEngine([]cop.Cop{breaker}, cop.AutocorrectAll, Options{MaxPasses: DefaultMaxPasses})
	res := lintSource(t, e, "def foo\nend\n")

	assert.Nil(t, res.Output)
	require.Len(t, res.Diagnostics, 1)
	assert.False(t, res.Diagnostics[0].Corrected)
}

func TestRedundantDisableDirective(t *testing.T) {
	cops := []cop.Cop{layout.TrailingWhitespace{}, lint.RedundantCopDisableDirective{}}
	e := newEngine(cops, cop.AutocorrectOff, Options{})
	res := lintSource(t, e, "x = 1 # rubocop:disable Layout/TrailingWhitespace\n"+
		"# rubocop:disable Metrics/LineLength\n"+
		"# rubocop:disable Foo/Bar, Style\n"+
		"y = 2\n")

	// enabled cops are never flagged, even without offenses
	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, diag.Location{Line: 2, Column: 0}, d.Location)
	assert.Equal(t, "Unnecessary disabling of `Metrics/LineLength` (renamed to `Layout/LineLength`).", d.Message)
	assert.Equal(t, diag.SevWarning, d.Severity)
}

func TestRedundantDisableDirectiveDisabledCop(t *testing.T) {
	cops := []cop.Cop{layout.TrailingWhitespace{}, lint.RedundantCopDisableDirective{}}
	e := newEngineDisabling(cops, []string{"Layout/TrailingWhitespace"}, cop.AutocorrectOff, Options{})
	res := lintSource(t, e, "x = 1 # rubocop:disable Layout/TrailingWhitespace\n")

	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, RedundantCop, d.CopName)
	assert.Equal(t, diag.Location{Line: 1, Column: 6}, d.Location)
	assert.Equal(t, "Unnecessary disabling of `Layout/TrailingWhitespace`.", d.Message)
}

func TestRedundantDisableDirectiveUsed(t *testing.T) {
	cops := []cop.Cop{replaceCop{name: "Test/Foo", from: "foo", to: "bar"}, lint.RedundantCopDisableDirective{}}
	e := newEngine(cops, cop.AutocorrectOff, Options{})
	res := lintSource(t, e, "foo = 1 # rubocop:disable Test/Foo\n")
	assert.Empty(t, res.Diagnostics)
}

func TestRedundantDisableDirectiveCorrection(t *testing.T) {
	cops := []cop.Cop{layout.TrailingWhitespace{}, lint.RedundantCopDisableDirective{}}
	e := newEngineDisabling(cops, []string{"Layout/TrailingWhitespace"}, cop.AutocorrectSafe, Options{MaxPasses: DefaultMaxPasses})
	res := lintSource(t, e, "x = 1 # rubocop:disable Layout/TrailingWhitespace\n"+
		"# rubocop:disable Layout/TrailingWhitespace\n"+
		"y = 2\n")

	assert.Equal(t, "x = 1\ny = 2\n", string(res.Output))
	assert.Equal(t, 2, res.CorrectedCount())
}

func TestRedundantDisableDirectiveSkippedUnderOnly(t *testing.T) {
	reg := cop.NewRegistry()
	reg.Register(layout.TrailingWhitespace{})
	reg.Register(lint.RedundantCopDisableDirective{})
	filter := cop.NewFilter(reg, cop.Policy{Only: []string{"Layout/TrailingWhitespace", RedundantCop}})
	e := NewEngine(filter, Options{})

	res := lintSource(t, e, "x = 1 # rubocop:disable Metrics/LineLength\n")
	assert.Empty(t, res.Diagnostics)
}

func TestLintSourceExplicitFileIgnoresAllCopsExclude(t *testing.T) {
	reg := cop.NewRegistry()
	reg.Register(layout.TrailingWhitespace{})
	filter := cop.NewFilter(reg, cop.Policy{Exclude: []string{"vendor/**/*"}})
	file := source.NewFile("vendor/skip.rb", []byte("x = 1 \n"))
	explicit := map[string]bool{"vendor/skip.rb": true}

	res, err := NewEngine(filter, Options{Explicit: explicit}).LintSource(context.Background(), file)
	require.NoError(t, err)
	assert.Equal(t, []string{"Layout/TrailingWhitespace"}, copNames(res.Diagnostics))

	res, err = NewEngine(filter, Options{Explicit: explicit, ForceExclusion: true}).LintSource(context.Background(), file)
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)

	res, err = NewEngine(filter, Options{}).LintSource(context.Background(), file)
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics, "discovered files keep AllCops exclusion")
}
