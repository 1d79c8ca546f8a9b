package testkit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rblint/internal/cop"
	"rblint/internal/linter"
	"rblint/internal/source"
)

// Options tune a fixture run.
type Options struct {
	// Path is the file name reported to cops; defaults to "example.rb".
	Path string
	// Config maps cop names to option values.
	Config map[string]map[string]any
	// Mode defaults to AutocorrectOff for offense checks and to
	// AutocorrectAll for AssertCorrected.
	Mode cop.AutocorrectMode
	// ReportConflicts enables Lint/CorrectionConflict diagnostics.
	ReportConflicts bool
}

// Engine builds an engine in which every given cop is enabled.
func Engine(cops []cop.Cop, opts Options, passes int) *linter.Engine {
	reg := cop.NewRegistry()
	configs := make(map[string]*cop.Config, len(cops))
	for _, c := range cops {
		reg.Register(c)
		configs[c.Name()] = &cop.Config{Enabled: cop.EnabledTrue, Options: opts.Config[c.Name()]}
	}
	filter := cop.NewFilter(reg, cop.Policy{Configs: configs, Mode: opts.Mode})
	return linter.NewEngine(filter, linter.Options{MaxPasses: passes, ReportConflicts: opts.ReportConflicts})
}

// Run lints src once with cops and returns the raw result.
func Run(t testing.TB, cops []cop.Cop, src []byte, opts Options) linter.FileResult {
	t.Helper()
	path := opts.Path
	if path == "" {
		path = "example.rb"
	}
	res, err := Engine(cops, opts, 1).LintSource(context.Background(), source.NewFile(path, src))
	require.NoError(t, err)
	return res
}

// Offenses converts a result into fixture coordinates.
func Offenses(res linter.FileResult) []Offense {
	out := make([]Offense, 0, len(res.Diagnostics))
	for _, d := range res.Diagnostics {
		out = append(out, Offense{Line: d.Location.Line, Column: d.Location.Column, Cop: d.CopName, Message: d.Message})
	}
	sortOffenses(out)
	return out
}

// ExpectOffenses lints the annotated fixture and compares every diagnostic
// with the annotations.
func ExpectOffenses(t testing.TB, cops []cop.Cop, fixture string, opts Options) {
	t.Helper()
	fx := ParseFixture(fixture)
	got := Offenses(Run(t, cops, fx.Source, opts))
	if len(fx.Expected) == 0 {
		assert.Empty(t, got)
		return
	}
	assert.Equal(t, fx.Expected, got)
}

// ExpectNoOffenses asserts that src lints clean.
func ExpectNoOffenses(t testing.TB, cops []cop.Cop, src string, opts Options) {
	t.Helper()
	assert.Empty(t, Offenses(Run(t, cops, []byte(src), opts)))
}

// AssertCorrected runs the autocorrect loop on the (possibly annotated)
// fixture and compares the final content with want.
func AssertCorrected(t testing.TB, cops []cop.Cop, fixture, want string, opts Options) {
	t.Helper()
	if opts.Mode == cop.AutocorrectOff {
		opts.Mode = cop.AutocorrectAll
	}
	fx := ParseFixture(fixture)
	path := opts.Path
	if path == "" {
		path = "example.rb"
	}
	res, err := Engine(cops, opts, linter.DefaultMaxPasses).LintSource(context.Background(), source.NewFile(path, fx.Source))
	require.NoError(t, err)
	got := fx.Source
	if res.Output != nil {
		got = res.Output
	}
	assert.Equal(t, want, string(got))
}
