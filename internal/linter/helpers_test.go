package linter

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"rblint/internal/cop"
	"rblint/internal/diag"
	"rblint/internal/source"
)

// replaceCop reports the first occurrence of from on each line and
// replaces it with to.
type replaceCop struct {
	cop.Base
	name     string
	from, to string
	severity diag.Severity
}

func (c replaceCop) Name() string              { return c.name }
func (c replaceCop) SupportsAutocorrect() bool { return true }

func (c replaceCop) DefaultSeverity() diag.Severity {
	if c.severity == 0 {
		return diag.SevConvention
	}
	return c.severity
}

func (c replaceCop) CheckLines(src *source.File, _ *cop.Config, out *cop.Sink) {
	for i, line := range src.Lines() {
		col := bytes.Index(line, []byte(c.from))
		if col < 0 {
			continue
		}
		start := src.LineStart(i+1) + col
		out.Report(i+1, col, "Found "+c.from+".").Replace(start, start+len(c.from), c.to).Emit()
	}
}

type panicCop struct{ cop.Base }

func (panicCop) Name() string { return "Test/Panic" }

func (panicCop) CheckLines(*source.File, *cop.Config, *cop.Sink) {
	panic("boom")
}

func newEngine(cops []cop.Cop, mode cop.AutocorrectMode, opts Options) *Engine {
	return newEngineDisabling(cops, nil, mode, opts)
}

// newEngineDisabling registers cops like newEngine but turns off the
// named ones through configuration.
func newEngineDisabling(cops []cop.Cop, disabled []string, mode cop.AutocorrectMode, opts Options) *Engine {
	reg := cop.NewRegistry()
	configs := make(map[string]*cop.Config, len(cops))
	for _, c := range cops {
		reg.Register(c)
		configs[c.Name()] = &cop.Config{Enabled: cop.EnabledTrue}
	}
	for _, name := range disabled {
		configs[name] = &cop.Config{Enabled: cop.EnabledFalse}
	}
	return NewEngine(cop.NewFilter(reg, cop.Policy{Configs: configs, Mode: mode}), opts)
}

func lintSource(t *testing.T, e *Engine, src string) FileResult {
	t.Helper()
	res, err := e.LintSource(context.Background(), source.NewFile("example.rb", []byte(src)))
	require.NoError(t, err)
	return res
}

func copNames(ds []diag.Diagnostic) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.CopName
	}
	return out
}
