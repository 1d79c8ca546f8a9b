package formatter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rblint/internal/diag"
	"rblint/internal/linter"
	"rblint/internal/source"
)

func sampleRun() *linter.RunResult {
	return &linter.RunResult{Files: []linter.FileResult{
		{Path: "lib/a.rb", Diagnostics: []diag.Diagnostic{
			{Path: "lib/a.rb", Location: diag.Location{Line: 1, Column: 5}, Severity: diag.SevConvention,
				CopName: "Layout/TrailingWhitespace", Message: "Trailing whitespace detected.", Corrected: true},
			{Path: "lib/a.rb", Location: diag.Location{Line: 2, Column: 2}, Severity: diag.SevWarning,
				CopName: "Lint/Debugger", Message: "Remove debugger entry point `binding.pry`."},
		}},
		{Path: "lib/b.rb"},
	}}
}

func render(t *testing.T, name string, opts Options, run *linter.RunResult) string {
	t.Helper()
	var buf bytes.Buffer
	f, err := New(name, &buf, opts)
	require.NoError(t, err)

	paths := make([]string, len(run.Files))
	for i := range run.Files {
		paths[i] = run.Files[i].Path
	}
	f.Started(paths)
	for i := range run.Files {
		f.FileFinished(&run.Files[i])
	}
	require.NoError(t, f.Finished(run))
	return buf.String()
}

func TestNewUnknownFormat(t *testing.T) {
	_, err := New("xml", &bytes.Buffer{}, Options{})
	assert.ErrorContains(t, err, "unknown format")
}

func TestSimple(t *testing.T) {
	out := render(t, "simple", Options{}, sampleRun())
	assert.Equal(t, "lib/a.rb:1:5: [C] Layout/TrailingWhitespace: Trailing whitespace detected. [Corrected]\n"+
		"lib/a.rb:2:2: [W] Lint/Debugger: Remove debugger entry point `binding.pry`.\n"+
		"\n"+
		"2 files inspected, 2 offenses detected, 1 offense corrected\n", out)
}

func TestSimpleClean(t *testing.T) {
	out := render(t, "text", Options{}, &linter.RunResult{Files: []linter.FileResult{{Path: "a.rb"}}})
	assert.Equal(t, "1 file inspected, no offenses detected\n", out)
}

func TestQuiet(t *testing.T) {
	out := render(t, "quiet", Options{}, &linter.RunResult{Files: []linter.FileResult{{Path: "a.rb"}}})
	assert.Empty(t, out)
}

func TestEmacs(t *testing.T) {
	out := render(t, "emacs", Options{}, sampleRun())
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[1], "lib/a.rb:2:3: W: Lint/Debugger: Remove debugger entry point `binding.pry`."), lines[1])
	assert.Contains(t, lines[0], ": C: [Corrected] Layout/TrailingWhitespace")
}

func TestClangQuotesSource(t *testing.T) {
	fset := source.NewFileSet()
	fset.Add(source.NewFile("lib/a.rb", []byte("x = 1  \n\tbinding.pry\n")))
	run := sampleRun()

	out := render(t, "clang", Options{Files: fset}, run)
	assert.Contains(t, out, "\tbinding.pry\n\t ^\n")
	assert.Contains(t, out, "x = 1  \n     ^\n")
}

func TestFiles(t *testing.T) {
	out := render(t, "files", Options{}, sampleRun())
	assert.Equal(t, "lib/a.rb\n", out)
}

func TestProgress(t *testing.T) {
	out := render(t, "progress", Options{}, sampleRun())
	assert.True(t, strings.HasPrefix(out, "Inspecting 2 files\nW.\n"), out)
	assert.Contains(t, out, "Offenses:")
	assert.Contains(t, out, "lib/a.rb:2:2: [W] Lint/Debugger")
	assert.True(t, strings.HasSuffix(out, "2 files inspected, 2 offenses detected, 1 offense corrected\n"))
}

func TestJSON(t *testing.T) {
	out := render(t, "json", Options{Version: "1.2.3"}, sampleRun())

	var doc OutputJSON
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "1.2.3", doc.Metadata.Version)
	require.Len(t, doc.Files, 2)
	assert.Empty(t, doc.Files[1].Offenses)
	off := doc.Files[0].Offenses[1]
	assert.Equal(t, "warning", off.Severity)
	assert.Equal(t, "Lint/Debugger", off.CopName)
	assert.Equal(t, 3, off.Location.StartColumn)
	assert.Equal(t, 2, off.Location.Column)
	assert.Equal(t, SummaryJSON{OffenseCount: 2, TargetFileCount: 2, InspectedFileCount: 2}, doc.Summary)
}

func TestSarif(t *testing.T) {
	out := render(t, "sarif", Options{Version: "1.2.3", Args: []string{"lib"}}, sampleRun())

	var doc sarifLog
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "2.1.0", doc.Version)
	require.Len(t, doc.Runs, 1)
	run := doc.Runs[0]
	assert.NotEmpty(t, run.AutomationDetails.GUID)
	require.Len(t, run.Results, 1, "corrected offenses are omitted")
	assert.Equal(t, "Lint/Debugger", run.Results[0].RuleID)
	assert.Equal(t, "warning", run.Results[0].Level)
	assert.Equal(t, []sarifRule{{ID: "Lint/Debugger"}}, run.Tool.Driver.Rules)
	assert.True(t, run.Invocations[0].ExecutionSuccessful)
}

func TestGitHub(t *testing.T) {
	out := render(t, "github", Options{}, sampleRun())
	assert.Equal(t, "::warning file=lib/a.rb,line=2,col=3::Lint/Debugger: Remove debugger entry point `binding.pry`.\n", out)
	assert.Equal(t, "a%25b%0Ac", dataEscaper.Replace("a%b\nc"))
}

func TestNamesAreSorted(t *testing.T) {
	names := Names()
	assert.Contains(t, names, "progress")
	assert.IsIncreasing(t, names)
}
