package linter

import (
	"sort"
	"strconv"

	"rblint/internal/diag"
)

// Exit codes of a run.
const (
	ExitClean    = 0
	ExitOffenses = 1
	ExitInternal = 2
)

// FileResult is the outcome of linting one file.
type FileResult struct {
	Path        string
	Diagnostics []diag.Diagnostic
	// Output is the corrected content, nil when nothing changed.
	Output []byte
	// Passes is the number of pipeline passes the file took.
	Passes int
	// Internal is set when a cop panicked or the file could not be read.
	Internal bool
	Cached   bool
}

// Changed reports whether corrections rewrote the file.
func (r *FileResult) Changed() bool {
	return r.Output != nil
}

// CorrectedCount returns the number of corrected diagnostics.
func (r *FileResult) CorrectedCount() int {
	n := 0
	for i := range r.Diagnostics {
		if r.Diagnostics[i].Corrected {
			n++
		}
	}
	return n
}

// RunResult aggregates a whole run in path order.
type RunResult struct {
	Files []FileResult
	// Stopped is set when FailFast cut the run short.
	Stopped bool
}

// Diagnostics returns every diagnostic of the run, sorted.
func (r *RunResult) Diagnostics() []diag.Diagnostic {
	var out []diag.Diagnostic
	for i := range r.Files {
		out = append(out, r.Files[i].Diagnostics...)
	}
	diag.SortDiagnostics(out)
	return out
}

// Internal reports whether any file hit an internal or IO error.
func (r *RunResult) Internal() bool {
	for i := range r.Files {
		if r.Files[i].Internal {
			return true
		}
	}
	return false
}

// Failing reports whether some uncorrected diagnostic is at or above level.
func (r *RunResult) Failing(level diag.Severity) bool {
	for i := range r.Files {
		if failing(r.Files[i].Diagnostics, level) {
			return true
		}
	}
	return false
}

func failing(ds []diag.Diagnostic, level diag.Severity) bool {
	for i := range ds {
		if !ds[i].Corrected && ds[i].Severity >= level {
			return true
		}
	}
	return false
}

// ExitCode maps the run to 0 (clean), 1 (offenses at or above level) or
// 2 (internal error).
func (r *RunResult) ExitCode(level diag.Severity) int {
	switch {
	case r.Internal():
		return ExitInternal
	case r.Failing(level):
		return ExitOffenses
	}
	return ExitClean
}

func sortFiles(files []FileResult) {
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
