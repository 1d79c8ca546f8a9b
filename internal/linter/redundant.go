package linter

import (
	"bytes"
	"fmt"

	"rblint/internal/cop"
	"rblint/internal/correction"
	"rblint/internal/directive"
	"rblint/internal/source"
)

// renamedCops maps retired cop names to their successors.
var renamedCops = map[string]string{
	"Layout/Tab":                       "Layout/IndentationStyle",
	"Layout/TrailingBlankLines":        "Layout/TrailingEmptyLines",
	"Lint/UnneededCopDisableDirective": "Lint/RedundantCopDisableDirective",
	"Metrics/LineLength":               "Layout/LineLength",
	"Naming/PredicateName":             "Naming/PredicatePrefix",
	"Style/MethodName":                 "Naming/MethodName",
	"Style/TrailingWhitespace":         "Layout/TrailingWhitespace",
}

// reportRedundant flags disable directives that suppressed nothing and
// could not have: the cop is renamed, disabled by configuration, or already
// disabled by an open directive. Directives for enabled cops, unknown cops,
// departments and "all" are left alone, as are runs restricted with --only.
func (e *Engine) reportRedundant(f *source.File, ranges *directive.Ranges, comments []directive.CommentSpan, active []cop.Entry, sink *cop.Sink) {
	if e.redundant < 0 || ranges.Empty() || len(e.filter.Policy().Only) > 0 {
		return
	}
	self, ok := findEntry(active, e.redundant)
	if !ok {
		return
	}

	failed := make(map[string]bool)
	for _, ie := range sink.InternalErrors() {
		failed[ie.Cop] = true
	}
	keysPerComment := make(map[int]int)
	for _, d := range ranges.Directives() {
		keysPerComment[directiveOffset(f, d)]++
	}

	e.bind(self, sink)
	for _, d := range ranges.Unused() {
		if d.Key == RedundantCop || failed[d.Key] || ranges.IsDisabled(RedundantCop, d.Line) {
			continue
		}
		msg, ok := e.redundantMessage(d)
		if !ok {
			continue
		}
		r := sink.Report(d.Line, d.Column, msg)
		start := directiveOffset(f, d)
		if keysPerComment[start] == 1 && sink.Correcting() {
			r.WithCorrections(removeComment(f, d, start, commentEnd(comments, start)))
		}
		r.Emit()
	}
}

func (e *Engine) redundantMessage(d directive.Directive) (string, bool) {
	if d.End == 0 {
		// duplicate of a disable that is already open
		return fmt.Sprintf("Unnecessary disabling of `%s`.", d.Key), true
	}
	if successor, ok := renamedCops[d.Key]; ok {
		if _, known := e.filter.Registry().Lookup(d.Key); !known {
			return fmt.Sprintf("Unnecessary disabling of `%s` (renamed to `%s`).", d.Key, successor), true
		}
	}
	entry, known := e.filter.Registry().Lookup(d.Key)
	if !known {
		return "", false
	}
	// enabled cops are never flagged, offenses or not
	if e.filter.Enabled(entry.Index) {
		return "", false
	}
	return fmt.Sprintf("Unnecessary disabling of `%s`.", d.Key), true
}

func findEntry(active []cop.Entry, idx int) (cop.Entry, bool) {
	for _, e := range active {
		if e.Index == idx {
			return e, true
		}
	}
	return cop.Entry{}, false
}

func directiveOffset(f *source.File, d directive.Directive) int {
	return f.LineStart(d.Line) + d.Column
}

func commentEnd(comments []directive.CommentSpan, start int) int {
	for _, c := range comments {
		if c.Start == start {
			return c.End
		}
	}
	return start
}

// removeComment deletes a directive comment: the whole line for a
// standalone one, the comment and the blanks before it for an inline one.
func removeComment(f *source.File, d directive.Directive, start, end int) correction.Correction {
	if !d.Inline {
		return correction.DeleteLine(f, d.Line)
	}
	lineStart := f.LineStart(d.Line)
	trimmed := bytes.TrimRight(f.Content[lineStart:start], " \t")
	return correction.Delete(lineStart+len(trimmed), end)
}
