package formatter

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"rblint/internal/diag"
	"rblint/internal/linter"
	"rblint/internal/source"
)

// line renders the canonical text line with the display path and colors.
func line(p palette, d diag.Diagnostic, root string) string {
	var sb strings.Builder
	sb.WriteString(p.path.Sprint(displayPath(d.Path, root)))
	fmt.Fprintf(&sb, ":%d:%d: ", d.Location.Line, d.Location.Column)
	sb.WriteString(p.sev(d.Severity, "["+string(d.Severity.Letter())+"]"))
	sb.WriteString(" ")
	sb.WriteString(d.CopName)
	sb.WriteString(": ")
	sb.WriteString(d.Message)
	if d.Corrected {
		sb.WriteString(" ")
		sb.WriteString(p.corrected.Sprint("[Corrected]"))
	}
	return sb.String()
}

// simple prints one line per diagnostic as files finish and a summary.
type simple struct {
	w       *bufio.Writer
	opts    Options
	p       palette
	summary bool
}

func newSimple(w io.Writer, opts Options) Formatter {
	return &simple{w: bufio.NewWriter(w), opts: opts, p: newPalette(opts.Color), summary: true}
}

func newQuiet(w io.Writer, opts Options) Formatter {
	return &simple{w: bufio.NewWriter(w), opts: opts, p: newPalette(opts.Color)}
}

func (s *simple) Started([]string) {}

func (s *simple) FileFinished(res *linter.FileResult) {
	for _, d := range res.Diagnostics {
		fmt.Fprintln(s.w, line(s.p, d, s.opts.Root))
	}
}

func (s *simple) Finished(run *linter.RunResult) error {
	if s.summary {
		t := count(run)
		if t.offenses > 0 {
			fmt.Fprintln(s.w)
		}
		fmt.Fprintln(s.w, s.p.summary.Sprint(t.String()))
	}
	return s.w.Flush()
}

// emacs prints absolute paths and 1-based columns for compilation-mode.
type emacs struct {
	w *bufio.Writer
}

func newEmacs(w io.Writer, _ Options) Formatter {
	return &emacs{w: bufio.NewWriter(w)}
}

func (e *emacs) Started([]string) {}

func (e *emacs) FileFinished(res *linter.FileResult) {
	for _, d := range res.Diagnostics {
		path := d.Path
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		tag := ""
		if d.Corrected {
			tag = "[Corrected] "
		}
		fmt.Fprintf(e.w, "%s:%d:%d: %c: %s%s: %s\n",
			path, d.Location.Line, d.Location.Column+1, d.Severity.Letter(), tag, d.CopName, d.Message)
	}
}

func (e *emacs) Finished(*linter.RunResult) error {
	return e.w.Flush()
}

// clang quotes the offending source line with a caret under the column.
type clang struct {
	simple
}

func newClang(w io.Writer, opts Options) Formatter {
	return &clang{simple{w: bufio.NewWriter(w), opts: opts, p: newPalette(opts.Color), summary: true}}
}

func (c *clang) FileFinished(res *linter.FileResult) {
	var f *source.File
	if c.opts.Files != nil {
		f, _ = c.opts.Files.GetByPath(res.Path)
	}
	for _, d := range res.Diagnostics {
		fmt.Fprintln(c.w, line(c.p, d, c.opts.Root))
		writeContext(c.w, c.p, f, d)
	}
}

// writeContext prints the source line of d and a caret. Corrected files
// show their original content; files without content are skipped.
func writeContext(w io.Writer, p palette, f *source.File, d diag.Diagnostic) {
	if f == nil || d.Location.Line < 1 || d.Location.Line > f.LineCount() {
		return
	}
	text := strings.TrimRight(string(f.Line(d.Location.Line)), "\r\n")
	col := min(d.Location.Column, len(text))
	// keep tabs so the caret lines up
	pad := strings.Map(func(r rune) rune {
		if r == '\t' {
			return '\t'
		}
		return ' '
	}, text[:col])
	fmt.Fprintln(w, text)
	fmt.Fprintln(w, pad+p.sev(d.Severity, "^"))
}

// files lists each path with uncorrected offenses once.
type files struct {
	w *bufio.Writer
}

func newFiles(w io.Writer, _ Options) Formatter {
	return &files{w: bufio.NewWriter(w)}
}

func (f *files) Started([]string) {}

func (f *files) FileFinished(res *linter.FileResult) {
	for _, d := range res.Diagnostics {
		if !d.Corrected {
			fmt.Fprintln(f.w, res.Path)
			return
		}
	}
}

func (f *files) Finished(*linter.RunResult) error {
	return f.w.Flush()
}

// progress prints one character per file while the run is going and the
// offenses at the end.
type progress struct {
	simple
	results []linter.FileResult
}

func newProgress(w io.Writer, opts Options) Formatter {
	return &progress{simple: simple{w: bufio.NewWriter(w), opts: opts, p: newPalette(opts.Color), summary: true}}
}

func (p *progress) Started(files []string) {
	fmt.Fprintf(p.w, "Inspecting %s\n", plural(len(files), "file"))
	_ = p.w.Flush()
}

func (p *progress) FileFinished(res *linter.FileResult) {
	mark := "."
	if worst, ok := worstUncorrected(res.Diagnostics); ok {
		mark = p.p.sev(worst, string(worst.Letter()))
	} else if len(res.Diagnostics) > 0 {
		mark = p.p.corrected.Sprint("_")
	}
	p.w.WriteString(mark)
	_ = p.w.Flush()
	if len(res.Diagnostics) > 0 {
		p.results = append(p.results, *res)
	}
}

func (p *progress) Finished(run *linter.RunResult) error {
	fmt.Fprintln(p.w)
	if len(p.results) > 0 {
		fmt.Fprintln(p.w, "\nOffenses:")
		fmt.Fprintln(p.w)
		var f *source.File
		for i := range p.results {
			if p.opts.Files != nil {
				f, _ = p.opts.Files.GetByPath(p.results[i].Path)
			}
			for _, d := range p.results[i].Diagnostics {
				fmt.Fprintln(p.w, line(p.p, d, p.opts.Root))
				writeContext(p.w, p.p, f, d)
			}
		}
	}
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.p.summary.Sprint(count(run).String()))
	return p.w.Flush()
}

func worstUncorrected(ds []diag.Diagnostic) (diag.Severity, bool) {
	var (
		worst diag.Severity
		found bool
	)
	for _, d := range ds {
		if d.Corrected {
			continue
		}
		if !found || d.Severity > worst {
			worst, found = d.Severity, true
		}
	}
	return worst, found
}
