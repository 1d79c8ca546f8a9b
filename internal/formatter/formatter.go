// Package formatter renders lint results. Every formatter receives files
// as they finish and the whole run at the end; streaming formatters write
// early, document formatters (json, sarif) write once in Finished.
package formatter

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"

	"rblint/internal/diag"
	"rblint/internal/linter"
	"rblint/internal/source"
)

// Formatter receives results in completion order. FileFinished is never
// called concurrently.
type Formatter interface {
	Started(files []string)
	FileFinished(res *linter.FileResult)
	Finished(run *linter.RunResult) error
}

// Options shared by all formatters.
type Options struct {
	Color bool
	// Root makes paths relative when set.
	Root string
	// Files supplies source lines for formatters that quote them.
	Files *source.FileSet
	// Version and Args describe the invocation in document formats.
	Version string
	Args    []string
}

type factory func(w io.Writer, opts Options) Formatter

var formatters = map[string]factory{
	"progress": newProgress,
	"simple":   newSimple,
	"text":     newSimple,
	"quiet":    newQuiet,
	"emacs":    newEmacs,
	"clang":    newClang,
	"files":    newFiles,
	"json":     newJSON,
	"sarif":    newSarif,
	"github":   newGitHub,
}

// Names lists the accepted formatter names.
func Names() []string {
	out := make([]string, 0, len(formatters))
	for name := range formatters {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// New returns the named formatter writing to w.
func New(name string, w io.Writer, opts Options) (Formatter, error) {
	f, ok := formatters[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (want one of %s)", name, strings.Join(Names(), ", "))
	}
	return f(w, opts), nil
}

// palette holds the colors of one formatter; disabled colors print plain.
type palette struct {
	path, corrected, summary *color.Color
	severity                 map[diag.Severity]*color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		path:      color.New(color.FgCyan),
		corrected: color.New(color.FgGreen),
		summary:   color.New(color.Bold),
		severity: map[diag.Severity]*color.Color{
			diag.SevInfo:       color.New(color.FgBlue),
			diag.SevRefactor:   color.New(color.FgYellow),
			diag.SevConvention: color.New(color.FgYellow),
			diag.SevWarning:    color.New(color.FgMagenta),
			diag.SevError:      color.New(color.FgRed),
			diag.SevFatal:      color.New(color.FgRed, color.Bold),
		},
	}
	all := []*color.Color{p.path, p.corrected, p.summary}
	for _, c := range p.severity {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) sev(s diag.Severity, text string) string {
	if c, ok := p.severity[s]; ok {
		return c.Sprint(text)
	}
	return text
}

func displayPath(path, root string) string {
	if root == "" {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

// tally counts a run for the closing summary line.
type tally struct {
	files, offenses, corrected int
}

func count(run *linter.RunResult) tally {
	t := tally{files: len(run.Files)}
	for i := range run.Files {
		for _, d := range run.Files[i].Diagnostics {
			t.offenses++
			if d.Corrected {
				t.corrected++
			}
		}
	}
	return t
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// String renders "N files inspected, M offenses detected[, K offenses corrected]".
func (t tally) String() string {
	offenses := "no offenses"
	if t.offenses > 0 {
		offenses = plural(t.offenses, "offense")
	}
	s := fmt.Sprintf("%s inspected, %s detected", plural(t.files, "file"), offenses)
	if t.corrected > 0 {
		s += ", " + plural(t.corrected, "offense") + " corrected"
	}
	return s
}
