package formatter

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"rblint/internal/diag"
	"rblint/internal/linter"
)

var (
	dataEscaper     = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")
	propertyEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C")
)

// github prints workflow commands that GitHub Actions turns into
// annotations on the pull request.
type github struct {
	w    *bufio.Writer
	opts Options
}

func newGitHub(w io.Writer, opts Options) Formatter {
	return &github{w: bufio.NewWriter(w), opts: opts}
}

func (g *github) Started([]string) {}

func (g *github) FileFinished(res *linter.FileResult) {
	for _, d := range res.Diagnostics {
		if d.Corrected {
			continue
		}
		fmt.Fprintf(g.w, "::%s file=%s,line=%d,col=%d::%s\n",
			githubLevel(d.Severity),
			propertyEscaper.Replace(displayPath(d.Path, g.opts.Root)),
			d.Location.Line, d.Location.Column+1,
			dataEscaper.Replace(d.CopName+": "+d.Message))
	}
}

func (g *github) Finished(*linter.RunResult) error {
	return g.w.Flush()
}

func githubLevel(s diag.Severity) string {
	switch {
	case s >= diag.SevError:
		return "error"
	case s == diag.SevWarning:
		return "warning"
	}
	return "notice"
}
