package layout

import (
	"strings"

	"rblint/internal/cop"
	"rblint/internal/source"
)

// IndentationStyle enforces spaces (default) or tabs in indentation.
// IndentationWidth (2) sets how many spaces one tab stands for.
type IndentationStyle struct{ cop.Base }

func (IndentationStyle) Name() string              { return "Layout/IndentationStyle" }
func (IndentationStyle) SupportsAutocorrect() bool { return true }

func (IndentationStyle) CheckLines(src *source.File, cfg *cop.Config, out *cop.Sink) {
	width := max(cfg.GetInt("IndentationWidth", 2), 1)
	tabs := cfg.GetStr("EnforcedStyle", "spaces") == "tabs"
	cm := out.CodeMap()

	for i, line := range src.Lines() {
		n := 0
		for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
			n++
		}
		if n == 0 || n == len(line) || line[n] == '\r' {
			continue
		}
		indent := string(line[:n])
		lineStart := src.LineStart(i + 1)
		// indentation inside a string or heredoc is content
		if cm != nil && !cm.IsNotString(lineStart) {
			continue
		}

		if !tabs {
			col := strings.IndexByte(indent, '\t')
			if col < 0 {
				continue
			}
			fixed := strings.ReplaceAll(indent, "\t", strings.Repeat(" ", width))
			out.Report(i+1, col, "Tab detected in indentation.").Replace(lineStart, lineStart+n, fixed).Emit()
			continue
		}

		col := strings.IndexByte(indent, ' ')
		if col < 0 {
			continue
		}
		spaces := strings.ReplaceAll(indent, "\t", strings.Repeat(" ", width))
		fixed := strings.Repeat("\t", len(spaces)/width) + strings.Repeat(" ", len(spaces)%width)
		out.Report(i+1, col, "Space detected in indentation.").Replace(lineStart, lineStart+n, fixed).Emit()
	}
}
