package layout

import (
	"rblint/internal/cop"
	"rblint/internal/source"
)

// TrailingWhitespace flags spaces and tabs at the end of a line.
// With AllowInHeredoc the lines of heredoc bodies are skipped. Whitespace
// inside a heredoc body is part of the string, so it is never corrected.
type TrailingWhitespace struct{ cop.Base }

func (TrailingWhitespace) Name() string              { return "Layout/TrailingWhitespace" }
func (TrailingWhitespace) SupportsAutocorrect() bool { return true }

func (TrailingWhitespace) CheckLines(src *source.File, cfg *cop.Config, out *cop.Sink) {
	allowInHeredoc := cfg.GetBool("AllowInHeredoc", false)
	cm := out.CodeMap()

	for i, line := range src.Lines() {
		end := len(line)
		if end > 0 && line[end-1] == '\r' {
			end--
		}
		start := end
		for start > 0 && (line[start-1] == ' ' || line[start-1] == '\t') {
			start--
		}
		if start == end {
			continue
		}

		lineStart := src.LineStart(i + 1)
		inHeredoc := cm != nil && cm.IsHeredoc(lineStart+start)
		if inHeredoc && allowInHeredoc {
			continue
		}
		r := out.Report(i+1, start, "Trailing whitespace detected.")
		if !inHeredoc {
			r.Delete(lineStart+start, lineStart+end)
		}
		r.Emit()
	}
}
