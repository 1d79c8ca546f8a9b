package layout

import (
	"bytes"
	"fmt"

	"rblint/internal/cop"
	"rblint/internal/source"
)

// TrailingEmptyLines checks the newlines at the end of a file.
// EnforcedStyle is final_newline (default) or final_blank_line.
type TrailingEmptyLines struct{ cop.Base }

func (TrailingEmptyLines) Name() string              { return "Layout/TrailingEmptyLines" }
func (TrailingEmptyLines) SupportsAutocorrect() bool { return true }

func (TrailingEmptyLines) CheckLines(src *source.File, cfg *cop.Config, out *cop.Sink) {
	content := src.Content
	trimmed := bytes.TrimRight(content, " \t\r\n")
	if len(trimmed) == 0 || hasDataSection(src) {
		return
	}

	wanted := 0
	if cfg.GetStr("EnforcedStyle", "final_newline") == "final_blank_line" {
		wanted = 1
	}
	tail := content[len(trimmed):]
	blank := bytes.Count(tail, []byte("\n")) - 1
	if blank == wanted {
		return
	}

	var msg string
	switch {
	case blank == -1:
		msg = "Final newline missing."
	case blank == 0:
		msg = "Trailing blank line missing."
	case wanted == 0:
		msg = fmt.Sprintf("%d trailing blank lines detected.", blank)
	default:
		msg = fmt.Sprintf("%d trailing blank lines instead of %d detected.", blank, wanted)
	}

	line, col := src.OffsetToLineCol(len(trimmed))
	if blank > 0 {
		// point at the first blank line
		line, col = line+1, 0
	}
	out.Report(line, col, msg).
		Replace(len(trimmed), len(content), "\n"+string(bytes.Repeat([]byte("\n"), wanted))).
		Emit()
}

func hasDataSection(src *source.File) bool {
	for _, line := range src.Lines() {
		if string(bytes.TrimSuffix(line, []byte("\r"))) == "__END__" {
			return true
		}
	}
	return false
}
