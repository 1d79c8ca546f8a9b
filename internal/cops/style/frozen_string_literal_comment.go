package style

import (
	"bytes"
	"regexp"
	"strings"

	"rblint/internal/cop"
	"rblint/internal/source"
)

var frozenRE = regexp.MustCompile(`(?i)^\s*#\s*(?:-\*-\s*)?frozen[_-]string[_-]literal\s*:\s*(\w+)`)

const frozenComment = "# frozen_string_literal: true"

// FrozenStringLiteralComment checks the frozen_string_literal magic comment
// in the leading comment block.
//
// EnforcedStyle: always (default), always_true or never.
type FrozenStringLiteralComment struct{ cop.Base }

func (FrozenStringLiteralComment) Name() string              { return "Style/FrozenStringLiteralComment" }
func (FrozenStringLiteralComment) SupportsAutocorrect() bool { return true }

// UnsafeAutocorrect: freezing literals changes behaviour of code that
// mutates them.
func (FrozenStringLiteralComment) UnsafeAutocorrect() bool { return true }

func (FrozenStringLiteralComment) CheckLines(src *source.File, cfg *cop.Config, out *cop.Sink) {
	lines := src.Lines()
	if !hasCode(lines) {
		return
	}

	magicLine, value := 0, ""
	lastSpecial := 0
	for i, raw := range lines {
		line := bytes.TrimSpace(raw)
		if len(line) == 0 {
			continue
		}
		if line[0] != '#' {
			break
		}
		if m := frozenRE.FindSubmatch(line); m != nil && magicLine == 0 {
			magicLine, value = i+1, strings.ToLower(string(m[1]))
		}
		if isSpecialComment(line, i) {
			lastSpecial = i + 1
		}
	}

	switch cfg.GetStr("EnforcedStyle", "always") {
	case "never":
		if magicLine > 0 {
			out.Report(magicLine, 0, "Unnecessary frozen string literal comment.").
				WithCorrections(deleteLine(src, magicLine)).
				Emit()
		}
	case "always_true":
		if magicLine > 0 && value != "true" {
			start := src.LineStart(magicLine)
			out.Report(magicLine, 0, "Frozen string literal comment must be set to `true`.").
				Replace(start, src.LineEnd(magicLine), frozenComment).
				Emit()
			return
		}
		fallthrough
	default:
		if magicLine > 0 {
			return
		}
		insertMissing(src, lines, lastSpecial, out)
	}
}

func insertMissing(src *source.File, lines [][]byte, after int, out *cop.Sink) {
	text := frozenComment + "\n"
	next := after // index of the line that will follow the comment
	if next < len(lines) && len(bytes.TrimSpace(lines[next])) > 0 {
		text += "\n"
	}
	at := 0
	if after > 0 {
		at = src.LineStart(after + 1)
		if after >= src.LineCount() {
			at = len(src.Content)
		}
	}
	out.Report(1, 0, "Missing frozen string literal comment.").Insert(at, text).Emit()
}

// isSpecialComment reports whether line is a shebang or an encoding comment,
// which must stay above the frozen_string_literal comment.
func isSpecialComment(line []byte, index int) bool {
	if index == 0 && bytes.HasPrefix(line, []byte("#!")) {
		return true
	}
	return index < 2 && encodingRE.Match(line)
}

// hasCode reports whether some line is neither blank nor a comment.
func hasCode(lines [][]byte) bool {
	for _, l := range lines {
		t := bytes.TrimSpace(l)
		if len(t) > 0 && t[0] != '#' {
			return true
		}
	}
	return false
}
