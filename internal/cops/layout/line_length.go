package layout

import (
	"bytes"
	"fmt"
	"regexp"
	"unicode/utf8"

	"rblint/internal/cop"
	"rblint/internal/source"
)

var (
	uriRE       = regexp.MustCompile(`(?:https?|ftp|file)://\S+`)
	directiveRE = regexp.MustCompile(`#\s*(?:rubocop|rblint)\s*:\s*(?:disable|enable|todo)\b`)
)

// LineLength checks the length of each line in characters.
//
// Options: Max (120), AllowURI (true), AllowCopDirectives (true).
type LineLength struct{ cop.Base }

func (LineLength) Name() string { return "Layout/LineLength" }

func (LineLength) CheckLines(src *source.File, cfg *cop.Config, out *cop.Sink) {
	limit := cfg.GetInt("Max", 120)
	allowURI := cfg.GetBool("AllowURI", true)
	allowDirectives := cfg.GetBool("AllowCopDirectives", true)

	for i, line := range src.Lines() {
		line = bytes.TrimSuffix(line, []byte("\r"))
		measured := line
		if allowDirectives {
			if loc := directiveRE.FindIndex(line); loc != nil {
				measured = bytes.TrimRight(line[:loc[0]], " \t")
			}
		}
		length := utf8.RuneCount(measured)
		if length <= limit {
			continue
		}
		if allowURI && uriExtendsPastLimit(measured, limit) {
			continue
		}
		out.Report(i+1, byteColumn(measured, limit), fmt.Sprintf("Line is too long. [%d/%d]", length, limit)).Emit()
	}
}

// uriExtendsPastLimit reports whether the last URI on the line straddles
// the limit and nothing but whitespace follows it.
func uriExtendsPastLimit(line []byte, limit int) bool {
	locs := uriRE.FindAllIndex(line, -1)
	if len(locs) == 0 {
		return false
	}
	last := locs[len(locs)-1]
	if utf8.RuneCount(line[:last[0]]) > limit {
		return false
	}
	return len(bytes.TrimSpace(line[last[1]:])) == 0
}

// byteColumn converts a character column into a byte column.
func byteColumn(line []byte, chars int) int {
	off := 0
	for n := 0; n < chars && off < len(line); n++ {
		_, size := utf8.DecodeRune(line[off:])
		off += size
	}
	return off
}
