package style

import (
	"unicode/utf8"

	"rblint/internal/ast"
	"rblint/internal/codemap"
	"rblint/internal/cop"
	"rblint/internal/source"
)

// AsciiComments flags the first non-ASCII character of each comment that
// is not listed in AllowedChars.
type AsciiComments struct{ cop.Base }

func (AsciiComments) Name() string         { return "Style/AsciiComments" }
func (AsciiComments) DefaultEnabled() bool { return false }

func (AsciiComments) CheckSource(src *source.File, _ *ast.Tree, cm *codemap.Map, cfg *cop.Config, out *cop.Sink) {
	allowed := map[rune]bool{'©': true}
	if chars, ok := cfg.GetStringArray("AllowedChars"); ok {
		allowed = make(map[rune]bool, len(chars))
		for _, s := range chars {
			for _, r := range s {
				allowed[r] = true
			}
		}
	}

	for _, span := range cm.Comments() {
		text := src.Content[span.Start:span.End]
		for off := 0; off < len(text); {
			r, size := utf8.DecodeRune(text[off:])
			if r >= utf8.RuneSelf && !allowed[r] {
				out.ReportAt(span.Start+off, "Use only ascii symbols in comments.").Emit()
				break
			}
			off += size
		}
	}
}
