package style

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	"rblint/internal/cop"
	"rblint/internal/source"
)

var (
	encodingRE = regexp.MustCompile(`(?i)^\s*#.*?\b(?:en)?coding\s*[:=]\s*([\w.-]+)`)
	// plainEncodingRE matches a comment that holds nothing but the encoding.
	plainEncodingRE = regexp.MustCompile(`(?i)^\s*#\s*(?:-\*-\s*)?(?:en)?coding\s*[:=]\s*[\w.-]+\s*(?:;?\s*-\*-)?\s*$`)
)

// Encoding flags magic encoding comments that declare UTF-8, which is the
// default source encoding. Only the first two lines are magic.
type Encoding struct{ cop.Base }

func (Encoding) Name() string              { return "Style/Encoding" }
func (Encoding) SupportsAutocorrect() bool { return true }

func (Encoding) CheckLines(src *source.File, _ *cop.Config, out *cop.Sink) {
	lines := src.Lines()
	for i := 0; i < len(lines) && i < 2; i++ {
		line := bytes.TrimSuffix(lines[i], []byte("\r"))
		m := encodingRE.FindSubmatch(line)
		if m == nil || !isUTF8(string(m[1])) {
			continue
		}
		r := out.Report(i+1, 0, "Unnecessary utf-8 encoding comment.")
		if plainEncodingRE.Match(line) {
			r.WithCorrections(deleteLine(src, i+1))
		}
		r.Emit()
	}
}

func isUTF8(name string) bool {
	enc, err := htmlindex.Get(strings.ToLower(name))
	if err != nil {
		return false
	}
	canonical, err := htmlindex.Name(enc)
	return err == nil && canonical == "utf-8"
}
