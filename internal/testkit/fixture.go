// Package testkit runs cops over annotated Ruby fixtures.
//
// A fixture is Ruby source in which every offending line is followed by an
// annotation line:
//
//	x = 1;
//	     ^ Style/Semicolon: Do not use semicolons to terminate expressions.
//
// The carets start at the expected column. "^{}" marks a column without
// width, useful at the end of a line. Annotation lines are stripped before
// the source is linted. One leading newline is dropped so fixtures can open
// a raw string on its own line.
package testkit

import (
	"regexp"
	"sort"
	"strings"
)

var annotationRE = regexp.MustCompile(`^(\s*)(\^+|\^\{\})\s+([A-Z][A-Za-z0-9]*/[A-Z][A-Za-z0-9]*): (.*)$`)

// Offense is a diagnostic in fixture coordinates.
type Offense struct {
	Line    int
	Column  int
	Cop     string
	Message string
}

// Fixture is a parsed annotated source.
type Fixture struct {
	Source   []byte
	Expected []Offense
}

// ParseFixture strips annotations from text and records what they expect.
// An annotation before any source line refers to line 1.
func ParseFixture(text string) Fixture {
	var (
		kept     []string
		expected []Offense
	)
	text = strings.TrimPrefix(text, "\n")
	lines := strings.SplitAfter(text, "\n")
	for _, raw := range lines {
		if raw == "" {
			continue
		}
		body := strings.TrimSuffix(raw, "\n")
		if m := annotationRE.FindStringSubmatch(body); m != nil {
			expected = append(expected, Offense{
				Line:    max(len(kept), 1),
				Column:  len(m[1]),
				Cop:     m[3],
				Message: m[4],
			})
			continue
		}
		kept = append(kept, raw)
	}
	sortOffenses(expected)
	return Fixture{Source: []byte(strings.Join(kept, "")), Expected: expected}
}

func sortOffenses(os []Offense) {
	sort.SliceStable(os, func(i, j int) bool {
		a, b := os[i], os[j]
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Cop < b.Cop
	})
}
