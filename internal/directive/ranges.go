package directive

import (
	"bytes"
	"math"

	"rblint/internal/source"
)

// Forever is the end line of a disable that is never re-enabled.
const Forever = math.MaxInt

// Directive is one key of one disable comment, with the line range it ended up covering.
type Directive struct {
	Key    string
	Line   int
	Column int
	Inline bool
	Action Action
	Reason string
	// Start and End are the inclusive covered lines. End == 0 marks a
	// disable that covered nothing (a duplicate of an already open one).
	Start int
	End   int
	Used  bool
}

// Covers reports whether line falls inside the directive's range.
func (d *Directive) Covers(line int) bool {
	return d.End != 0 && line >= d.Start && line <= d.End
}

// Orphan is an enable with no matching open disable.
type Orphan struct {
	Key    string
	Line   int
	Column int
}

// Ranges is the disablement state of one file. Not safe for concurrent use.
type Ranges struct {
	directives []Directive
	byKey      map[string][]int // key -> indices into directives
	orphans    []Orphan
	found      bool
}

// CommentSpan locates a comment in the file.
type CommentSpan = source.Span

// Build scans the given comments in source order.
func Build(f *source.File, comments []CommentSpan) *Ranges {
	r := &Ranges{byKey: make(map[string][]int)}
	open := make(map[string]int)

	for _, span := range comments {
		text := f.Content[span.Start:span.End]
		if bytes.HasPrefix(text, []byte("=begin")) {
			continue
		}
		c, ok := ParseComment(string(text))
		if !ok {
			continue
		}
		r.found = true

		line, col := f.OffsetToLineCol(span.Start)
		inline := len(bytes.TrimSpace(f.Content[f.LineStart(line):span.Start])) > 0

		for _, key := range c.Keys {
			switch c.Action {
			case ActionDisable, ActionTodo:
				d := Directive{
					Key: key, Line: line, Column: col, Inline: inline,
					Action: c.Action, Reason: c.Reason, Start: line,
				}
				switch {
				case inline:
					d.End = line
				case hasOpen(open, key):
					// already disabled; this one covers nothing
				default:
					d.End = Forever
					open[key] = len(r.directives)
				}
				r.add(d)
			case ActionEnable:
				idx, ok := open[key]
				if !ok {
					r.orphans = append(r.orphans, Orphan{Key: key, Line: line, Column: col})
					continue
				}
				r.directives[idx].End = line
				delete(open, key)
			}
		}
	}
	return r
}

func hasOpen(open map[string]int, key string) bool {
	_, ok := open[key]
	return ok
}

func (r *Ranges) add(d Directive) {
	r.byKey[d.Key] = append(r.byKey[d.Key], len(r.directives))
	r.directives = append(r.directives, d)
}

// Empty reports whether the file had no directive comments at all.
func (r *Ranges) Empty() bool {
	return r == nil || !r.found
}

// IsDisabled reports whether copName is disabled on line by its own name,
// its department or "all".
func (r *Ranges) IsDisabled(copName string, line int) bool {
	if r.Empty() {
		return false
	}
	for _, key := range lookupKeys(copName) {
		for _, idx := range r.byKey[key] {
			if r.directives[idx].Covers(line) {
				return true
			}
		}
	}
	return false
}

// CheckAndMarkUsed is IsDisabled that also marks every covering directive as used.
func (r *Ranges) CheckAndMarkUsed(copName string, line int) bool {
	if r.Empty() {
		return false
	}
	suppressed := false
	for _, key := range lookupKeys(copName) {
		for _, idx := range r.byKey[key] {
			if r.directives[idx].Covers(line) {
				r.directives[idx].Used = true
				suppressed = true
			}
		}
	}
	return suppressed
}

func lookupKeys(copName string) []string {
	if dept, ok := Department(copName); ok {
		return []string{copName, dept, KeyAll}
	}
	return []string{copName, KeyAll}
}

// Directives returns every disable directive in source order.
func (r *Ranges) Directives() []Directive {
	if r == nil {
		return nil
	}
	return r.directives
}

// Unused returns the disable directives that suppressed nothing.
func (r *Ranges) Unused() []Directive {
	var out []Directive
	for _, d := range r.Directives() {
		if !d.Used {
			out = append(out, d)
		}
	}
	return out
}

// Orphans returns enables that had no matching disable.
func (r *Ranges) Orphans() []Orphan {
	if r == nil {
		return nil
	}
	return r.orphans
}
