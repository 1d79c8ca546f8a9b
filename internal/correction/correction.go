// Package correction holds the byte-range edits produced by autocorrecting
// cops and the merge that applies a file's edits in one pass.
package correction

import (
	"errors"
	"fmt"
	"sort"

	"rblint/internal/source"
)

// ErrInvalidRange is returned by Validate for ranges that do not fit the source.
var ErrInvalidRange = errors.New("invalid correction range")

// Correction replaces the half-open byte range [Start, End) with Replacement.
// Start == End is a pure insertion.
type Correction struct {
	Start       int
	End         int
	Replacement string
	CopName     string
	// CopIndex is the registry index of the emitting cop, used for tie-breaks.
	CopIndex int
	// Diagnostic is the index of the diagnostic that owns this correction in
	// the file's bag, or -1 when unlinked.
	Diagnostic int
}

// Span returns the replaced range.
func (c Correction) Span() source.Span {
	return source.Span{Start: c.Start, End: c.End}
}

// Delta is the change in length applying c causes.
func (c Correction) Delta() int {
	return len(c.Replacement) - (c.End - c.Start)
}

func (c Correction) String() string {
	return fmt.Sprintf("%s[%d,%d)->%q", c.CopName, c.Start, c.End, c.Replacement)
}

// Validate checks 0 <= Start <= End <= srcLen.
func Validate(c Correction, srcLen int) error {
	if c.Start < 0 || c.Start > c.End || c.End > srcLen {
		return fmt.Errorf("%w: [%d,%d) in %d bytes", ErrInvalidRange, c.Start, c.End, srcLen)
	}
	return nil
}

// Set is an ordered collection of corrections for one file.
type Set struct {
	items []Correction
}

// NewSet copies cs and sorts the copy by (start, end, cop name, cop index).
func NewSet(cs []Correction) *Set {
	items := make([]Correction, len(cs))
	copy(items, cs)
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End < b.End
		}
		if a.CopName != b.CopName {
			return a.CopName < b.CopName
		}
		return a.CopIndex < b.CopIndex
	})
	return &Set{items: items}
}

func (s *Set) Len() int {
	return len(s.items)
}

// Items returns the sorted corrections. The slice must not be modified.
func (s *Set) Items() []Correction {
	return s.items
}

// Outcome reports which corrections Apply used.
type Outcome struct {
	Applied []Correction
	// Dropped holds corrections that overlapped an earlier accepted one or
	// had an invalid range.
	Dropped []Correction
}

// Changed reports whether any correction was applied.
func (o Outcome) Changed() bool {
	return len(o.Applied) > 0
}

// Apply merges the set into src. Corrections are walked in sorted order
// with a cursor at the end of the last accepted one; a correction starting
// before the cursor conflicts and is dropped. A zero-width insertion exactly
// at the cursor is accepted. src is not modified.
func (s *Set) Apply(src []byte) ([]byte, Outcome) {
	var out Outcome
	if len(s.items) == 0 {
		return src, out
	}

	grow := 0
	for _, c := range s.items {
		if d := c.Delta(); d > 0 {
			grow += d
		}
	}
	buf := make([]byte, 0, len(src)+grow)

	cursor := 0
	for _, c := range s.items {
		if Validate(c, len(src)) != nil || c.Start < cursor {
			out.Dropped = append(out.Dropped, c)
			continue
		}
		buf = append(buf, src[cursor:c.Start]...)
		buf = append(buf, c.Replacement...)
		cursor = c.End
		out.Applied = append(out.Applied, c)
	}
	buf = append(buf, src[cursor:]...)
	return buf, out
}
