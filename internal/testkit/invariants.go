package testkit

import (
	"fmt"
	"slices"

	"rblint/internal/correction"
)

// CheckCorrectionInvariants applies cs to src and verifies the merge laws:
// accepted corrections are ordered and disjoint, every dropped one is
// invalid or starts inside an accepted one, the output length equals the
// input length plus the accepted deltas, and the result does not depend on
// input order. Corrections sharing a full sort key keep emission order, so
// the order check is skipped for them.
func CheckCorrectionInvariants(src []byte, cs []correction.Correction) error {
	out, outcome := correction.NewSet(cs).Apply(src)

	cursor := 0
	want := len(src)
	for i, c := range outcome.Applied {
		if c.Start < cursor {
			return fmt.Errorf("applied correction %d (%v) starts before cursor %d", i, c, cursor)
		}
		cursor = c.End
		want += c.Delta()
	}
	if len(out) != want {
		return fmt.Errorf("output length %d, want %d", len(out), want)
	}

	for _, d := range outcome.Dropped {
		if correction.Validate(d, len(src)) != nil {
			continue
		}
		if !overlapsApplied(d, outcome.Applied) {
			return fmt.Errorf("dropped correction %v does not conflict with any applied one", d)
		}
	}

	if hasTies(cs) {
		return nil
	}
	reversed := slices.Clone(cs)
	slices.Reverse(reversed)
	again, _ := correction.NewSet(reversed).Apply(src)
	if string(again) != string(out) {
		return fmt.Errorf("result depends on input order:\n%q\n%q", out, again)
	}
	return nil
}

// overlapsApplied reports whether d starts before the end of an applied
// correction that sorts ahead of it.
func overlapsApplied(d correction.Correction, applied []correction.Correction) bool {
	for _, a := range applied {
		if d.Start < a.End && d.Start >= a.Start {
			return true
		}
	}
	return false
}

func hasTies(cs []correction.Correction) bool {
	type key struct {
		start, end int
		cop        string
		index      int
	}
	seen := make(map[key]bool, len(cs))
	for _, c := range cs {
		k := key{c.Start, c.End, c.CopName, c.CopIndex}
		if seen[k] {
			return true
		}
		seen[k] = true
	}
	return false
}
