package diag

import (
	"sort"
)

// Bag collects the diagnostics of one file. It is not safe for concurrent use.
type Bag struct {
	items []Diagnostic
}

func NewBag(capacity int) *Bag {
	return &Bag{items: make([]Diagnostic, 0, capacity)}
}

// Add appends d and returns its index in the bag.
func (b *Bag) Add(d Diagnostic) int {
	b.items = append(b.items, d)
	return len(b.items) - 1
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// At returns a pointer to the i-th diagnostic.
func (b *Bag) At(i int) *Diagnostic {
	return &b.items[i]
}

// Merge appends the diagnostics of other.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
}

// Filter keeps the diagnostics for which keep returns true. The returned
// slice maps old indices to new ones; dropped entries map to -1.
func (b *Bag) Filter(keep func(*Diagnostic) bool) []int {
	remap := make([]int, len(b.items))
	out := b.items[:0]
	for i := range b.items {
		if keep(&b.items[i]) {
			remap[i] = len(out)
			out = append(out, b.items[i])
			continue
		}
		remap[i] = -1
	}
	clear(b.items[len(out):])
	b.items = out
	return remap
}

// Sort orders diagnostics by (path, line, column, cop name).
func (b *Bag) Sort() {
	SortDiagnostics(b.items)
}

// Worst returns the highest severity in the bag, and false when empty.
func (b *Bag) Worst() (Severity, bool) {
	return Worst(b.items)
}

// HasAtLeast reports whether some diagnostic is at or above min.
func (b *Bag) HasAtLeast(min Severity) bool {
	for i := range b.items {
		if b.items[i].Severity >= min {
			return true
		}
	}
	return false
}

// SortDiagnostics sorts ds in place with a stable sort.
func SortDiagnostics(ds []Diagnostic) {
	sort.SliceStable(ds, func(i, j int) bool {
		return ds[i].Less(ds[j])
	})
}

// Worst returns the highest severity among ds.
func Worst(ds []Diagnostic) (Severity, bool) {
	if len(ds) == 0 {
		return SevInfo, false
	}
	worst := ds[0].Severity
	for _, d := range ds[1:] {
		worst = max(worst, d.Severity)
	}
	return worst, true
}
