package cop

import (
	"rblint/internal/ast"
)

// InterestMap dispatches a node kind to the positions (in the active cop
// list) of the node cops that asked for it.
type InterestMap struct {
	byKind [][]int
	all    []int
}

// BuildInterestMap indexes the node checkers among active. Positions refer
// to active, not to registry indices.
func BuildInterestMap(active []Entry) *InterestMap {
	m := &InterestMap{byKind: make([][]int, ast.KindCount())}
	for pos, e := range active {
		if e.Node == nil {
			continue
		}
		if e.AllKinds {
			m.all = append(m.all, pos)
			continue
		}
		e.Kinds.Each(func(k ast.Kind) {
			if int(k) < len(m.byKind) {
				m.byKind[k] = append(m.byKind[k], pos)
			}
		})
	}
	return m
}

// Empty reports whether no active cop checks nodes.
func (m *InterestMap) Empty() bool {
	if len(m.all) > 0 {
		return false
	}
	for _, l := range m.byKind {
		if len(l) > 0 {
			return false
		}
	}
	return true
}

// Each calls fn for every interested position in ascending order:
// the kind-specific list merged with the catch-all list.
func (m *InterestMap) Each(k ast.Kind, fn func(pos int)) {
	var specific []int
	if int(k) < len(m.byKind) {
		specific = m.byKind[k]
	}
	i, j := 0, 0
	for i < len(specific) || j < len(m.all) {
		switch {
		case j >= len(m.all) || (i < len(specific) && specific[i] < m.all[j]):
			fn(specific[i])
			i++
		default:
			fn(m.all[j])
			j++
		}
	}
}
