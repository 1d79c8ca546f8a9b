package ast

import (
	"math/bits"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"
)

// Kind is a grammar symbol id. Distinct symbols may share a name.
type Kind uint16

var (
	kindsOnce   sync.Once
	kindNames   []string
	kindsByName map[string][]Kind
)

func loadKinds() {
	kindsOnce.Do(func() {
		lang := ruby.GetLanguage()
		count := int(lang.SymbolCount())
		kindNames = make([]string, count)
		kindsByName = make(map[string][]Kind, count)
		for i := 0; i < count; i++ {
			name := lang.SymbolName(sitter.Symbol(i))
			kindNames[i] = name
			kindsByName[name] = append(kindsByName[name], Kind(i))
		}
	})
}

// KindCount is the size of the grammar's symbol table.
func KindCount() int {
	loadKinds()
	return len(kindNames)
}

// KindsNamed returns every symbol whose grammar name is name.
func KindsNamed(name string) []Kind {
	loadKinds()
	return kindsByName[name]
}

func (k Kind) String() string {
	loadKinds()
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "?"
}

// KindSet is a bitset over Kind.
type KindSet struct {
	words []uint64
}

// NewKindSet resolves grammar names into a set. Unknown names are reported
// back so callers can surface configuration mistakes.
func NewKindSet(names ...string) (KindSet, []string) {
	var (
		set     KindSet
		unknown []string
	)
	set.words = make([]uint64, (KindCount()+63)/64)
	for _, name := range names {
		kinds := KindsNamed(name)
		if len(kinds) == 0 {
			unknown = append(unknown, name)
			continue
		}
		for _, k := range kinds {
			set.Add(k)
		}
	}
	return set, unknown
}

func (s *KindSet) Add(k Kind) {
	w := int(k) / 64
	for w >= len(s.words) {
		s.words = append(s.words, 0)
	}
	s.words[w] |= 1 << (uint(k) % 64)
}

func (s KindSet) Has(k Kind) bool {
	w := int(k) / 64
	return w < len(s.words) && s.words[w]&(1<<(uint(k)%64)) != 0
}

func (s KindSet) Len() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Each calls fn for every member in ascending order.
func (s KindSet) Each(fn func(Kind)) {
	for wi, w := range s.words {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			fn(Kind(wi*64 + b))
			w &= w - 1
		}
	}
}
