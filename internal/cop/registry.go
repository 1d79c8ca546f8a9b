package cop

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"rblint/internal/ast"
)

var namePattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*/[A-Z][A-Za-z0-9]*$`)

// Entry is a registered cop with its optional check kinds resolved once.
type Entry struct {
	// Index is the stable registration index, used to break ties between
	// corrections from different cops.
	Index int
	Cop   Cop

	Line   LineChecker
	Source SourceChecker
	Node   NodeChecker

	// Kinds is the resolved InterestedNodeTypes; AllKinds is set when the
	// cop asked for every node.
	Kinds    ast.KindSet
	AllKinds bool
}

func (e Entry) Name() string {
	return e.Cop.Name()
}

// Registry is the ordered catalogue of cops. It is built at startup and read-only afterwards.
type Registry struct {
	entries []Entry
	byName  map[string]int
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Register adds c. It panics on malformed or duplicate names and on unknown
// node type names, all of which are programming errors.
func (r *Registry) Register(c Cop) {
	name := c.Name()
	if !namePattern.MatchString(name) {
		panic(fmt.Sprintf("cop: malformed name %q, want Department/Name", name))
	}
	if _, dup := r.byName[name]; dup {
		panic(fmt.Sprintf("cop: %s registered twice", name))
	}

	e := Entry{Index: len(r.entries), Cop: c}
	e.Line, _ = c.(LineChecker)
	e.Source, _ = c.(SourceChecker)
	e.Node, _ = c.(NodeChecker)
	if e.Node != nil {
		types := c.InterestedNodeTypes()
		if len(types) == 0 {
			e.AllKinds = true
		} else {
			set, unknown := ast.NewKindSet(types...)
			if len(unknown) > 0 {
				panic(fmt.Sprintf("cop: %s is interested in unknown node types %v", name, unknown))
			}
			e.Kinds = set
		}
	}

	r.byName[name] = e.Index
	r.entries = append(r.entries, e)
}

// Entries returns every cop in registration order.
func (r *Registry) Entries() []Entry {
	return r.entries
}

func (r *Registry) Len() int {
	return len(r.entries)
}

func (r *Registry) Lookup(name string) (Entry, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return Entry{}, false
	}
	return r.entries[idx], true
}

// Names returns every cop name in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Name()
	}
	return out
}

// Departments returns the sorted distinct department names.
func (r *Registry) Departments() []string {
	seen := make(map[string]struct{})
	for _, e := range r.entries {
		dept, _, _ := strings.Cut(e.Name(), "/")
		seen[dept] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// HasDepartment reports whether any registered cop belongs to dept.
func (r *Registry) HasDepartment(dept string) bool {
	for _, e := range r.entries {
		if strings.HasPrefix(e.Name(), dept+"/") {
			return true
		}
	}
	return false
}
