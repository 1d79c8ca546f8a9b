package cop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rblint/internal/ast"
	"rblint/internal/diag"
	"rblint/internal/source"
)

type stubCop struct {
	Base
	name    string
	types   []string
	enabled bool
	include []string
	exclude []string
	pending bool
}

func (c stubCop) Name() string                  { return c.name }
func (c stubCop) DefaultEnabled() bool          { return c.enabled }
func (c stubCop) DefaultInclude() []string      { return c.include }
func (c stubCop) DefaultExclude() []string      { return c.exclude }
func (c stubCop) InterestedNodeTypes() []string { return c.types }
func (c stubCop) Pending() bool                 { return c.pending }

type stubNodeCop struct{ stubCop }

func (stubNodeCop) CheckNode(*source.File, ast.Node, *ast.Tree, *Config, *Sink) {}

type stubLineCop struct{ stubCop }

func (stubLineCop) CheckLines(*source.File, *Config, *Sink) {}

func TestRegisterResolvesCheckKinds(t *testing.T) {
	r := NewRegistry()
	r.Register(stubLineCop{stubCop{name: "Layout/A", enabled: true}})
	r.Register(stubNodeCop{stubCop{name: "Lint/B", enabled: true, types: []string{"call"}}})
	r.Register(stubNodeCop{stubCop{name: "Lint/C", enabled: true}})

	a, ok := r.Lookup("Layout/A")
	require.True(t, ok)
	assert.NotNil(t, a.Line)
	assert.Nil(t, a.Node)

	b, _ := r.Lookup("Lint/B")
	assert.Equal(t, 1, b.Index)
	assert.NotNil(t, b.Node)
	assert.False(t, b.AllKinds)
	assert.True(t, b.Kinds.Has(ast.KindsNamed("call")[0]))

	c, _ := r.Lookup("Lint/C")
	assert.True(t, c.AllKinds)

	assert.Equal(t, []string{"Layout", "Lint"}, r.Departments())
	assert.Equal(t, []string{"Layout/A", "Lint/B", "Lint/C"}, r.Names())
	assert.True(t, r.HasDepartment("Lint"))
	assert.False(t, r.HasDepartment("Li"))
}

func TestRegisterPanics(t *testing.T) {
	r := NewRegistry()
	r.Register(stubCop{name: "Style/Ok"})
	assert.Panics(t, func() { r.Register(stubCop{name: "Style/Ok"}) })
	assert.Panics(t, func() { r.Register(stubCop{name: "NoDepartment"}) })
	assert.Panics(t, func() {
		r.Register(stubNodeCop{stubCop{name: "Style/Weird", types: []string{"not_a_node"}}})
	})
}

func TestInterestMapMergesCatchAll(t *testing.T) {
	r := NewRegistry()
	r.Register(stubNodeCop{stubCop{name: "Lint/All"}})
	r.Register(stubNodeCop{stubCop{name: "Lint/Call", types: []string{"call"}}})
	r.Register(stubLineCop{stubCop{name: "Lint/Line"}})
	r.Register(stubNodeCop{stubCop{name: "Lint/Method", types: []string{"method"}}})

	m := BuildInterestMap(r.Entries())
	assert.False(t, m.Empty())

	var got []int
	m.Each(ast.KindsNamed("call")[0], func(pos int) { got = append(got, pos) })
	assert.Equal(t, []int{0, 1}, got)

	got = nil
	m.Each(ast.KindsNamed("method")[0], func(pos int) { got = append(got, pos) })
	assert.Equal(t, []int{0, 3}, got)

	assert.True(t, BuildInterestMap(nil).Empty())
}

func TestFilterEnablement(t *testing.T) {
	r := NewRegistry()
	r.Register(stubCop{name: "Style/On", enabled: true})
	r.Register(stubCop{name: "Style/Off", enabled: false})
	r.Register(stubCop{name: "Style/New", enabled: true, pending: true})
	r.Register(stubCop{name: "Lint/Forced", enabled: false})
	r.Register(stubCop{name: "Lint/PendingCfg", enabled: true})

	sev := diag.SevError
	f := NewFilter(r, Policy{Configs: map[string]*Config{
		"Lint/Forced":     {Enabled: EnabledTrue, Severity: &sev},
		"Lint/PendingCfg": {Enabled: EnabledPending},
	}})
	assert.Equal(t, []bool{true, false, false, true, false}, []bool{
		f.Enabled(0), f.Enabled(1), f.Enabled(2), f.Enabled(3), f.Enabled(4),
	})
	assert.Equal(t, diag.SevError, f.Severity(3))
	assert.Equal(t, diag.SevConvention, f.Severity(0))

	f = NewFilter(r, Policy{NewCops: true})
	assert.True(t, f.Enabled(2))

	f = NewFilter(r, Policy{DisabledByDefault: true, Configs: map[string]*Config{
		"Lint/Forced": {Enabled: EnabledTrue},
	}})
	assert.False(t, f.Enabled(0))
	assert.True(t, f.Enabled(3))

	f = NewFilter(r, Policy{Only: []string{"Style/Off", "Lint"}, Except: []string{"Lint/PendingCfg"}})
	assert.Equal(t, []bool{false, true, false, true, false}, []bool{
		f.Enabled(0), f.Enabled(1), f.Enabled(2), f.Enabled(3), f.Enabled(4),
	})
}

func TestFilterApplicablePaths(t *testing.T) {
	r := NewRegistry()
	r.Register(stubCop{name: "Style/Any", enabled: true})
	r.Register(stubCop{name: "Gemspec/Only", enabled: true, include: []string{"**/*.gemspec"}})
	r.Register(stubCop{name: "Style/NoSpec", enabled: true, exclude: []string{"spec/**/*"}})
	r.Register(stubCop{name: "Style/UserExclude", enabled: true})

	f := NewFilter(r, Policy{
		Exclude: []string{"vendor/**/*"},
		Configs: map[string]*Config{"Style/UserExclude": {Exclude: []string{"lib/legacy.rb"}}},
	})

	names := func(path string) []string {
		var out []string
		for _, e := range f.Applicable(path) {
			out = append(out, e.Name())
		}
		return out
	}

	assert.Equal(t, []string{"Style/Any", "Style/NoSpec", "Style/UserExclude"}, names("lib/a.rb"))
	assert.Equal(t, []string{"Style/Any", "Gemspec/Only", "Style/NoSpec", "Style/UserExclude"}, names("foo.gemspec"))
	assert.Equal(t, []string{"Style/Any", "Style/UserExclude"}, names("spec/a_spec.rb"))
	assert.Equal(t, []string{"Style/Any", "Style/NoSpec"}, names("lib/legacy.rb"))
	assert.Empty(t, names("vendor/bundle/x.rb"))
	assert.True(t, f.Excluded("vendor/bundle/x.rb"))
	// cached path answers identically
	assert.Equal(t, names("lib/a.rb"), names("lib/a.rb"))
	assert.True(t, f.AppliesTo(1, "foo.gemspec"))
	assert.False(t, f.AppliesTo(1, "lib/a.rb"))
}

func TestFilterApplicableExplicit(t *testing.T) {
	r := NewRegistry()
	r.Register(stubCop{name: "Style/Any", enabled: true})
	r.Register(stubCop{name: "Style/NoVendorGems", enabled: true, exclude: []string{"vendor/gems/**/*"}})
	f := NewFilter(r, Policy{Exclude: []string{"vendor/**/*"}})

	names := func(entries []Entry) []string {
		var out []string
		for _, e := range entries {
			out = append(out, e.Name())
		}
		return out
	}

	assert.Empty(t, f.Applicable("vendor/a.rb"))
	assert.Equal(t, []string{"Style/Any", "Style/NoVendorGems"}, names(f.ApplicableExplicit("vendor/a.rb")))
	// per-cop exclusion still holds
	assert.Equal(t, []string{"Style/Any"}, names(f.ApplicableExplicit("vendor/gems/b.rb")))
	// the two answers are cached apart
	assert.Empty(t, f.Applicable("vendor/a.rb"))
}

func TestMatchPath(t *testing.T) {
	assert.True(t, MatchPath("**/*.gemspec", "a/b/c.gemspec"))
	assert.True(t, MatchPath("**/*.gemspec", "c.gemspec"))
	assert.True(t, MatchPath("*.rake", "lib/tasks/x.rake"))
	assert.False(t, MatchPath("lib/*.rb", "lib/a/b.rb"))
	assert.True(t, MatchPath("lib/**/*.rb", "lib/a/b.rb"))
}
