package cop

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	lru "github.com/hashicorp/golang-lru/v2"

	"rblint/internal/diag"
)

// Policy is the run-wide input to Filter: per-cop configuration plus the
// AllCops settings and command-line selections.
type Policy struct {
	Configs map[string]*Config
	// Include and Exclude are the AllCops file patterns.
	Include []string
	Exclude []string
	// NewCops enables pending cops.
	NewCops bool
	// DisabledByDefault turns cops without an explicit Enabled off.
	DisabledByDefault bool
	// BaseDir anchors relative patterns, normally the config file's directory.
	BaseDir string
	// Only and Except hold cop or department names from the command line.
	Only   []string
	Except []string
	Mode   AutocorrectMode
}

// Filter answers which cops apply to which path. It is safe for
// concurrent use once built.
type Filter struct {
	reg      *Registry
	policy   Policy
	enabled  []bool
	configs  []*Config
	severity []diag.Severity
	include  [][]string
	exclude  [][]string
	cache    *lru.Cache[string, []int]
}

// NewFilter resolves enablement and patterns for every registered cop.
func NewFilter(reg *Registry, policy Policy) *Filter {
	f := &Filter{
		reg:      reg,
		policy:   policy,
		enabled:  make([]bool, reg.Len()),
		configs:  make([]*Config, reg.Len()),
		severity: make([]diag.Severity, reg.Len()),
		include:  make([][]string, reg.Len()),
		exclude:  make([][]string, reg.Len()),
	}
	// size is a constant > 0, New cannot fail
	f.cache, _ = lru.New[string, []int](4096)

	for i, e := range reg.Entries() {
		cfg := policy.Configs[e.Name()]
		if cfg == nil {
			cfg = &Config{}
		}
		f.configs[i] = cfg
		f.severity[i] = cfg.SeverityOr(e.Cop.DefaultSeverity())
		f.enabled[i] = f.resolveEnabled(e, cfg)

		if len(cfg.Include) > 0 {
			f.include[i] = cfg.Include
		} else {
			f.include[i] = e.Cop.DefaultInclude()
		}
		f.exclude[i] = append(append([]string(nil), cfg.Exclude...), e.Cop.DefaultExclude()...)
	}
	return f
}

func (f *Filter) resolveEnabled(e Entry, cfg *Config) bool {
	name := e.Name()
	if matchesSelection(f.policy.Except, name) {
		return false
	}
	if len(f.policy.Only) > 0 {
		return matchesSelection(f.policy.Only, name)
	}
	switch cfg.Enabled {
	case EnabledTrue:
		return true
	case EnabledFalse:
		return false
	case EnabledPending:
		return f.policy.NewCops
	}
	if f.policy.DisabledByDefault {
		return false
	}
	if p, ok := e.Cop.(PendingCop); ok && p.Pending() {
		return f.policy.NewCops
	}
	return e.Cop.DefaultEnabled()
}

func matchesSelection(list []string, name string) bool {
	dept, _, _ := strings.Cut(name, "/")
	for _, item := range list {
		if item == name || item == dept {
			return true
		}
	}
	return false
}

// Enabled reports whether the cop at registry index idx is on for this run,
// regardless of path.
func (f *Filter) Enabled(idx int) bool {
	return f.enabled[idx]
}

// Config returns the resolved configuration for the cop at idx.
func (f *Filter) Config(idx int) *Config {
	return f.configs[idx]
}

// Severity returns the effective severity for the cop at idx.
func (f *Filter) Severity(idx int) diag.Severity {
	return f.severity[idx]
}

// Correcting reports whether the cop at idx may record corrections.
func (f *Filter) Correcting(idx int) bool {
	e := f.reg.Entries()[idx]
	return ShouldAutocorrect(e.Cop, f.configs[idx], f.policy.Mode)
}

// Registry returns the catalogue the filter was built from.
func (f *Filter) Registry() *Registry {
	return f.reg
}

// Policy returns the run-wide settings.
func (f *Filter) Policy() Policy {
	return f.policy
}

// Excluded reports whether path matches AllCops/Exclude, or falls outside a
// non-empty AllCops/Include.
func (f *Filter) Excluded(path string) bool {
	rel := f.relative(path)
	if matchAny(f.policy.Exclude, rel, path) {
		return true
	}
	return len(f.policy.Include) > 0 && !matchAny(f.policy.Include, rel, path)
}

// Applicable returns the cops that run on path, in registry order.
func (f *Filter) Applicable(path string) []Entry {
	return f.applicable(path, true)
}

// ApplicableExplicit is Applicable for a file named on the command line:
// AllCops Include and Exclude are ignored, per-cop patterns still apply.
func (f *Filter) ApplicableExplicit(path string) []Entry {
	return f.applicable(path, false)
}

func (f *Filter) applicable(path string, global bool) []Entry {
	entries := f.reg.Entries()
	key := path
	if !global {
		key = "\x00" + path
	}
	if idxs, ok := f.cache.Get(key); ok {
		return pick(entries, idxs)
	}

	var idxs []int
	if !global || !f.Excluded(path) {
		rel := f.relative(path)
		for i := range entries {
			if !f.enabled[i] {
				continue
			}
			if len(f.include[i]) > 0 && !matchAny(f.include[i], rel, path) {
				continue
			}
			if matchAny(f.exclude[i], rel, path) {
				continue
			}
			idxs = append(idxs, i)
		}
	}
	f.cache.Add(key, idxs)
	return pick(entries, idxs)
}

// AppliesTo reports whether the cop at idx runs on path.
func (f *Filter) AppliesTo(idx int, path string) bool {
	for _, e := range f.Applicable(path) {
		if e.Index == idx {
			return true
		}
	}
	return false
}

func pick(entries []Entry, idxs []int) []Entry {
	out := make([]Entry, len(idxs))
	for i, idx := range idxs {
		out[i] = entries[idx]
	}
	return out
}

func (f *Filter) relative(path string) string {
	p := filepath.ToSlash(path)
	if f.policy.BaseDir == "" {
		return strings.TrimPrefix(p, "./")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return p
	}
	rel, err := filepath.Rel(f.policy.BaseDir, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return p
	}
	return filepath.ToSlash(rel)
}

// MatchPath reports whether pattern matches path using "**" glob semantics.
// A pattern without a slash also matches the base name.
func MatchPath(pattern, path string) bool {
	if ok, err := doublestar.Match(pattern, path); err == nil && ok {
		return true
	}
	if !strings.Contains(pattern, "/") {
		ok, err := doublestar.Match(pattern, filepath.Base(path))
		return err == nil && ok
	}
	return false
}

func matchAny(patterns []string, rel, raw string) bool {
	for _, p := range patterns {
		if MatchPath(p, rel) || (raw != rel && MatchPath(p, filepath.ToSlash(raw))) {
			return true
		}
	}
	return false
}
