// Package config loads .rubocop.yml files into per-cop configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"rblint/internal/cop"
	"rblint/internal/diag"
)

// FileName is the configuration file looked up from the working directory upward.
const FileName = ".rubocop.yml"

// ErrCircularInherit is returned when inherit_from forms a cycle.
var ErrCircularInherit = errors.New("circular inherit_from")

// AllCops holds the global section.
type AllCops struct {
	Include           []string
	Exclude           []string
	DisabledByDefault bool
	// NewCops is "enable", "disable" or "pending" (the default).
	NewCops           string
	TargetRubyVersion string
	ReportConflicts   bool
}

// Config is a fully merged configuration.
type Config struct {
	// Path is the root file, empty for the built-in defaults.
	Path string
	// Dir anchors relative patterns.
	Dir     string
	AllCops AllCops
	// Sections maps cop and department names to their settings.
	Sections map[string]*cop.Config
	// Files lists every file that contributed, root last.
	Files []string
}

// Default returns the configuration used when no file is found.
func Default(dir string) *Config {
	return &Config{
		Dir:      dir,
		AllCops:  AllCops{NewCops: "pending"},
		Sections: make(map[string]*cop.Config),
	}
}

// Discover walks up from start looking for FileName.
func Discover(start string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Load reads path and everything it inherits from.
func Load(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	cfg := Default(filepath.Dir(abs))
	cfg.Path = abs
	if err := cfg.mergeFile(abs, nil); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes a single document rooted at dir. inherit_from is resolved
// against dir.
func Parse(data []byte, dir string) (*Config, error) {
	cfg := Default(dir)
	if err := cfg.mergeDocument("(inline)", dir, data, nil); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string, stack []string) error {
	for _, p := range stack {
		if p == path {
			return fmt.Errorf("%w: %s", ErrCircularInherit, strings.Join(append(stack, path), " -> "))
		}
	}
	data, err := os.ReadFile(path) // #nosec G304 -- config path chosen by the user
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := c.mergeDocument(path, filepath.Dir(path), data, append(stack, path)); err != nil {
		return err
	}
	c.Files = append(c.Files, path)
	return nil
}

func (c *Config) mergeDocument(name, dir string, data []byte, stack []string) error {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if doc == nil {
		return nil
	}
	if err := validate(name, doc); err != nil {
		return err
	}

	// parents first so this document overrides them
	for _, parent := range stringList(doc["inherit_from"]) {
		if !filepath.IsAbs(parent) {
			parent = filepath.Join(dir, parent)
		}
		if err := c.mergeFile(parent, stack); err != nil {
			return fmt.Errorf("%s: inherit_from: %w", name, err)
		}
	}

	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		switch key {
		case "inherit_from", "inherit_mode", "inherit_gem", "require", "plugins":
			continue
		case "AllCops":
			c.mergeAllCops(asMap(doc[key]), dir)
			continue
		}
		section := asMap(doc[key])
		if section == nil && doc[key] != nil {
			continue
		}
		if err := c.mergeSection(key, section, dir); err != nil {
			return fmt.Errorf("%s: %s: %w", name, key, err)
		}
	}
	return nil
}

func (c *Config) mergeAllCops(m map[string]any, dir string) {
	if m == nil {
		return
	}
	if v, ok := m["Include"]; ok {
		c.AllCops.Include = c.anchor(stringList(v), dir)
	}
	if v, ok := m["Exclude"]; ok {
		c.AllCops.Exclude = append(c.AllCops.Exclude, c.anchor(stringList(v), dir)...)
	}
	if v, ok := m["DisabledByDefault"].(bool); ok {
		c.AllCops.DisabledByDefault = v
	}
	if v, ok := m["NewCops"].(string); ok {
		c.AllCops.NewCops = v
	}
	if v, ok := m["ReportConflicts"].(bool); ok {
		c.AllCops.ReportConflicts = v
	}
	if v, ok := m["TargetRubyVersion"]; ok && v != nil {
		c.AllCops.TargetRubyVersion = fmt.Sprint(v)
	}
}

func (c *Config) mergeSection(name string, m map[string]any, dir string) error {
	cur := c.Sections[name]
	if cur == nil {
		cur = &cop.Config{}
		c.Sections[name] = cur
	}
	for key, v := range m {
		switch key {
		case "Enabled":
			state, err := parseEnabled(v)
			if err != nil {
				return err
			}
			cur.Enabled = state
		case "Severity":
			s, _ := v.(string)
			sev, err := diag.ParseSeverity(s)
			if err != nil {
				return err
			}
			cur.Severity = &sev
		case "Include":
			cur.Include = c.anchor(stringList(v), dir)
		case "Exclude":
			cur.Exclude = c.anchor(stringList(v), dir)
		default:
			if cur.Options == nil {
				cur.Options = make(map[string]any)
			}
			cur.Options[key] = v
		}
	}
	return nil
}

func parseEnabled(v any) (cop.EnabledState, error) {
	switch x := v.(type) {
	case nil:
		return cop.EnabledUnset, nil
	case bool:
		if x {
			return cop.EnabledTrue, nil
		}
		return cop.EnabledFalse, nil
	case string:
		switch strings.ToLower(x) {
		case "pending":
			return cop.EnabledPending, nil
		case "true":
			return cop.EnabledTrue, nil
		case "false":
			return cop.EnabledFalse, nil
		}
	}
	return cop.EnabledUnset, fmt.Errorf("invalid Enabled value %v", v)
}

// anchor rewrites patterns written in dir so they are relative to the root
// config directory.
func (c *Config) anchor(patterns []string, dir string) []string {
	if dir == c.Dir || dir == "" {
		return patterns
	}
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if filepath.IsAbs(p) || strings.HasPrefix(p, "**") {
			out = append(out, p)
			continue
		}
		joined := filepath.Join(dir, p)
		if rel, err := filepath.Rel(c.Dir, joined); err == nil && !strings.HasPrefix(rel, "..") {
			out = append(out, filepath.ToSlash(rel))
			continue
		}
		out = append(out, filepath.ToSlash(joined))
	}
	return out
}

// CopConfig returns the settings for a cop with its department's Enabled,
// Severity, Include and Exclude applied underneath.
func (c *Config) CopConfig(name string) *cop.Config {
	out := &cop.Config{}
	dept, _, _ := strings.Cut(name, "/")
	if d := c.Sections[dept]; d != nil {
		out.Enabled = d.Enabled
		out.Severity = d.Severity
		out.Include = d.Include
		out.Exclude = d.Exclude
	}
	own := c.Sections[name]
	if own == nil {
		out.Options = c.withTarget(nil)
		return out
	}
	if own.Enabled != cop.EnabledUnset {
		out.Enabled = own.Enabled
	}
	if own.Severity != nil {
		out.Severity = own.Severity
	}
	if own.Include != nil {
		out.Include = own.Include
	}
	if own.Exclude != nil {
		out.Exclude = append(append([]string(nil), own.Exclude...), out.Exclude...)
	}
	out.Options = c.withTarget(own.Options)
	return out
}

// withTarget exposes AllCops/TargetRubyVersion to cops as an option unless
// the cop sets its own.
func (c *Config) withTarget(opts map[string]any) map[string]any {
	if c.AllCops.TargetRubyVersion == "" {
		return opts
	}
	if _, ok := opts["TargetRubyVersion"]; ok {
		return opts
	}
	out := make(map[string]any, len(opts)+1)
	for k, v := range opts {
		out[k] = v
	}
	out["TargetRubyVersion"] = c.AllCops.TargetRubyVersion
	return out
}

// Policy builds the cop filter input for every registered cop.
func (c *Config) Policy(reg *cop.Registry) cop.Policy {
	configs := make(map[string]*cop.Config, reg.Len())
	for _, name := range reg.Names() {
		configs[name] = c.CopConfig(name)
	}
	return cop.Policy{
		Configs:           configs,
		Include:           c.AllCops.Include,
		Exclude:           c.AllCops.Exclude,
		NewCops:           c.AllCops.NewCops == "enable",
		DisabledByDefault: c.AllCops.DisabledByDefault,
		BaseDir:           c.Dir,
	}
}

// UnknownSections lists configured names that match no registered cop or
// department.
func (c *Config) UnknownSections(reg *cop.Registry) []string {
	var out []string
	for name := range c.Sections {
		if strings.Contains(name, "/") {
			if _, ok := reg.Lookup(name); !ok {
				out = append(out, name)
			}
			continue
		}
		if !reg.HasDepartment(name) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func stringList(v any) []string {
	switch x := v.(type) {
	case string:
		return []string{x}
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
