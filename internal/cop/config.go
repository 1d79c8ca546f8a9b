package cop

import (
	"math"
	"sort"
	"strings"

	"rblint/internal/diag"
)

// EnabledState is the tri-state Enabled value of a cop's configuration.
type EnabledState uint8

const (
	EnabledUnset EnabledState = iota
	EnabledTrue
	EnabledFalse
	// EnabledPending enables the cop only when new cops are opted into.
	EnabledPending
)

func (s EnabledState) String() string {
	switch s {
	case EnabledTrue:
		return "true"
	case EnabledFalse:
		return "false"
	case EnabledPending:
		return "pending"
	}
	return "unset"
}

// AutocorrectSetting is a cop's own AutoCorrect value.
type AutocorrectSetting uint8

const (
	AutocorrectAlways AutocorrectSetting = iota
	AutocorrectContextual
	AutocorrectDisabled
)

// AutocorrectMode is the run-wide request from the command line.
type AutocorrectMode uint8

const (
	AutocorrectOff AutocorrectMode = iota
	// AutocorrectSafe applies only corrections marked safe (-a).
	AutocorrectSafe
	// AutocorrectAll applies every correction (-A).
	AutocorrectAll
)

// Config is the resolved configuration of one cop. Options holds the
// decoded YAML values of every other key.
type Config struct {
	Enabled  EnabledState
	Severity *diag.Severity
	Include  []string
	Exclude  []string
	Options  map[string]any
}

// SeverityOr returns the configured severity or def.
func (c *Config) SeverityOr(def diag.Severity) diag.Severity {
	if c != nil && c.Severity != nil {
		return *c.Severity
	}
	return def
}

func (c *Config) value(key string) (any, bool) {
	if c == nil || c.Options == nil {
		return nil, false
	}
	v, ok := c.Options[key]
	return v, ok && v != nil
}

// GetStr returns a string option; other scalar types are not coerced.
func (c *Config) GetStr(key, def string) string {
	if v, ok := c.value(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// GetInt returns a non-negative integer option.
func (c *Config) GetInt(key string, def int) int {
	v, ok := c.value(key)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		if n >= 0 {
			return n
		}
	case int64:
		if n >= 0 && n <= math.MaxInt {
			return int(n)
		}
	case uint64:
		if n <= math.MaxInt {
			return int(n)
		}
	case float64:
		if n >= 0 && n == math.Trunc(n) && n <= math.MaxInt32 {
			return int(n)
		}
	}
	return def
}

func (c *Config) GetBool(key string, def bool) bool {
	if v, ok := c.value(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// GetStringArray returns a list of strings. Non-string elements are skipped.
func (c *Config) GetStringArray(key string) ([]string, bool) {
	v, ok := c.value(key)
	if !ok {
		return nil, false
	}
	return toStrings(v)
}

// GetStringHash returns a mapping with string values. Non-string values are skipped.
func (c *Config) GetStringHash(key string) (map[string]string, bool) {
	v, ok := c.value(key)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		if s, ok := val.(string); ok {
			out[k] = s
		}
	}
	return out, true
}

// GetFlatStringValues accepts either a list of strings or a mapping whose
// values are lists of strings (grouped settings such as DebuggerMethods)
// and flattens it. Groups are visited in key order; a null group is skipped.
func (c *Config) GetFlatStringValues(key string) ([]string, bool) {
	v, ok := c.value(key)
	if !ok {
		return nil, false
	}
	if list, ok := toStrings(v); ok {
		return list, true
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var out []string
	for _, k := range keys {
		if group, ok := toStrings(m[k]); ok {
			out = append(out, group...)
		}
	}
	return out, true
}

func toStrings(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	}
	return nil, false
}

// IsSafe reports the Safe option (default true).
func (c *Config) IsSafe() bool {
	return c.GetBool("Safe", true)
}

// IsSafeAutocorrect reports the SafeAutoCorrect option (default true).
func (c *Config) IsSafeAutocorrect() bool {
	return c.GetBool("SafeAutoCorrect", c.GetBool("SafeAutocorrect", true))
}

// AutocorrectSetting reads AutoCorrect, accepting booleans and
// "always" / "contextual" / "disabled".
func (c *Config) AutocorrectSetting() AutocorrectSetting {
	v, ok := c.value("AutoCorrect")
	if !ok {
		v, ok = c.value("Autocorrect")
	}
	if !ok {
		return AutocorrectAlways
	}
	switch x := v.(type) {
	case bool:
		if !x {
			return AutocorrectDisabled
		}
	case string:
		switch strings.ToLower(x) {
		case "disabled", "false":
			return AutocorrectDisabled
		case "contextual":
			return AutocorrectContextual
		}
	}
	return AutocorrectAlways
}

// ShouldAutocorrect decides whether c may record corrections under mode.
func ShouldAutocorrect(c Cop, cfg *Config, mode AutocorrectMode) bool {
	if mode == AutocorrectOff || !c.SupportsAutocorrect() {
		return false
	}
	if cfg.AutocorrectSetting() == AutocorrectDisabled {
		return false
	}
	if mode == AutocorrectAll {
		return true
	}
	if u, ok := c.(UnsafeCorrector); ok && u.UnsafeAutocorrect() {
		return false
	}
	return cfg.IsSafe() && cfg.IsSafeAutocorrect()
}
