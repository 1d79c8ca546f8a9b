package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff Level = iota
	// LevelError keeps only point events such as cop crashes.
	LevelError
	LevelPhase
	LevelDetail
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelError:
		return "error"
	case LevelPhase:
		return "phase"
	case LevelDetail:
		return "detail"
	case LevelDebug:
		return "debug"
	}
	return "unknown"
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "":
		return LevelOff, nil
	case "error":
		return LevelError, nil
	case "phase":
		return LevelPhase, nil
	case "detail":
		return LevelDetail, nil
	case "debug":
		return LevelDebug, nil
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|detail|debug)", s)
}

// Admits reports whether an event of kind and scope passes this level.
func (l Level) Admits(kind Kind, scope Scope) bool {
	switch {
	case l == LevelOff:
		return false
	case kind == KindHeartbeat:
		return true
	case kind == KindPoint && scope == ScopeRun:
		return true
	case l == LevelError:
		return false
	case l == LevelPhase:
		return scope <= ScopePhase
	case l == LevelDetail:
		return scope <= ScopeFile
	}
	return true
}
