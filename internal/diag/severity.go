package diag

import (
	"fmt"
	"strings"
)

// Severity defines the importance of a diagnostic. Values are ordered:
// Info < Refactor < Convention < Warning < Error < Fatal.
type Severity uint8

const (
	SevInfo Severity = iota
	SevRefactor
	SevConvention
	SevWarning
	SevError
	// SevFatal is reserved for files that could not be analysed at all.
	SevFatal
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "info"
	case SevRefactor:
		return "refactor"
	case SevConvention:
		return "convention"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	case SevFatal:
		return "fatal"
	}
	return "unknown"
}

// Letter is the one-letter tag used in text output.
func (s Severity) Letter() byte {
	if s > SevFatal {
		return '?'
	}
	return "IRCWEF"[s]
}

// ParseSeverity accepts full names ("warning") and letters ("W"),
// case-insensitively.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info", "i":
		return SevInfo, nil
	case "refactor", "r":
		return SevRefactor, nil
	case "convention", "c":
		return SevConvention, nil
	case "warning", "w":
		return SevWarning, nil
	case "error", "e":
		return SevError, nil
	case "fatal", "f":
		return SevFatal, nil
	}
	return SevInfo, fmt.Errorf("unknown severity %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	v, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
