package correction

import (
	"rblint/internal/source"
)

// Option mutates a correction during construction.
type Option func(*Correction)

// WithCop stamps the emitting cop.
func WithCop(name string, index int) Option {
	return func(c *Correction) {
		c.CopName = name
		c.CopIndex = index
	}
}

// WithDiagnostic links the correction to a diagnostic index.
func WithDiagnostic(idx int) Option {
	return func(c *Correction) {
		c.Diagnostic = idx
	}
}

func build(c Correction, opts []Option) Correction {
	c.Diagnostic = -1
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c
}

// Replace substitutes [start, end) with text.
func Replace(start, end int, text string, opts ...Option) Correction {
	return build(Correction{Start: start, End: end, Replacement: text}, opts)
}

// Insert adds text at offset.
func Insert(at int, text string, opts ...Option) Correction {
	return build(Correction{Start: at, End: at, Replacement: text}, opts)
}

// Delete removes [start, end).
func Delete(start, end int, opts ...Option) Correction {
	return build(Correction{Start: start, End: end}, opts)
}

// DeleteLine removes line (1-based) including its terminating newline.
func DeleteLine(f *source.File, line int, opts ...Option) Correction {
	start := f.LineStart(line)
	end := f.LineEnd(line)
	if end < len(f.Content) {
		end++
	}
	return Delete(start, end, opts...)
}

// InsertBeforeLine adds text at the start of line.
func InsertBeforeLine(f *source.File, line int, text string, opts ...Option) Correction {
	return Insert(f.LineStart(line), text, opts...)
}

// Wrap surrounds [start, end) with before and after as two insertions.
func Wrap(start, end int, before, after string, opts ...Option) []Correction {
	return []Correction{
		Insert(start, before, opts...),
		Insert(end, after, opts...),
	}
}
