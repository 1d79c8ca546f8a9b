package linter

import (
	"runtime"

	"rblint/internal/diag"
	"rblint/internal/observ"
)

// DefaultMaxPasses bounds the autocorrect loop of the command line.
const DefaultMaxPasses = 10

// Options configure an Engine.
type Options struct {
	// Jobs is the number of files linted concurrently; <= 0 means GOMAXPROCS.
	Jobs int
	// MaxPasses bounds how often a file is re-linted after corrections were
	// applied. Values below 1 mean a single pass.
	MaxPasses int
	// ReportConflicts emits an Info diagnostic for each dropped correction.
	ReportConflicts bool
	// FailLevel is the lowest severity that makes a file count as failing.
	FailLevel diag.Severity
	// FailFast stops scheduling files after the first failing one.
	FailFast bool
	// ForceExclusion applies AllCops exclusion to explicitly named files too.
	ForceExclusion bool
	// Explicit holds the cleaned paths named on the command line; unless
	// ForceExclusion is set they are linted even when AllCops excludes them.
	Explicit map[string]bool
	// Write stores corrected output back to disk.
	Write bool

	// Cache, when set, answers lint-only runs for unchanged inputs.
	// ConfigHash is mixed into every key.
	Cache      *Cache
	ConfigHash uint64

	Timer *observ.Timer
	// Events receives progress; the consumer must keep draining it.
	Events chan<- Event
}

func (o Options) jobs() int {
	if o.Jobs <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Jobs
}

func (o Options) passes() int {
	return max(o.MaxPasses, 1)
}
