// Package cop defines the contract every rule implements and the machinery
// that selects and feeds them: configuration accessors, the per-file sink,
// the registry and the applicability filter.
//
// A cop implements Cop plus any subset of LineChecker, SourceChecker and
// NodeChecker. The engine calls only the check kinds a cop implements, and
// calls them from many goroutines at once: cops must not keep per-file state
// in their own fields.
package cop

import (
	"rblint/internal/ast"
	"rblint/internal/codemap"
	"rblint/internal/diag"
	"rblint/internal/source"
)

type Cop interface {
	// Name is the stable "Department/Name" identifier.
	Name() string
	DefaultSeverity() diag.Severity
	DefaultEnabled() bool
	// DefaultInclude globs restrict the cop to matching paths; empty means
	// every Ruby source.
	DefaultInclude() []string
	DefaultExclude() []string
	// InterestedNodeTypes lists grammar node names for CheckNode; empty
	// means every node.
	InterestedNodeTypes() []string
	SupportsAutocorrect() bool
}

// LineChecker inspects raw lines. It runs even when the file has syntax errors.
type LineChecker interface {
	CheckLines(src *source.File, cfg *Config, out *Sink)
}

// SourceChecker inspects the whole parsed file once.
type SourceChecker interface {
	CheckSource(src *source.File, tree *ast.Tree, cm *codemap.Map, cfg *Config, out *Sink)
}

// NodeChecker is called for each node of an interested type during the shared walk.
type NodeChecker interface {
	CheckNode(src *source.File, node ast.Node, tree *ast.Tree, cfg *Config, out *Sink)
}

// PendingCop is implemented by cops that are only enabled when the
// configuration opts into new cops.
type PendingCop interface {
	Pending() bool
}

// UnsafeCorrector is implemented by cops whose autocorrection may change
// behaviour; they only correct under AutocorrectAll.
type UnsafeCorrector interface {
	UnsafeAutocorrect() bool
}

// Base supplies the default half of the contract. Embed it and override
// what differs.
type Base struct{}

func (Base) DefaultSeverity() diag.Severity { return diag.SevConvention }
func (Base) DefaultEnabled() bool           { return true }
func (Base) DefaultInclude() []string       { return nil }
func (Base) DefaultExclude() []string       { return nil }
func (Base) InterestedNodeTypes() []string  { return nil }
func (Base) SupportsAutocorrect() bool      { return false }
