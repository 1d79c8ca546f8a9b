// Package ast adapts the tree-sitter Ruby grammar to the engine.
//
// Node kinds are the grammar's dense symbol ids, so per-kind dispatch tables
// are plain slices. Parse never fails on malformed Ruby: syntax errors are
// collected on the Tree and the caller decides what to skip.
package ast
