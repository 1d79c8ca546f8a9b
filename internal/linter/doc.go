// Package linter runs cops over Ruby files.
//
// Engine.LintSource is the per-file pipeline: parse, build the code map,
// dispatch line, source and node checks, apply disable directives, report
// redundant directives and optionally merge and apply corrections. Run
// drives LintSource over a set of paths with bounded parallelism and an
// optional result cache.
package linter
