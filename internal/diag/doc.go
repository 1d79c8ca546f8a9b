// Package diag defines the offense model shared by the engine, the cops and
// the formatters.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Path – the file the offense belongs to, as given to the engine.
//   - Location – 1-based line and 0-based byte column.
//   - Severity – six-level ordered enum (Info … Fatal) defined in severity.go.
//   - CopName – the stable "Department/Name" of the emitting cop.
//   - Message – human oriented text; keep it short and actionable.
//   - Corrected – set when an accepted correction was recorded for it.
//
// Diagnostics are values: once a cop emits one it is never mutated, except
// that the pipeline may clear Corrected when its correction loses a merge
// conflict.
//
// # Scope
//
// Package diag performs no formatting beyond the canonical one-line form
// (Diagnostic.String) and no IO. Rendering lives in internal/formatter; the
// edits that back Corrected live in internal/correction.
package diag
