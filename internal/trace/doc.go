// Package trace records what the linter is doing: run, file, phase and cop
// spans plus point events for recoverable failures.
//
// Enable it from the command line:
//
//	rblint --trace=- --trace-level=detail lib/
//
// # Tracers
//
//   - Nop: zero-overhead default
//   - StreamTracer: writes each event as it happens (text or NDJSON)
//   - RingTracer: keeps the last N events for a dump after a failure
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// A level admits scopes up to its depth: phase admits run and phase events,
// detail adds per-file events, debug adds per-cop events. Point events
// emitted with Point at ScopeRun are admitted by every level but off, so
// cop crashes always show up when tracing is on.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, path, parentID)
//	defer span.End("")
package trace
