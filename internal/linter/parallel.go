package linter

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"rblint/internal/cop"
	"rblint/internal/diag"
	"rblint/internal/source"
	"rblint/internal/trace"
)

// Run lints files with at most Options.Jobs in flight. Each worker writes
// its own slot of a pre-sized slice, so no locking is needed. The returned
// error is non-nil only when ctx was cancelled; per-file read failures
// become Lint/IOError diagnostics.
func (e *Engine) Run(ctx context.Context, fset *source.FileSet, files []string) (*RunResult, error) {
	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopePhase, "lint", trace.ParentFromContext(ctx))
	ctx = trace.WithParent(ctx, span.ID())

	results := make([]FileResult, len(files))
	done := make([]bool, len(files))
	var stopped atomic.Bool

	for _, path := range files {
		e.emit(Event{File: path, Stage: StageRead, Status: StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(min(e.opts.jobs(), len(files)), 1))
	for i, path := range files {
		if stopped.Load() || gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if stopped.Load() {
				return nil
			}
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			res, err := e.lintPath(gctx, fset, path)
			if err != nil {
				return err
			}
			results[i] = res
			done[i] = true
			if e.opts.FailFast && failing(res.Diagnostics, e.opts.FailLevel) {
				stopped.Store(true)
			}
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	out := &RunResult{Stopped: stopped.Load()}
	for i := range results {
		if done[i] {
			out.Files = append(out.Files, results[i])
		}
	}
	sortFiles(out.Files)
	span.WithExtra("files", itoa(len(out.Files))).End("")
	return out, err
}

func (e *Engine) lintPath(ctx context.Context, fset *source.FileSet, path string) (FileResult, error) {
	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopeFile, path, trace.ParentFromContext(ctx))
	ctx = trace.WithParent(ctx, span.ID())
	start := time.Now()

	e.emit(Event{File: path, Stage: StageRead, Status: StatusWorking})
	f, err := fset.Load(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			span.End("cancelled")
			return FileResult{}, ctx.Err()
		}
		res := IOErrorResult(path, err)
		e.emit(Event{File: path, Stage: StageRead, Status: StatusError, Offenses: 1, Elapsed: time.Since(start)})
		span.End("io-error")
		return res, nil
	}

	var key CacheKey
	useCache := e.opts.Cache != nil && e.filter.Policy().Mode == cop.AutocorrectOff
	if useCache {
		key = NewCacheKey(path, f.Content, e.opts.ConfigHash)
		res := FileResult{Path: path}
		ok, err := e.opts.Cache.Get(key, &res)
		if err != nil {
			trace.Point(tr, trace.ScopeRun, "cache-error", err.Error(), map[string]string{"file": path})
		}
		if ok {
			e.emit(Event{File: path, Stage: StageCheck, Status: StatusCached, Offenses: len(res.Diagnostics), Elapsed: time.Since(start)})
			span.End("cached")
			return res, nil
		}
	}

	e.emit(Event{File: path, Stage: StageCheck, Status: StatusWorking})
	res, err := e.LintSource(ctx, f)
	if err != nil {
		span.End("cancelled")
		return res, err
	}
	if res.Changed() && e.opts.Write {
		e.emit(Event{File: path, Stage: StageCorrect, Status: StatusWorking})
		if err := fset.Write(ctx, path, res.Output); err != nil {
			res.Diagnostics = append(res.Diagnostics, ioDiagnostic(path, "could not write corrected file: "+err.Error()))
			res.Internal = true
		}
	}
	if useCache && !res.Internal {
		if err := e.opts.Cache.Put(key, &res); err != nil {
			trace.Point(tr, trace.ScopeRun, "cache-error", err.Error(), map[string]string{"file": path})
		}
	}

	status := StatusDone
	if res.Internal {
		status = StatusError
	}
	e.emit(Event{File: path, Stage: StageCheck, Status: status, Offenses: len(res.Diagnostics), Elapsed: time.Since(start)})
	span.WithExtra("offenses", itoa(len(res.Diagnostics))).End("")
	return res, nil
}

// IOErrorResult is the result for a file that could not be read: a single
// Lint/IOError and the internal bit.
func IOErrorResult(path string, err error) FileResult {
	return FileResult{
		Path:        path,
		Diagnostics: []diag.Diagnostic{ioDiagnostic(path, err.Error())},
		Internal:    true,
	}
}

func ioDiagnostic(path, msg string) diag.Diagnostic {
	return diag.Diagnostic{
		Path:     path,
		Location: diag.Location{Line: 1, Column: 0},
		Severity: diag.SevError,
		CopName:  IOErrorCop,
		Message:  msg,
	}
}
