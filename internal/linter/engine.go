package linter

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"rblint/internal/ast"
	"rblint/internal/codemap"
	"rblint/internal/cop"
	"rblint/internal/correction"
	"rblint/internal/diag"
	"rblint/internal/directive"
	"rblint/internal/source"
	"rblint/internal/trace"
)

// Names of the diagnostics the engine emits on its own.
const (
	SyntaxCop    = "Lint/Syntax"
	IOErrorCop   = "Lint/IOError"
	ConflictCop  = "Lint/CorrectionConflict"
	RedundantCop = "Lint/RedundantCopDisableDirective"
)

// Engine lints files with one resolved cop selection. It is safe for
// concurrent use: all per-file state lives in the pass.
type Engine struct {
	filter    *cop.Filter
	opts      Options
	redundant int
}

func NewEngine(filter *cop.Filter, opts Options) *Engine {
	e := &Engine{filter: filter, opts: opts, redundant: -1}
	if entry, ok := filter.Registry().Lookup(RedundantCop); ok {
		e.redundant = entry.Index
	}
	return e
}

// Filter returns the cop selection the engine was built with.
func (e *Engine) Filter() *cop.Filter {
	return e.filter
}

// Options returns the engine options.
func (e *Engine) Options() Options {
	return e.opts
}

// LintSource runs the pipeline on f. When corrections change the content
// the file is linted again, up to MaxPasses times or until a pass produces
// content seen before, in which case that pass's output is discarded. Diagnostics corrected in earlier passes are kept;
// the rest come from the final pass.
//
// The only error is a parser failure such as a cancelled ctx.
func (e *Engine) LintSource(ctx context.Context, f *source.File) (FileResult, error) {
	res := FileResult{Path: f.Path}
	cur := f
	seen := map[uint64]struct{}{contentHash(f.Content): {}}
	var corrected []diag.Diagnostic

	for n := 1; ; n++ {
		p, err := e.pass(ctx, cur)
		if err != nil {
			return res, err
		}
		res.Passes = n
		res.Internal = res.Internal || p.internal

		last := p.output == nil || n >= e.opts.passes()
		if !last {
			h := contentHash(p.output)
			if _, loop := seen[h]; loop {
				// the looping pass is dropped; its offenses stand uncorrected
				p.output = nil
				for i := range p.diags {
					p.diags[i].Corrected = false
				}
				last = true
			}
			seen[h] = struct{}{}
		}
		if p.output != nil {
			cur = source.NewFile(f.Path, p.output)
		}
		if last {
			res.Diagnostics = append(corrected, p.diags...)
			break
		}
		for _, d := range p.diags {
			if d.Corrected {
				corrected = append(corrected, d)
			}
		}
	}

	if cur != f && !bytes.Equal(cur.Content, f.Content) {
		res.Output = cur.Content
	}
	diag.SortDiagnostics(res.Diagnostics)
	return res, nil
}

// applicable honours AllCops exclusion except for files the user named.
func (e *Engine) applicable(path string) []cop.Entry {
	if !e.opts.ForceExclusion && e.opts.Explicit[filepath.Clean(path)] {
		return e.filter.ApplicableExplicit(path)
	}
	return e.filter.Applicable(path)
}

type passResult struct {
	diags    []diag.Diagnostic
	output   []byte
	internal bool
}

func (e *Engine) pass(ctx context.Context, f *source.File) (passResult, error) {
	tr := trace.FromContext(ctx)
	parent := trace.ParentFromContext(ctx)

	span := trace.Begin(tr, trace.ScopeFile, "parse", parent)
	tree, err := ast.Parse(ctx, f.Content)
	span.End("")
	if err != nil {
		return passResult{}, err
	}

	bag := diag.NewBag(16)
	sink := cop.NewSink(f, bag)
	clean := !tree.HasErrors()
	var cm *codemap.Map
	if clean {
		cm = codemap.Build(tree)
		sink.UseCodeMap(cm)
	} else {
		reportSyntax(f, tree, bag)
	}

	active := e.applicable(f.Path)
	span = trace.Begin(tr, trace.ScopeFile, "check", parent)
	e.runChecks(ctx, f, tree, cm, active, sink, clean)
	span.WithExtra("cops", fmt.Sprint(len(active))).End("")

	comments := make([]directive.CommentSpan, len(tree.Comments))
	for i, c := range tree.Comments {
		comments[i] = c.Span()
	}
	ranges := directive.Build(f, comments)

	remap := bag.Filter(func(d *diag.Diagnostic) bool {
		return d.CopName == SyntaxCop || !ranges.CheckAndMarkUsed(d.CopName, d.Location.Line)
	})
	corrections := keepCorrections(sink.Corrections(), remap)

	before := len(sink.Corrections())
	e.reportRedundant(f, ranges, comments, active, sink)
	corrections = append(corrections, sink.Corrections()[before:]...)

	internal := e.reportInternal(tr, f, sink, bag)

	var out []byte
	if len(corrections) > 0 {
		span = trace.Begin(tr, trace.ScopeFile, "correct", parent)
		out = e.applyCorrections(ctx, f, clean, bag, corrections)
		span.WithExtra("edits", fmt.Sprint(len(corrections))).End("")
	}
	bag.Sort()
	return passResult{diags: bag.Items(), output: out, internal: internal}, nil
}

func reportSyntax(f *source.File, tree *ast.Tree, bag *diag.Bag) {
	first := tree.Errors[0]
	line, col := f.OffsetToLineCol(first.Offset)
	bag.Add(diag.Diagnostic{
		Path:     f.Path,
		Location: diag.Location{Line: line, Column: col},
		Severity: diag.SevFatal,
		CopName:  SyntaxCop,
		Message:  first.Message,
	})
}

func (e *Engine) runChecks(ctx context.Context, f *source.File, tree *ast.Tree, cm *codemap.Map, active []cop.Entry, sink *cop.Sink, clean bool) {
	tr := trace.FromContext(ctx)
	parent := trace.ParentFromContext(ctx)

	for _, entry := range active {
		if entry.Line == nil {
			continue
		}
		cfg := e.filter.Config(entry.Index)
		span := trace.Begin(tr, trace.ScopeCop, entry.Name(), parent)
		e.call(entry, sink, func() { entry.Line.CheckLines(f, cfg, sink) })
		span.End("lines")
	}
	if !clean {
		return
	}

	for _, entry := range active {
		if entry.Source == nil {
			continue
		}
		cfg := e.filter.Config(entry.Index)
		span := trace.Begin(tr, trace.ScopeCop, entry.Name(), parent)
		e.call(entry, sink, func() { entry.Source.CheckSource(f, tree, cm, cfg, sink) })
		span.End("source")
	}

	interest := cop.BuildInterestMap(active)
	if interest.Empty() {
		return
	}
	ast.Walk(tree.Root, ast.VisitorFunc(func(n ast.Node) {
		interest.Each(n.Kind(), func(pos int) {
			entry := active[pos]
			cfg := e.filter.Config(entry.Index)
			e.call(entry, sink, func() { entry.Node.CheckNode(f, n, tree, cfg, sink) })
		})
	}))
}

func (e *Engine) bind(entry cop.Entry, sink *cop.Sink) {
	idx := entry.Index
	sink.Bind(entry.Name(), idx, e.filter.Severity(idx), e.filter.Correcting(idx))
}

// call runs fn for entry with panics converted into internal errors.
func (e *Engine) call(entry cop.Entry, sink *cop.Sink, fn func()) {
	e.bind(entry, sink)
	var start time.Time
	if e.opts.Timer != nil {
		start = time.Now()
	}
	defer func() {
		sink.Recover(recover())
		if e.opts.Timer != nil {
			e.opts.Timer.AddCop(entry.Name(), time.Since(start))
		}
	}()
	fn()
}

// reportInternal adds one Warning per misbehaving cop and reports whether
// any of them panicked.
func (e *Engine) reportInternal(tr trace.Tracer, f *source.File, sink *cop.Sink, bag *diag.Bag) bool {
	panicked := false
	for _, ie := range sink.InternalErrors() {
		bag.Add(diag.Diagnostic{
			Path:     f.Path,
			Location: diag.Location{Line: 1, Column: 0},
			Severity: diag.SevWarning,
			CopName:  ie.Cop,
			Message:  fmt.Sprintf("An error occurred while %s cop was inspecting %s: %s", ie.Cop, f.Path, ie.Detail),
		})
		trace.Point(tr, trace.ScopeRun, "cop-error", ie.Detail, map[string]string{"cop": ie.Cop, "file": f.Path})
		panicked = panicked || ie.Panic
	}
	return panicked
}

// keepCorrections drops corrections whose diagnostic was filtered out and
// renumbers the rest.
func keepCorrections(cs []correction.Correction, remap []int) []correction.Correction {
	out := make([]correction.Correction, 0, len(cs))
	for _, c := range cs {
		if c.Diagnostic < 0 || c.Diagnostic >= len(remap) || remap[c.Diagnostic] < 0 {
			continue
		}
		c.Diagnostic = remap[c.Diagnostic]
		out = append(out, c)
	}
	return out
}

// applyCorrections merges cs into f's content. An offense's edits are
// applied all together or not at all: when the merge keeps only part of
// them, the rest are withdrawn and the merge is redone. Diagnostics whose
// edits did not make it lose their Corrected mark.
func (e *Engine) applyCorrections(ctx context.Context, f *source.File, clean bool, bag *diag.Bag, cs []correction.Correction) []byte {
	withdrawn := make(map[int]bool)
	var (
		out     []byte
		outcome correction.Outcome
	)
	for {
		out, outcome = correction.NewSet(cs).Apply(f.Content)
		partial := partiallyApplied(outcome)
		if len(partial) == 0 {
			break
		}
		kept := cs[:0:0]
		for _, c := range cs {
			if partial[c.Diagnostic] {
				withdrawn[c.Diagnostic] = true
				continue
			}
			kept = append(kept, c)
		}
		cs = kept
	}
	for _, c := range outcome.Dropped {
		withdrawn[c.Diagnostic] = true
	}

	for idx := range withdrawn {
		if idx < 0 || idx >= bag.Len() {
			continue
		}
		d := bag.At(idx)
		d.Corrected = false
		if e.opts.ReportConflicts {
			bag.Add(diag.Diagnostic{
				Path:     d.Path,
				Location: d.Location,
				Severity: diag.SevInfo,
				CopName:  ConflictCop,
				Message:  fmt.Sprintf("Correction for %s overlaps another correction and was not applied.", d.CopName),
			})
		}
	}

	if !outcome.Changed() || string(out) == string(f.Content) {
		return nil
	}
	if clean && breaksSyntax(ctx, out) {
		for i := 0; i < bag.Len(); i++ {
			bag.At(i).Corrected = false
		}
		trace.Point(trace.FromContext(ctx), trace.ScopeRun, "correction-reverted", f.Path, nil)
		return nil
	}
	return out
}

func partiallyApplied(o correction.Outcome) map[int]bool {
	if len(o.Dropped) == 0 {
		return nil
	}
	applied := make(map[int]bool, len(o.Applied))
	for _, c := range o.Applied {
		applied[c.Diagnostic] = true
	}
	var partial map[int]bool
	for _, c := range o.Dropped {
		if c.Diagnostic >= 0 && applied[c.Diagnostic] {
			if partial == nil {
				partial = make(map[int]bool)
			}
			partial[c.Diagnostic] = true
		}
	}
	return partial
}

// breaksSyntax reports whether corrected content no longer parses.
func breaksSyntax(ctx context.Context, content []byte) bool {
	tree, err := ast.Parse(ctx, content)
	return err == nil && tree.HasErrors()
}
