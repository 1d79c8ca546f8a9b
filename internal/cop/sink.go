package cop

import (
	"fmt"

	"rblint/internal/ast"
	"rblint/internal/codemap"
	"rblint/internal/correction"
	"rblint/internal/diag"
	"rblint/internal/source"
)

// InternalError records a cop that misbehaved on a file: it reported an
// invalid location or correction range, or it panicked.
type InternalError struct {
	Cop    string
	Detail string
	Panic  bool
}

// Sink is the per-file buffer every cop reports into. The engine binds the
// active cop before each call; cops only ever append.
type Sink struct {
	file        *source.File
	bag         *diag.Bag
	codeMap     *codemap.Map
	corrections []correction.Correction

	cop        string
	copIndex   int
	severity   diag.Severity
	correcting bool

	internal    []InternalError
	internalSet map[string]struct{}
}

// NewSink creates a sink for f that appends diagnostics to bag.
func NewSink(f *source.File, bag *diag.Bag) *Sink {
	return &Sink{file: f, bag: bag, copIndex: -1}
}

// Bind makes subsequent reports belong to the named cop.
func (s *Sink) Bind(name string, index int, severity diag.Severity, correcting bool) {
	s.cop = name
	s.copIndex = index
	s.severity = severity
	s.correcting = correcting
}

// Correcting reports whether corrections from the bound cop will be kept.
// Cops may use it to skip building edits.
func (s *Sink) Correcting() bool {
	return s.correcting
}

// UseCodeMap makes cm available to line checks. The engine only sets it
// for files that parsed cleanly.
func (s *Sink) UseCodeMap(cm *codemap.Map) {
	s.codeMap = cm
}

// CodeMap returns the file's code map, or nil when the file did not parse.
func (s *Sink) CodeMap() *codemap.Map {
	return s.codeMap
}

// File returns the file being analysed.
func (s *Sink) File() *source.File {
	return s.file
}

// Report starts an offense at line (1-based) and col (0-based byte column).
func (s *Sink) Report(line, col int, msg string) *Report {
	return &Report{sink: s, loc: diag.Location{Line: line, Column: col}, msg: msg, severity: s.severity}
}

// ReportAt starts an offense at a byte offset.
func (s *Sink) ReportAt(offset int, msg string) *Report {
	if offset < 0 || offset > len(s.file.Content) {
		return s.Report(0, -1, msg)
	}
	line, col := s.file.OffsetToLineCol(offset)
	return s.Report(line, col, msg)
}

// ReportNode starts an offense at the first byte of n.
func (s *Sink) ReportNode(n ast.Node, msg string) *Report {
	return s.ReportAt(n.StartOffset(), msg)
}

// Recover converts a panic from the bound cop into an internal error. Call
// it deferred around each cop invocation.
func (s *Sink) Recover(v any) {
	if v == nil {
		return
	}
	s.internalError(fmt.Sprint(v), true)
}

// InternalErrors returns one record per misbehaving cop, in first-seen order.
func (s *Sink) InternalErrors() []InternalError {
	return s.internal
}

// Corrections returns the accepted corrections in emission order.
func (s *Sink) Corrections() []correction.Correction {
	return s.corrections
}

// Bag returns the diagnostics buffer.
func (s *Sink) Bag() *diag.Bag {
	return s.bag
}

func (s *Sink) internalError(detail string, panicked bool) {
	if s.internalSet == nil {
		s.internalSet = make(map[string]struct{})
	}
	if _, seen := s.internalSet[s.cop]; seen {
		if panicked {
			for i := range s.internal {
				if s.internal[i].Cop == s.cop {
					s.internal[i].Panic = true
				}
			}
		}
		return
	}
	s.internalSet[s.cop] = struct{}{}
	s.internal = append(s.internal, InternalError{Cop: s.cop, Detail: detail, Panic: panicked})
}

// Report accumulates one offense and its optional correction.
type Report struct {
	sink     *Sink
	loc      diag.Location
	msg      string
	severity diag.Severity
	edits    []correction.Correction
	emitted  bool
}

// WithSeverity overrides the configured severity for this offense only.
func (r *Report) WithSeverity(sev diag.Severity) *Report {
	r.severity = sev
	return r
}

// Replace records an edit replacing [start, end) with text.
func (r *Report) Replace(start, end int, text string) *Report {
	return r.WithCorrections(correction.Replace(start, end, text))
}

// Insert records an insertion at offset.
func (r *Report) Insert(at int, text string) *Report {
	return r.WithCorrections(correction.Insert(at, text))
}

// Delete records removal of [start, end).
func (r *Report) Delete(start, end int) *Report {
	return r.WithCorrections(correction.Delete(start, end))
}

// WithCorrections attaches prepared edits. They are ignored unless the sink
// is correcting.
func (r *Report) WithCorrections(cs ...correction.Correction) *Report {
	if r.sink.correcting {
		r.edits = append(r.edits, cs...)
	}
	return r
}

// Emit validates and stores the offense. An invalid location drops the
// offense; an invalid edit drops all of the offense's edits. Either is
// recorded as an internal error of the bound cop.
func (r *Report) Emit() {
	if r.emitted {
		return
	}
	r.emitted = true
	s := r.sink

	if !s.file.ValidPosition(r.loc.Line, r.loc.Column) {
		s.internalError(fmt.Sprintf("invalid location %d:%d", r.loc.Line, r.loc.Column), false)
		return
	}
	for _, e := range r.edits {
		if err := correction.Validate(e, len(s.file.Content)); err != nil {
			s.internalError(err.Error(), false)
			r.edits = nil
			break
		}
	}

	idx := s.bag.Add(diag.Diagnostic{
		Path:      s.file.Path,
		Location:  r.loc,
		Severity:  r.severity,
		CopName:   s.cop,
		Message:   r.msg,
		Corrected: len(r.edits) > 0,
	})
	for _, e := range r.edits {
		e.CopName = s.cop
		e.CopIndex = s.copIndex
		e.Diagnostic = idx
		s.corrections = append(s.corrections, e)
	}
}
