package formatter

import (
	"encoding/json"
	"io"
	"runtime"

	"rblint/internal/diag"
	"rblint/internal/linter"
	"rblint/internal/version"
)

// LocationJSON is a one-line location. Columns are 1-based as in the
// RuboCop JSON format; Column keeps the 0-based byte column.
type LocationJSON struct {
	StartLine   int `json:"start_line"`
	StartColumn int `json:"start_column"`
	LastLine    int `json:"last_line"`
	LastColumn  int `json:"last_column"`
	Length      int `json:"length"`
	Line        int `json:"line"`
	Column      int `json:"column"`
}

// OffenseJSON is one diagnostic.
type OffenseJSON struct {
	Severity  string       `json:"severity"`
	Message   string       `json:"message"`
	CopName   string       `json:"cop_name"`
	Corrected bool         `json:"corrected"`
	Location  LocationJSON `json:"location"`
}

// FileJSON groups the offenses of one file.
type FileJSON struct {
	Path     string        `json:"path"`
	Offenses []OffenseJSON `json:"offenses"`
}

// SummaryJSON closes the document.
type SummaryJSON struct {
	OffenseCount       int `json:"offense_count"`
	TargetFileCount    int `json:"target_file_count"`
	InspectedFileCount int `json:"inspected_file_count"`
}

// MetadataJSON describes the tool.
type MetadataJSON struct {
	Version        string `json:"rblint_version"`
	RuboCopVersion string `json:"rubocop_version"`
	Platform       string `json:"platform"`
}

// OutputJSON is the root document.
type OutputJSON struct {
	Metadata MetadataJSON `json:"metadata"`
	Files    []FileJSON   `json:"files"`
	Summary  SummaryJSON  `json:"summary"`
}

type jsonFormatter struct {
	w      io.Writer
	opts   Options
	target int
}

func newJSON(w io.Writer, opts Options) Formatter {
	return &jsonFormatter{w: w, opts: opts}
}

func (j *jsonFormatter) Started(files []string) {
	j.target = len(files)
}

func (j *jsonFormatter) FileFinished(*linter.FileResult) {}

// BuildOutput forms the JSON document without serializing it.
func BuildOutput(run *linter.RunResult, opts Options, target int) OutputJSON {
	out := OutputJSON{
		Metadata: MetadataJSON{
			Version:        opts.Version,
			RuboCopVersion: version.RuboCop,
			Platform:       runtime.GOOS + "/" + runtime.GOARCH,
		},
		Files: make([]FileJSON, 0, len(run.Files)),
	}
	for i := range run.Files {
		res := &run.Files[i]
		fj := FileJSON{Path: displayPath(res.Path, opts.Root), Offenses: make([]OffenseJSON, 0, len(res.Diagnostics))}
		for _, d := range res.Diagnostics {
			fj.Offenses = append(fj.Offenses, offenseJSON(d))
		}
		out.Summary.OffenseCount += len(fj.Offenses)
		out.Files = append(out.Files, fj)
	}
	out.Summary.InspectedFileCount = len(run.Files)
	out.Summary.TargetFileCount = max(target, len(run.Files))
	return out
}

func offenseJSON(d diag.Diagnostic) OffenseJSON {
	return OffenseJSON{
		Severity:  d.Severity.String(),
		Message:   d.Message,
		CopName:   d.CopName,
		Corrected: d.Corrected,
		Location: LocationJSON{
			StartLine:   d.Location.Line,
			StartColumn: d.Location.Column + 1,
			LastLine:    d.Location.Line,
			LastColumn:  d.Location.Column + 1,
			Line:        d.Location.Line,
			Column:      d.Location.Column,
		},
	}
}

func (j *jsonFormatter) Finished(run *linter.RunResult) error {
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildOutput(run, j.opts, j.target))
}
