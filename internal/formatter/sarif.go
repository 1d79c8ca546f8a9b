package formatter

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/google/uuid"

	"rblint/internal/diag"
	"rblint/internal/linter"
)

const sarifSchema = "https://json.schemastore.org/sarif-2.1.0.json"

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool         `json:"tool"`
	AutomationDetails sarifAutomation   `json:"automationDetails"`
	Invocations       []sarifInvocation `json:"invocations,omitempty"`
	Results           []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID string `json:"id"`
}

type sarifAutomation struct {
	GUID string `json:"guid"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
}

type sarifFormatter struct {
	w    io.Writer
	opts Options
}

func newSarif(w io.Writer, opts Options) Formatter {
	return &sarifFormatter{w: w, opts: opts}
}

func (s *sarifFormatter) Started([]string)                {}
func (s *sarifFormatter) FileFinished(*linter.FileResult) {}

func (s *sarifFormatter) Finished(run *linter.RunResult) error {
	enc := json.NewEncoder(s.w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildSarif(run, s.opts))
}

// buildSarif emits one SARIF run; corrected diagnostics are left out.
func buildSarif(run *linter.RunResult, opts Options) sarifLog {
	ruleIndex := make(map[string]int)
	var results []sarifResult
	for _, d := range run.Diagnostics() {
		if d.Corrected {
			continue
		}
		if _, ok := ruleIndex[d.CopName]; !ok {
			ruleIndex[d.CopName] = -1
		}
		results = append(results, sarifResult{
			RuleID:  d.CopName,
			Level:   sarifLevel(d.Severity),
			Message: sarifMessage{Text: d.Message},
			Locations: []sarifLocation{{PhysicalLocation: sarifPhysical{
				ArtifactLocation: sarifArtifact{URI: displayPath(d.Path, opts.Root)},
				Region:           sarifRegion{StartLine: d.Location.Line, StartColumn: d.Location.Column + 1},
			}}},
		})
	}

	names := make([]string, 0, len(ruleIndex))
	for name := range ruleIndex {
		names = append(names, name)
	}
	sort.Strings(names)
	rules := make([]sarifRule, len(names))
	for i, name := range names {
		rules[i] = sarifRule{ID: name}
		ruleIndex[name] = i
	}
	for i := range results {
		results[i].RuleIndex = ruleIndex[results[i].RuleID]
	}
	if results == nil {
		results = []sarifResult{}
	}

	return sarifLog{
		Schema:  sarifSchema,
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:           "rblint",
				Version:        opts.Version,
				InformationURI: "https://docs.rubocop.org/rubocop/cops.html",
				Rules:          rules,
			}},
			AutomationDetails: sarifAutomation{GUID: uuid.NewString()},
			Invocations: []sarifInvocation{{
				Arguments:           opts.Args,
				ExecutionSuccessful: !run.Internal(),
			}},
			Results: results,
		}},
	}
}

func sarifLevel(s diag.Severity) string {
	switch {
	case s >= diag.SevError:
		return "error"
	case s == diag.SevWarning:
		return "warning"
	}
	return "note"
}
