package linter

import "time"

// Stage is a step of the per-file pipeline.
type Stage string

const (
	StageRead    Stage = "read"
	StageParse   Stage = "parse"
	StageCheck   Stage = "check"
	StageCorrect Stage = "correct"
)

// Status captures progress within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	// StatusCached marks a file answered from the result cache.
	StatusCached Status = "cached"
	StatusError  Status = "error"
)

// Event reports progress for one file. Offenses is set on terminal events.
type Event struct {
	File     string
	Stage    Stage
	Status   Status
	Offenses int
	Elapsed  time.Duration
}

func (e *Engine) emit(ev Event) {
	if e.opts.Events == nil {
		return
	}
	e.opts.Events <- ev
}
