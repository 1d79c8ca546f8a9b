package main

import (
	"context"
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"rblint/internal/cop"
	"rblint/internal/linter"
	"rblint/internal/source"
	"rblint/internal/ui"
)

var errInterrupted = errors.New("interrupted")

type lintOutcome struct {
	result *linter.RunResult
	err    error
}

// runLintWithUI runs the engine in the background and renders its events.
// Quitting the UI cancels the run; remaining events are drained so the
// workers never block.
func runLintWithUI(ctx context.Context, title string, files []string, fset *source.FileSet, filter *cop.Filter, opts linter.Options) (*linter.RunResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan linter.Event, 256)
	outcomeCh := make(chan lintOutcome, 1)
	opts.Events = events

	go func() {
		res, err := linter.NewEngine(filter, opts).Run(ctx, fset, files)
		outcomeCh <- lintOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	final, uiErr := program.Run()
	interrupted := uiErr == nil && !ui.Completed(final)
	if uiErr != nil || interrupted {
		cancel()
	}
	for range events {
	}
	outcome := <-outcomeCh
	switch {
	case uiErr != nil:
		return outcome.result, uiErr
	case interrupted:
		return outcome.result, errInterrupted
	}
	return outcome.result, outcome.err
}
