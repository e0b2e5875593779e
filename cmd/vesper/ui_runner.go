package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"vesper/internal/driver"
	"vesper/internal/ui"
)

type emitOutcome struct {
	results []driver.Result
	err     error
}

func runEmitWithUI(ctx context.Context, title string, paths []string, req *driver.Request) ([]driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan emitOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = driver.ChannelSink{Ch: events}
		results, err := driver.EmitAll(ctx, &reqCopy)
		outcomeCh <- emitOutcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, paths, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
