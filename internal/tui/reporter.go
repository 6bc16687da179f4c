package tui

import (
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"clipsmith/internal/render"
)

// StageReporter forwards render events to a running bubbletea program.
type StageReporter struct {
	send func(tea.Msg)
}

// NewStageReporter wraps a send callback such as tea.Program.Send.
func NewStageReporter(send func(tea.Msg)) *StageReporter {
	return &StageReporter{send: send}
}

// Report implements render.Reporter.
func (r *StageReporter) Report(ev render.Event) {
	r.send(StageMsg{
		Stage:   ev.Stage,
		Status:  ev.Status,
		Attempt: ev.Attempt,
		Detail:  eventDetail(ev),
	})
}

// PlainReporter prints one line per event for non-interactive output.
type PlainReporter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewPlainReporter writes event lines to w.
func NewPlainReporter(w io.Writer) *PlainReporter {
	return &PlainReporter{w: w}
}

// Report implements render.Reporter.
func (r *PlainReporter) Report(ev render.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	line := fmt.Sprintf("[attempt %d] %-13s %s", ev.Attempt, ev.Stage, ev.Status)
	if detail := eventDetail(ev); detail != "" {
		line += ": " + detail
	}
	fmt.Fprintln(r.w, line)
}

func eventDetail(ev render.Event) string {
	if ev.Err != nil {
		return ev.Err.Error()
	}
	return ev.Detail
}
