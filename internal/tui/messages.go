package tui

import "clipsmith/internal/render"

// StageMsg carries one render stage transition into the model.
type StageMsg struct {
	Stage   render.Stage
	Status  render.EventStatus
	Attempt int
	Detail  string
}

// WorkDoneMsg signals that the job finished and where its output landed.
type WorkDoneMsg struct {
	Output string
}

// ErrorMsg signals a fatal error; the TUI should quit.
type ErrorMsg struct {
	Err error
}
