package tui

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// RunWithWork starts a bubbletea program and runs workFn beside it. workFn
// gets a send callback for progress and returns the output path; the program
// quits once it returns.
func RunWithWork(out io.Writer, model ProgressModel, workFn func(send func(tea.Msg)) (string, error)) error {
	p := tea.NewProgram(model, tea.WithOutput(out))

	go func() {
		// Let bubbletea render the initial frame first.
		time.Sleep(50 * time.Millisecond)

		output, err := workFn(p.Send)
		if err != nil {
			p.Send(ErrorMsg{Err: err})
			return
		}
		p.Send(WorkDoneMsg{Output: output})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(ProgressModel); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
