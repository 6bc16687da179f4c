package render

import "fmt"

// StageError records which stage of which attempt failed.
type StageError struct {
	Stage   Stage
	Attempt int
	Err     error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("attempt %d: %s: %v", e.Attempt, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// IntegrityError reports a finished output smaller than its source.
type IntegrityError struct {
	SourceWidth  int
	SourceHeight int
	OutputWidth  int
	OutputHeight int
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("output resolution %dx%d lower than source %dx%d",
		e.OutputWidth, e.OutputHeight, e.SourceWidth, e.SourceHeight)
}
