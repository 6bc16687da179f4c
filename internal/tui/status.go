package tui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// PhaseSpinner prints a spinning status line while setup work runs, before
// the stage table takes over the terminal.
type PhaseSpinner struct {
	w       io.Writer
	mu      sync.Mutex
	phase   string
	started time.Time
	done    chan struct{}
	stopped bool
}

// NewPhaseSpinner starts redrawing the current phase on w every 100ms.
func NewPhaseSpinner(w io.Writer) *PhaseSpinner {
	s := &PhaseSpinner{
		w:       w,
		started: time.Now(),
		done:    make(chan struct{}),
	}
	go s.loop()
	return s
}

// Phase switches the displayed text and restarts the elapsed timer.
func (s *PhaseSpinner) Phase(text string) {
	s.mu.Lock()
	s.phase = text
	s.started = time.Now()
	s.mu.Unlock()
}

// Stop clears the line. It is safe to call more than once.
func (s *PhaseSpinner) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()
	close(s.done)
	fmt.Fprint(s.w, "\r\033[K")
}

func (s *PhaseSpinner) loop() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			phase, started := s.phase, s.started
			s.mu.Unlock()
			fmt.Fprintf(s.w, "\r\033[K%s %s (%s)", spinnerFrames[frame%len(spinnerFrames)], phase, FormatElapsed(time.Since(started)))
		}
	}
}

// FormatElapsed renders a duration compactly: 850ms, 4.2s, 37s, 2m05s.
func FormatElapsed(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < 10*time.Second:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}
