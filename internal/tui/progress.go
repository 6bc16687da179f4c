package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"clipsmith/internal/render"
)

const (
	tickInterval = 150 * time.Millisecond
	marqueeGap   = "   "

	stageWidth   = 13
	statusWidth  = 8
	attemptWidth = 7
	detailWidth  = 40
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// tickMsg drives the spinner and marquee.
type tickMsg time.Time

type stageRow struct {
	stage   render.Stage
	state   string
	attempt int
	detail  string
}

// ProgressModel renders one row per render stage of a single job.
type ProgressModel struct {
	title    string
	rows     []stageRow
	index    map[render.Stage]int
	attempt  int
	attempts int
	output   string
	done     bool
	err      error
	tick     int
}

// NewProgressModel builds a model with every stage pending. attempts is the
// length of the retry policy, shown in the footer.
func NewProgressModel(title string, stages []render.Stage, attempts int) ProgressModel {
	m := ProgressModel{
		title:    title,
		index:    make(map[render.Stage]int, len(stages)),
		attempts: attempts,
	}
	for i, st := range stages {
		m.index[st] = i
		m.rows = append(m.rows, stageRow{stage: st, state: StatePending})
	}
	return m
}

func scheduleTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init satisfies the tea.Model interface.
func (m ProgressModel) Init() tea.Cmd {
	return scheduleTick()
}

// Update satisfies the tea.Model interface.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.tick++
		if m.done {
			return m, nil
		}
		return m, scheduleTick()

	case StageMsg:
		m.applyStage(msg)
		return m, nil

	case WorkDoneMsg:
		m.output = msg.Output
		m.done = true
		return m, tea.Quit

	case ErrorMsg:
		m.err = msg.Err
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// applyStage records a stage transition. A higher attempt number means the
// previous attempt failed, so every row goes back to pending first.
func (m *ProgressModel) applyStage(msg StageMsg) {
	if msg.Attempt > m.attempt {
		if m.attempt > 0 {
			for i := range m.rows {
				m.rows[i].state = StatePending
				m.rows[i].detail = ""
			}
		}
		m.attempt = msg.Attempt
	}
	idx, ok := m.index[msg.Stage]
	if !ok {
		return
	}
	row := &m.rows[idx]
	row.state = rowState(msg.Status)
	row.attempt = msg.Attempt
	if msg.Detail != "" || msg.Status == render.StatusStarted {
		row.detail = msg.Detail
	}
}

func rowState(status render.EventStatus) string {
	switch status {
	case render.StatusStarted:
		return StateRunning
	case render.StatusCompleted:
		return StateDone
	case render.StatusSkipped:
		return StateSkipped
	case render.StatusDegraded:
		return StateDegraded
	case render.StatusFailed:
		return StateFailed
	}
	return StatePending
}

// View satisfies the tea.Model interface.
func (m ProgressModel) View() string {
	if m.done && m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	var b strings.Builder
	if m.title != "" {
		b.WriteString(TitleStyle.Render(m.title))
		b.WriteString("\n\n")
	}

	header := []string{
		pad("STAGE", stageWidth),
		pad("STATUS", statusWidth),
		pad("ATTEMPT", attemptWidth),
		"DETAIL",
	}
	for i, h := range header {
		header[i] = HeaderStyle.Render(h)
	}
	b.WriteString(strings.Join(header, "  "))
	b.WriteByte('\n')

	for _, row := range m.rows {
		attempt := "-"
		if row.attempt > 0 {
			attempt = strconv.Itoa(row.attempt)
		}
		detail := NonEmptyOrDash(row.detail)
		if !m.done && len(detail) > detailWidth {
			detail = marqueeText(detail, detailWidth, m.tick)
		} else {
			detail = TruncateWithEllipsis(detail, detailWidth)
		}
		parts := []string{
			pad(string(row.stage), stageWidth),
			StatusStyle(row.state).Render(pad(row.state, statusWidth)),
			pad(attempt, attemptWidth),
			detail,
		}
		b.WriteString(strings.Join(parts, "  "))
		b.WriteByte('\n')
	}

	if m.done {
		if m.output != "" {
			fmt.Fprintf(&b, "\nOutput: %s\n", m.output)
		}
		return b.String()
	}
	spinner := spinnerFrames[m.tick%len(spinnerFrames)]
	attempt := max(m.attempt, 1)
	fmt.Fprintf(&b, "\n%s %s\n", spinner, FaintStyle.Render(fmt.Sprintf("Attempt %d/%d, %d/%d stages settled", attempt, m.attempts, m.settled(), len(m.rows))))
	return b.String()
}

// settled counts rows that are no longer pending or running.
func (m ProgressModel) settled() int {
	n := 0
	for _, row := range m.rows {
		if row.state != StatePending && row.state != StateRunning {
			n++
		}
	}
	return n
}

// Done returns whether the model has finished (work done or error).
func (m ProgressModel) Done() bool {
	return m.done
}

// Err returns any fatal error that occurred.
func (m ProgressModel) Err() error {
	return m.err
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// marqueeText slides a width-sized window over text on each tick.
func marqueeText(text string, width, tick int) string {
	text = strings.TrimSpace(text)
	if width <= 0 {
		return ""
	}
	if len(text) <= width {
		return text
	}
	cycle := text + marqueeGap
	offset := tick % len(cycle)
	var out strings.Builder
	out.Grow(width)
	for i := 0; i < width; i++ {
		out.WriteByte(cycle[(offset+i)%len(cycle)])
	}
	return out.String()
}

// NonEmptyOrDash returns "-" for empty/whitespace strings.
func NonEmptyOrDash(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "-"
	}
	return value
}

// TruncateWithEllipsis truncates a string and adds "..." if it exceeds max length.
func TruncateWithEllipsis(value string, max int) string {
	if max <= 0 {
		return ""
	}
	value = strings.TrimSpace(value)
	if len(value) <= max {
		return value
	}
	if max <= 3 {
		return value[:max]
	}
	return value[:max-3] + "..."
}
