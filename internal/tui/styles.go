package tui

import "github.com/charmbracelet/lipgloss"

// Row states shown in the STATUS column.
const (
	StatePending  = "pending"
	StateRunning  = "running"
	StateDone     = "done"
	StateSkipped  = "skipped"
	StateDegraded = "degraded"
	StateFailed   = "failed"
)

var (
	// TitleStyle styles the job line above the table.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	// HeaderStyle styles the column header row.
	HeaderStyle = lipgloss.NewStyle().Bold(true)
	// FaintStyle is used for secondary text such as the footer.
	FaintStyle = lipgloss.NewStyle().Faint(true)

	statusStyles = map[string]lipgloss.Style{
		StateDone:     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		StateRunning:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		StateSkipped:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		StateDegraded: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		StateFailed:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		StatePending:  lipgloss.NewStyle().Faint(true),
	}
)

// StatusStyle returns the lipgloss style for a row state.
func StatusStyle(status string) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
