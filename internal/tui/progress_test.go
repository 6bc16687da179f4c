package tui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"clipsmith/internal/render"
)

func newModel() ProgressModel {
	return NewProgressModel("job abc", render.Stages, 3)
}

func update(t *testing.T, m ProgressModel, msg tea.Msg) (ProgressModel, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(ProgressModel), cmd
}

func TestNewProgressModelStartsPending(t *testing.T) {
	m := newModel()
	if len(m.rows) != len(render.Stages) {
		t.Fatalf("expected %d rows, got %d", len(render.Stages), len(m.rows))
	}
	for _, row := range m.rows {
		if row.state != StatePending {
			t.Fatalf("expected %s pending, got %s", row.stage, row.state)
		}
	}
}

func TestStageMsgUpdatesRow(t *testing.T) {
	m := newModel()
	m, _ = update(t, m, StageMsg{Stage: render.StageTrimming, Status: render.StatusStarted, Attempt: 1})
	m, _ = update(t, m, StageMsg{Stage: render.StageTrimming, Status: render.StatusCompleted, Attempt: 1, Detail: "3 clips"})
	m, _ = update(t, m, StageMsg{Stage: render.StageOverlaying, Status: render.StatusDegraded, Attempt: 1, Detail: "overlay failed"})

	trim := m.rows[m.index[render.StageTrimming]]
	if trim.state != StateDone || trim.detail != "3 clips" || trim.attempt != 1 {
		t.Fatalf("unexpected trimming row %+v", trim)
	}
	if got := m.rows[m.index[render.StageOverlaying]].state; got != StateDegraded {
		t.Fatalf("expected overlaying degraded, got %s", got)
	}
	if got := m.rows[m.index[render.StageMixing]].state; got != StatePending {
		t.Fatalf("expected mixing untouched, got %s", got)
	}
	if m.settled() != 2 {
		t.Fatalf("expected 2 settled rows, got %d", m.settled())
	}
}

func TestNewAttemptResetsRows(t *testing.T) {
	m := newModel()
	m, _ = update(t, m, StageMsg{Stage: render.StageTrimming, Status: render.StatusCompleted, Attempt: 1})
	m, _ = update(t, m, StageMsg{Stage: render.StageTransitioning, Status: render.StatusFailed, Attempt: 1, Detail: "xfade"})
	m, _ = update(t, m, StageMsg{Stage: render.StageTrimming, Status: render.StatusStarted, Attempt: 2})

	if m.attempt != 2 {
		t.Fatalf("expected attempt 2, got %d", m.attempt)
	}
	if got := m.rows[m.index[render.StageTransitioning]]; got.state != StatePending || got.detail != "" {
		t.Fatalf("expected transitioning reset, got %+v", got)
	}
	if got := m.rows[m.index[render.StageTrimming]].state; got != StateRunning {
		t.Fatalf("expected trimming running, got %s", got)
	}
}

func TestUnknownStageIgnored(t *testing.T) {
	m := newModel()
	m, _ = update(t, m, StageMsg{Stage: render.StageDone, Status: render.StatusCompleted, Attempt: 1})
	if m.settled() != 0 {
		t.Fatalf("expected no settled rows, got %d", m.settled())
	}
}

func TestWorkDoneMsg(t *testing.T) {
	m, cmd := update(t, newModel(), WorkDoneMsg{Output: "/tmp/final.mp4"})
	if !m.Done() {
		t.Error("expected Done() to be true after WorkDoneMsg")
	}
	if cmd == nil {
		t.Error("expected tea.Quit command")
	}
	view := m.View()
	if !strings.Contains(view, "Output: /tmp/final.mp4") {
		t.Errorf("expected output path in view, got %q", view)
	}
	if strings.Contains(view, "Attempt") {
		t.Error("expected no footer when done")
	}
}

func TestErrorMsg(t *testing.T) {
	m, cmd := update(t, newModel(), ErrorMsg{Err: errors.New("render failed after 3 attempts")})
	if !m.Done() || cmd == nil {
		t.Fatal("expected model to quit on error")
	}
	if m.Err() == nil {
		t.Fatal("expected error to be retained")
	}
	if !strings.Contains(m.View(), "render failed after 3 attempts") {
		t.Errorf("expected error in view, got %q", m.View())
	}
}

func TestView(t *testing.T) {
	m := newModel()
	m, _ = update(t, m, StageMsg{Stage: render.StageTrimming, Status: render.StatusStarted, Attempt: 1, Detail: "cutting"})
	view := m.View()

	for _, want := range []string{"job abc", "STAGE", "STATUS", "ATTEMPT", "DETAIL", "trimming", "running", "cutting", "mixing", "pending", "Attempt 1/3"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q:\n%s", want, view)
		}
	}
}

func TestTickMsg(t *testing.T) {
	m, cmd := update(t, newModel(), tickMsg{})
	if m.tick != 1 {
		t.Errorf("expected tick=1 after tickMsg, got %d", m.tick)
	}
	if cmd == nil {
		t.Error("expected next tick command")
	}
}

func TestTickStopsAfterDone(t *testing.T) {
	m, _ := update(t, newModel(), WorkDoneMsg{})
	if _, cmd := update(t, m, tickMsg{}); cmd != nil {
		t.Error("expected no tick command after done")
	}
}

func TestCtrlC(t *testing.T) {
	m, cmd := update(t, newModel(), tea.KeyMsg{Type: tea.KeyCtrlC})
	if !m.Done() {
		t.Error("expected Done() to be true after ctrl+c")
	}
	if cmd == nil {
		t.Error("expected tea.Quit command")
	}
}

func TestNonEmptyOrDash(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "-"},
		{"  ", "-"},
		{"hello", "hello"},
		{" hello ", "hello"},
	}
	for _, tt := range tests {
		if got := NonEmptyOrDash(tt.input); got != tt.want {
			t.Errorf("NonEmptyOrDash(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTruncateWithEllipsis(t *testing.T) {
	tests := []struct {
		input string
		max   int
		want  string
	}{
		{"short", 10, "short"},
		{"a longer string here", 10, "a longe..."},
		{"abcd", 3, "abc"},
		{"hello", 0, ""},
	}
	for _, tt := range tests {
		if got := TruncateWithEllipsis(tt.input, tt.max); got != tt.want {
			t.Errorf("TruncateWithEllipsis(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
		}
	}
}

func TestMarqueeText(t *testing.T) {
	tests := []struct {
		text  string
		width int
		tick  int
		want  string
	}{
		{"short", 10, 0, "short"},
		{"hello world here", 5, 1, "ello "},
		{"abcdef", 4, 6, "   a"},
	}
	for _, tt := range tests {
		if got := marqueeText(tt.text, tt.width, tt.tick); got != tt.want {
			t.Errorf("marqueeText(%q, %d, %d) = %q, want %q", tt.text, tt.width, tt.tick, got, tt.want)
		}
	}
}

func TestPlainReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewPlainReporter(&buf)
	r.Report(render.Event{Attempt: 2, Stage: render.StageOverlaying, Status: render.StatusDegraded, Err: errors.New("png missing")})
	r.Report(render.Event{Attempt: 2, Stage: render.StageMixing, Status: render.StatusCompleted})

	out := buf.String()
	if !strings.Contains(out, "[attempt 2] overlaying") || !strings.Contains(out, "degraded: png missing") {
		t.Fatalf("unexpected plain output %q", out)
	}
	if strings.Count(out, "\n") != 2 {
		t.Fatalf("expected two lines, got %q", out)
	}
}

func TestStageReporterSends(t *testing.T) {
	var got []tea.Msg
	r := NewStageReporter(func(msg tea.Msg) { got = append(got, msg) })
	r.Report(render.Event{Attempt: 1, Stage: render.StageCaptioning, Status: render.StatusSkipped, Detail: "no captions"})

	if len(got) != 1 {
		t.Fatalf("expected one message, got %d", len(got))
	}
	msg, ok := got[0].(StageMsg)
	if !ok || msg.Stage != render.StageCaptioning || msg.Status != render.StatusSkipped || msg.Detail != "no captions" {
		t.Fatalf("unexpected message %#v", got[0])
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{850 * time.Millisecond, "850ms"},
		{4200 * time.Millisecond, "4.2s"},
		{37 * time.Second, "37s"},
		{125 * time.Second, "2m05s"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.in); got != tt.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDetectModeNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	if got := DetectMode(&buf, false, false); got != ModePlain {
		t.Fatalf("expected plain for buffer, got %s", got)
	}
	if got := DetectMode(&buf, false, true); got != ModeJSON {
		t.Fatalf("expected json, got %s", got)
	}
}
