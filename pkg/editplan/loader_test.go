package editplan

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadJSONPlan(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.json")
	data := `{
  "segments": [{"start": 0, "end": 4.5, "reason": "hook"}, {"start": 12, "end": 30, "reason": "keep"}],
  "hook": {"start": 0, "end": 4.5},
  "overlays": [{"start": 1, "end": 3, "text": "Wow"}],
  "captions_srt": "1\n00:00:00,000 --> 00:00:01,000\nHi\n",
  "transition": "dip_black",
  "sound_effects": [{"start": 2, "end": 3, "text": "whoosh"}]
}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write plan: %v", err)
	}

	plan, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(plan.Segments) != 2 || plan.Segments[0].Reason != ReasonHook {
		t.Fatalf("unexpected segments: %+v", plan.Segments)
	}
	if plan.Hook == nil || plan.Hook.End != 4.5 {
		t.Fatalf("unexpected hook: %+v", plan.Hook)
	}
	if plan.Transition != "dip_black" {
		t.Fatalf("unexpected transition %q", plan.Transition)
	}
	if len(plan.SoundEffects) != 1 || plan.SoundEffects[0].Text != "whoosh" {
		t.Fatalf("unexpected sound effects: %+v", plan.SoundEffects)
	}
}

func TestLoadYAMLPlan(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yaml")
	data := "segments:\n  - {start: 0, end: 5}\n  - {start: 5, end: 20, reason: keep}\ntransition: swipe\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write plan: %v", err)
	}

	plan, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(plan.Segments) != 2 || plan.Segments[1].End != 20 {
		t.Fatalf("unexpected segments: %+v", plan.Segments)
	}
	if plan.Transition != "swipe" {
		t.Fatalf("unexpected transition %q", plan.Transition)
	}
}

func TestLoadReportsValidationErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.json")
	data := `{"segments": [{"start": -1, "end": 4}, {"start": 5, "end": 9, "reason": "filler"}]}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write plan: %v", err)
	}

	_, err := Load(path)
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if len(verrs.Issues()) != 2 {
		t.Fatalf("expected 2 issues, got %v", verrs)
	}
	if !strings.Contains(err.Error(), "segments[2] reason") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.json")
	if err := os.WriteFile(path, []byte("  \n"), 0o644); err != nil {
		t.Fatalf("write plan: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for empty plan")
	}
}
