package editplan

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseSegmentsCSV(t *testing.T) {
	data := "\ufeffStart,End,Reason\n0,4.5,hook\n0:12,0:30.25,keep\n\n1:00:01,1:00:05,\n"
	segments, err := ParseSegmentsCSV([]byte(data))
	if err != nil {
		t.Fatalf("ParseSegmentsCSV error: %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	if segments[0].Reason != ReasonHook || segments[0].End != 4.5 {
		t.Fatalf("unexpected first segment %+v", segments[0])
	}
	if segments[1].Start != 12 || segments[1].End != 30.25 {
		t.Fatalf("unexpected second segment %+v", segments[1])
	}
	if segments[2].Start != 3601 || segments[2].Reason != "" {
		t.Fatalf("unexpected third segment %+v", segments[2])
	}
}

func TestParseSegmentsTSV(t *testing.T) {
	segments, err := ParseSegmentsCSV([]byte("start\tend\n1\t2\n"))
	if err != nil || len(segments) != 1 || segments[0].End != 2 {
		t.Fatalf("unexpected result %+v (%v)", segments, err)
	}
}

func TestParseSegmentsCSVErrors(t *testing.T) {
	if _, err := ParseSegmentsCSV([]byte("start;end\n1;2\n")); err == nil || !strings.Contains(err.Error(), "delimiter") {
		t.Fatalf("expected delimiter error, got %v", err)
	}
	if _, err := ParseSegmentsCSV([]byte("start,reason\n1,keep\n")); err == nil || !strings.Contains(err.Error(), "missing required header: end") {
		t.Fatalf("expected header error, got %v", err)
	}
	if _, err := ParseSegmentsCSV([]byte("start,end\n")); err == nil || !strings.Contains(err.Error(), "no segment rows") {
		t.Fatalf("expected empty error, got %v", err)
	}

	segments, err := ParseSegmentsCSV([]byte("start,end\n1,2\nabc,0:75\n"))
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if len(segments) != 2 || len(verrs) != 2 {
		t.Fatalf("expected 2 segments and 2 issues, got %d and %v", len(segments), verrs)
	}
	if verrs[0].Index != 2 || verrs[0].Field != "start" {
		t.Fatalf("unexpected first issue %+v", verrs[0])
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"12.5", 12.5, false},
		{"0:12", 12, false},
		{"2:03.5", 123.5, false},
		{"1:02:03", 3723, false},
		{"0:60", 0, true},
		{"1:75:00", 0, true},
		{"-3", 0, true},
		{"1:2:3:4", 0, true},
		{"x", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTimestamp(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoadCSVPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cuts.csv")
	if err := os.WriteFile(path, []byte("start,end,reason\n0,5,hook\n10,40,keep\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	plan, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(plan.Segments) != 2 || plan.Segments[1].Reason != ReasonKeep {
		t.Fatalf("unexpected plan %+v", plan)
	}

	bad := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(bad, []byte("start,end,reason\n0,5,filler\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(bad); err == nil || !strings.Contains(err.Error(), "unknown reason") {
		t.Fatalf("expected reason validation error, got %v", err)
	}
}
