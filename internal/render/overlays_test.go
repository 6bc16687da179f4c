package render

import (
	"context"
	"testing"

	"clipsmith/internal/paths"
)

func TestBuildOverlayGraphPlacements(t *testing.T) {
	items := []OverlayItem{
		{Path: "a.png", Start: 1, End: 2.5, Placement: PlacementTopRight},
		{Path: "b.png", Start: 4, End: 6, Placement: PlacementBottomLeft},
	}
	graph, last := BuildOverlayGraph(items)
	if err := graph.Validate(); err != nil {
		t.Fatalf("graph invalid: %v", err)
	}
	want := "[0:v][1:v]overlay=W-w-40:40:enable='between(t,1,2.5)'[v1];" +
		"[v1][2:v]overlay=40:H-h-40:enable='between(t,4,6)'[v2]"
	if got := graph.String(); got != want {
		t.Fatalf("unexpected graph\n got: %s\nwant: %s", got, want)
	}
	if last != "v2" {
		t.Fatalf("expected last pad v2, got %s", last)
	}
}

func TestApplyOverlaysEncodesWithOverlayProfile(t *testing.T) {
	fake := newFakeRunner()
	svc := newTestService(t, fake)
	jp := paths.NewJobPaths(t.TempDir())

	items := []OverlayItem{{Path: "a.png", Start: 0, End: 1}}
	out, err := svc.ApplyOverlays(context.Background(), fake, jp.Concat, items, jp.Overlay)
	if err != nil {
		t.Fatalf("ApplyOverlays error: %v", err)
	}
	if out != jp.Overlay {
		t.Fatalf("expected overlay output, got %s", out)
	}
	args := fake.ffmpegCalls()[0].Args
	if argAfter(args, "-preset") != "medium" || argAfter(args, "-crf") != "20" || argAfter(args, "-map") != "[v1]" {
		t.Fatalf("unexpected overlay args: %v", args)
	}
}

func TestApplyOverlaysPassThrough(t *testing.T) {
	fake := newFakeRunner()
	svc := newTestService(t, fake)
	jp := paths.NewJobPaths(t.TempDir())

	out, err := svc.ApplyOverlays(context.Background(), fake, jp.Concat, nil, jp.Overlay)
	if err != nil || out != jp.Concat {
		t.Fatalf("expected base pass-through, got %s, %v", out, err)
	}
	if len(fake.calls) != 0 {
		t.Fatalf("expected no process calls, got %d", len(fake.calls))
	}
}

func TestApplyOverlaysFailureKeepsBase(t *testing.T) {
	fake := newFakeRunner()
	fake.failOn = []string{"overlay="}
	svc := newTestService(t, fake)
	jp := paths.NewJobPaths(t.TempDir())

	out, err := svc.ApplyOverlays(context.Background(), fake, jp.Concat, []OverlayItem{{Path: "a.png", End: 1}}, jp.Overlay)
	if err == nil {
		t.Fatal("expected overlay error")
	}
	if out != jp.Concat {
		t.Fatalf("expected base path on failure, got %s", out)
	}
}
