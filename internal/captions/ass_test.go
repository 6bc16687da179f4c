package captions

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipsmith/internal/options"
)

const sampleSRT = `1
00:00:00,000 --> 00:00:01,500
this is the hook line

2
00:00:02,000 --> 00:00:03,250
keep {watching}
`

func TestBuildASSDefaults(t *testing.T) {
	opts := options.Default()
	doc, err := BuildASS(sampleSRT, opts)
	if err != nil {
		t.Fatalf("BuildASS error: %v", err)
	}

	expectations := []string{
		"PlayResX: 1080\nPlayResY: 1920",
		"Style: Default,Arial Black,80,&H00FFFFFF",
		",2,40,40,232,1\n",
		"Dialogue: 0,0:00:00.00,0:00:01.50,Default,,0,0,0,,THIS IS THE HOOK LINE",
		`Dialogue: 0,0:00:02.00,0:00:03.25,Default,,0,0,0,,KEEP \{WATCHING\}`,
	}
	for _, expected := range expectations {
		if !strings.Contains(doc, expected) {
			t.Fatalf("expected %q in\n%s", expected, doc)
		}
	}
}

func TestBuildASSPositionAndTargetSize(t *testing.T) {
	opts := options.Default()
	opts.CaptionTemplate = "minimal"
	opts.CaptionPosition = "center"
	opts.CaptionSize = "lg"
	opts.CaptionSafeMargin = 60
	opts.TargetWidth = 1440
	opts.TargetHeight = 2560

	doc, err := BuildASS(sampleSRT, opts)
	if err != nil {
		t.Fatalf("BuildASS error: %v", err)
	}
	if !strings.Contains(doc, "PlayResX: 1440\nPlayResY: 2560") {
		t.Fatalf("expected target size in header:\n%s", doc)
	}
	if !strings.Contains(doc, "Style: Default,Helvetica,140,") || !strings.Contains(doc, ",5,60,60,60,1\n") {
		t.Fatalf("unexpected style line:\n%s", doc)
	}
	if !strings.Contains(doc, ",,this is the hook line") {
		t.Fatalf("minimal template must keep case:\n%s", doc)
	}
}

func TestBuildASSRejectsEmpty(t *testing.T) {
	if _, err := BuildASS("not an srt", options.Default()); err == nil {
		t.Fatal("expected error for empty captions")
	}
}

func TestWrapText(t *testing.T) {
	got := WrapText("one two three four five", 10)
	if got != `one two\Nthree four\Nfive` {
		t.Fatalf("unexpected wrap %q", got)
	}
	if got := WrapText("supercalifragilistic word", 10); got != `supercalifragilistic\Nword` {
		t.Fatalf("long words must not be split: %q", got)
	}
}

func TestFormatASSTime(t *testing.T) {
	cases := map[float64]string{
		0:       "0:00:00.00",
		1.5:     "0:00:01.50",
		3723.25: "1:02:03.25",
		-2:      "0:00:00.00",
	}
	for in, want := range cases {
		if got := FormatASSTime(in); got != want {
			t.Errorf("FormatASSTime(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestWriterWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job", "captions.ass")
	if err := (Writer{}).WriteASS(sampleSRT, options.Default(), path); err != nil {
		t.Fatalf("WriteASS error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read captions: %v", err)
	}
	if !strings.HasPrefix(string(data), "[Script Info]") {
		t.Fatalf("unexpected captions file: %s", data)
	}
}
