package options

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default options invalid: %v", err)
	}
}

func TestNormalizeTransition(t *testing.T) {
	cases := map[string]string{
		"":              "auto",
		"Auto (Gemini)": "auto",
		"auto_gemini":   "auto",
		"Cross-Fade":    "crossfade",
		"cross fade":    "crossfade",
		"dip to black":  "dip_black",
		" swipe ":       "swipe",
		"none":          "none",
		"zoom":          "auto",
	}
	for in, want := range cases {
		if got := NormalizeTransition(in); got != want {
			t.Errorf("NormalizeTransition(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeClamps(t *testing.T) {
	o := Default()
	o.Brightness = Float(0.9)
	o.Contrast = Float(0.1)
	o.Saturation = Float(2)
	o.Gamma = Float(1.0)
	o.Sharpness = 3
	o.TransitionDuration = 2
	o.MusicVolume = 0.9
	o.AIVisualsMaxOverlays = 9
	o.CaptionSafeMargin = -5
	o.CaptionMaxChars = 2
	o.TransitionType = "Dip To Black"

	o.Sanitize()

	if *o.Brightness != 0.2 || *o.Contrast != 0.8 || *o.Saturation != 1.4 || *o.Gamma != 1.0 {
		t.Fatalf("color clamps wrong: %v %v %v %v", *o.Brightness, *o.Contrast, *o.Saturation, *o.Gamma)
	}
	if o.Sharpness != 1 || o.TransitionDuration != 0.6 || o.MusicVolume != 0.25 {
		t.Fatalf("numeric clamps wrong: %+v", o)
	}
	if o.AIVisualsMaxOverlays != 4 || o.CaptionSafeMargin != 0 || o.CaptionMaxChars != 10 {
		t.Fatalf("integer clamps wrong: %+v", o)
	}
	if o.TransitionType != TransitionDipBlack {
		t.Fatalf("transition = %q", o.TransitionType)
	}
	if err := o.Validate(); err != nil {
		t.Fatalf("sanitized options should validate: %v", err)
	}
}

func TestValidateRejectsOutsideAllowList(t *testing.T) {
	o := Default()
	o.Platform = "Vine"
	o.FPS = 25
	o.DurationS = 90

	err := o.Validate()
	var oerr *Error
	if !errors.As(err, &oerr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	got := make([]string, 0, len(oerr.Fields))
	for _, f := range oerr.Fields {
		got = append(got, f.Field)
	}
	if strings.Join(got, ",") != "duration_s,fps,platform" {
		t.Fatalf("unexpected fields: %v", got)
	}
	if !strings.Contains(err.Error(), `platform: invalid value "Vine"`) {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestValidateRequiresVoiceoverPath(t *testing.T) {
	o := Default()
	o.VoiceoverEnabled = true
	err := o.Validate()
	if err == nil || !strings.Contains(err.Error(), "voiceover_path") {
		t.Fatalf("expected voiceover_path error, got %v", err)
	}
	o.VoiceoverPath = "/tmp/vo.mp3"
	if err := o.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadLayersOverBase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "options.yaml")
	data := "filters_enabled: true\nfilter_preset: Cinematic\ncontrast: 1.2\ntransition_type: cross-fade\nfps: 60\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write options: %v", err)
	}

	o, err := Load(path, Default())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !o.FiltersEnabled || o.FilterPreset != "cinematic" || o.FPS != 60 {
		t.Fatalf("unexpected options: %+v", o)
	}
	if o.Contrast == nil || *o.Contrast != 1.2 || o.Brightness != nil {
		t.Fatalf("unexpected overrides: contrast=%v brightness=%v", o.Contrast, o.Brightness)
	}
	if o.TransitionType != TransitionCrossfade {
		t.Fatalf("transition = %q", o.TransitionType)
	}
	if o.CaptionTemplate != "tiktok_bold" {
		t.Fatalf("base value lost: %q", o.CaptionTemplate)
	}
}

func TestLoadWithoutPathReturnsBase(t *testing.T) {
	o, err := Load("", Default())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if o.DurationS != 45 {
		t.Fatalf("unexpected duration %d", o.DurationS)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	o := Default()
	o.Brightness = Float(0.1)
	o.SFXItems = []SfxItem{{Path: "a.mp3", Volume: 0.8}}

	c := o.Clone()
	*c.Brightness = -0.1
	c.SFXItems[0].Path = "b.mp3"

	if *o.Brightness != 0.1 || o.SFXItems[0].Path != "a.mp3" {
		t.Fatal("clone shares state with original")
	}
}

func TestParseResolution(t *testing.T) {
	w, h, err := ParseResolution("720x1280")
	if err != nil || w != 720 || h != 1280 {
		t.Fatalf("ParseResolution = %d %d %v", w, h, err)
	}
	if _, _, err := ParseResolution("wide"); err == nil {
		t.Fatal("expected error")
	}
}
