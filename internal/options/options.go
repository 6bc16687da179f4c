// Package options defines the typed per-job render configuration.
package options

import (
	"fmt"
	"strconv"
	"strings"
)

// Transition names accepted after alias normalization.
const (
	TransitionAuto      = "auto"
	TransitionNone      = "none"
	TransitionFade      = "fade"
	TransitionCrossfade = "crossfade"
	TransitionDipBlack  = "dip_black"
	TransitionSwipe     = "swipe"
)

// Voiceover combination modes.
const (
	VoiceoverReplace = "replace"
	VoiceoverMix     = "mix"
	VoiceoverDuck    = "duck"
)

// Transitions lists every allowed transition value.
var Transitions = []string{TransitionAuto, TransitionNone, TransitionFade, TransitionCrossfade, TransitionDipBlack, TransitionSwipe}

// SfxItem is a resolved sound effect positioned on the edited timeline.
type SfxItem struct {
	Path   string  `yaml:"path" json:"path" validate:"required"`
	Start  float64 `yaml:"start" json:"start" validate:"min=0"`
	Volume float64 `yaml:"volume" json:"volume" validate:"min=0"`
}

// RenderOptions captures every toggle that affects a job's output. It is
// owned by a single job; Clone before handing a variant to another attempt.
type RenderOptions struct {
	Platform      string `yaml:"platform" json:"platform" validate:"oneof=Shorts TikTok Reels"`
	Style         string `yaml:"style" json:"style" validate:"oneof=Energique Pro Storytelling Tutorial"`
	CutIntensity  string `yaml:"cut_intensity" json:"cut_intensity" validate:"oneof=Soft Medium Hard"`
	Language      string `yaml:"language" json:"language" validate:"oneof=FR EN"`
	ContentPreset string `yaml:"content_preset" json:"content_preset" validate:"oneof=auto podcast facecam screen vlog"`
	ReframeMode   string `yaml:"reframe_mode" json:"reframe_mode" validate:"oneof=center smart"`
	DurationS     int    `yaml:"duration_s" json:"duration_s" validate:"min=30,max=60"`

	OutputResolution string `yaml:"output_resolution" json:"output_resolution" validate:"oneof=1080x1920 720x1280"`
	FPS              int    `yaml:"fps" json:"fps" validate:"oneof=24 30 60"`

	FiltersEnabled bool     `yaml:"filters_enabled" json:"filters_enabled"`
	FilterPreset   string   `yaml:"filter_preset" json:"filter_preset" validate:"oneof=none clean cinematic vibrant bw retro sharp soft"`
	Brightness     *float64 `yaml:"brightness,omitempty" json:"brightness,omitempty" validate:"omitempty,min=-0.2,max=0.2"`
	Contrast       *float64 `yaml:"contrast,omitempty" json:"contrast,omitempty" validate:"omitempty,min=0.8,max=1.3"`
	Saturation     *float64 `yaml:"saturation,omitempty" json:"saturation,omitempty" validate:"omitempty,min=0.8,max=1.4"`
	Gamma          *float64 `yaml:"gamma,omitempty" json:"gamma,omitempty" validate:"omitempty,min=0.8,max=1.2"`
	Sharpness      float64  `yaml:"sharpness" json:"sharpness" validate:"min=0,max=1"`
	Denoise        bool     `yaml:"denoise" json:"denoise"`
	Vignette       bool     `yaml:"vignette" json:"vignette"`
	Grain          bool     `yaml:"grain" json:"grain"`

	CaptionsEnabled   bool   `yaml:"captions_enabled" json:"captions_enabled"`
	CaptionTemplate   string `yaml:"caption_template" json:"caption_template" validate:"oneof=tiktok_bold minimal creator high_contrast"`
	CaptionPosition   string `yaml:"caption_position" json:"caption_position" validate:"oneof=bottom center top"`
	CaptionSize       string `yaml:"caption_size" json:"caption_size" validate:"oneof=sm md lg"`
	CaptionSafeMargin int    `yaml:"caption_safe_margin" json:"caption_safe_margin" validate:"min=0"`
	CaptionMaxChars   int    `yaml:"caption_max_chars_per_line" json:"caption_max_chars_per_line" validate:"min=10"`

	TransitionType     string  `yaml:"transition_type" json:"transition_type" validate:"oneof=auto none fade crossfade dip_black swipe"`
	TransitionDuration float64 `yaml:"transition_duration" json:"transition_duration" validate:"min=0.1,max=0.6"`

	AudioEnhance    bool `yaml:"audio_enhance" json:"audio_enhance"`
	AudioLoudnorm   bool `yaml:"audio_loudnorm" json:"audio_loudnorm"`
	AudioCompressor bool `yaml:"audio_compressor" json:"audio_compressor"`
	AudioDenoise    bool `yaml:"audio_denoise" json:"audio_denoise"`

	VoiceoverEnabled bool    `yaml:"voiceover_enabled" json:"voiceover_enabled"`
	VoiceoverPath    string  `yaml:"voiceover_path,omitempty" json:"voiceover_path,omitempty" validate:"required_if=VoiceoverEnabled true"`
	VoiceoverMode    string  `yaml:"voiceover_mode" json:"voiceover_mode" validate:"oneof=replace mix duck"`
	VoiceoverSpeed   float64 `yaml:"voiceover_speed" json:"voiceover_speed" validate:"gt=0"`
	VoiceoverPreSped bool    `yaml:"voiceover_pre_sped" json:"voiceover_pre_sped"`

	MusicEnabled bool    `yaml:"music_enabled" json:"music_enabled"`
	MusicFile    string  `yaml:"music_file,omitempty" json:"music_file,omitempty" validate:"required_if=MusicEnabled true"`
	MusicVolume  float64 `yaml:"music_volume" json:"music_volume" validate:"min=0,max=0.25"`
	MusicDucking bool    `yaml:"music_ducking" json:"music_ducking"`

	SFXEnabled bool      `yaml:"sfx_enabled" json:"sfx_enabled"`
	SFXItems   []SfxItem `yaml:"sfx_items,omitempty" json:"sfx_items,omitempty" validate:"dive"`

	AIVisualsEnabled        bool `yaml:"ai_visuals_enabled" json:"ai_visuals_enabled"`
	AIVisualsMaxOverlays    int  `yaml:"ai_visuals_max_overlays" json:"ai_visuals_max_overlays" validate:"min=0,max=4"`
	AIVisualsTransparentPNG bool `yaml:"ai_visuals_transparent_png" json:"ai_visuals_transparent_png"`

	// Resolved during rendering.
	TargetWidth  int `yaml:"target_width,omitempty" json:"target_width,omitempty"`
	TargetHeight int `yaml:"target_height,omitempty" json:"target_height,omitempty"`
}

// Default returns the baseline options used when a field is omitted.
func Default() RenderOptions {
	return RenderOptions{
		Platform:                "Shorts",
		Style:                   "Pro",
		CutIntensity:            "Medium",
		Language:                "EN",
		ContentPreset:           "auto",
		ReframeMode:             "center",
		DurationS:               45,
		OutputResolution:        "1080x1920",
		FPS:                     30,
		FilterPreset:            "none",
		CaptionsEnabled:         true,
		CaptionTemplate:         "tiktok_bold",
		CaptionPosition:         "bottom",
		CaptionSize:             "md",
		CaptionSafeMargin:       40,
		CaptionMaxChars:         32,
		TransitionType:          TransitionNone,
		TransitionDuration:      0.3,
		VoiceoverMode:           VoiceoverReplace,
		VoiceoverSpeed:          1.0,
		MusicVolume:             0.15,
		AIVisualsMaxOverlays:    2,
		AIVisualsTransparentPNG: true,
	}
}

// Clone returns a deep copy safe to mutate independently.
func (o RenderOptions) Clone() RenderOptions {
	c := o
	c.Brightness = clonePtr(o.Brightness)
	c.Contrast = clonePtr(o.Contrast)
	c.Saturation = clonePtr(o.Saturation)
	c.Gamma = clonePtr(o.Gamma)
	if o.SFXItems != nil {
		c.SFXItems = append([]SfxItem(nil), o.SFXItems...)
	}
	return c
}

// RequestedWidth parses the width out of OutputResolution.
func (o RenderOptions) RequestedWidth() (int, error) {
	w, _, err := ParseResolution(o.OutputResolution)
	return w, err
}

// ParseResolution splits a "WxH" string.
func ParseResolution(value string) (int, int, error) {
	parts := strings.SplitN(strings.TrimSpace(value), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid resolution %q", value)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid resolution width %q", value)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid resolution height %q", value)
	}
	return w, h, nil
}

// Float returns a pointer to v, for explicit numeric overrides.
func Float(v float64) *float64 {
	return &v
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
