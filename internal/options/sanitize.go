package options

import (
	"slices"
	"strings"
)

var transitionAliases = map[string]string{
	"auto (gemini)": TransitionAuto,
	"auto_gemini":   TransitionAuto,
	"cross-fade":    TransitionCrossfade,
	"cross fade":    TransitionCrossfade,
	"dip to black":  TransitionDipBlack,
}

// NormalizeTransition maps user-facing transition spellings onto the allowed
// set. Unknown values become auto.
func NormalizeTransition(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return TransitionAuto
	}
	if alias, ok := transitionAliases[normalized]; ok {
		return alias
	}
	if slices.Contains(Transitions, normalized) {
		return normalized
	}
	return TransitionAuto
}

// IsTransition reports whether value is an allowed transition name.
func IsTransition(value string) bool {
	return slices.Contains(Transitions, value)
}

// Sanitize clamps numeric fields into their accepted ranges and normalizes
// the transition name. Enumerated fields are left for Validate.
func (o *RenderOptions) Sanitize() {
	o.Brightness = clampPtr(o.Brightness, -0.2, 0.2)
	o.Contrast = clampPtr(o.Contrast, 0.8, 1.3)
	o.Saturation = clampPtr(o.Saturation, 0.8, 1.4)
	o.Gamma = clampPtr(o.Gamma, 0.8, 1.2)
	o.Sharpness = clamp(o.Sharpness, 0, 1)
	o.TransitionDuration = clamp(o.TransitionDuration, 0.1, 0.6)
	o.MusicVolume = clamp(o.MusicVolume, 0, 0.25)
	o.AIVisualsMaxOverlays = min(max(o.AIVisualsMaxOverlays, 0), 4)
	o.CaptionSafeMargin = max(o.CaptionSafeMargin, 0)
	o.CaptionMaxChars = max(o.CaptionMaxChars, 10)
	o.TransitionType = NormalizeTransition(o.TransitionType)
	o.VoiceoverMode = strings.ToLower(strings.TrimSpace(o.VoiceoverMode))
	o.FilterPreset = strings.ToLower(strings.TrimSpace(o.FilterPreset))
}

// ClampedSpeed bounds a voiceover speed factor to what atempo accepts.
func ClampedSpeed(speed float64) float64 {
	return clamp(speed, 0.5, 2.0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampPtr(p *float64, lo, hi float64) *float64 {
	if p == nil {
		return nil
	}
	v := clamp(*p, lo, hi)
	return &v
}
