package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"slices"
	"strings"

	"clipsmith/internal/options"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

var x264Presets = []string{
	"ultrafast", "superfast", "veryfast", "faster", "fast",
	"medium", "slow", "slower", "veryslow", "placebo",
}

// ValidateStrict runs all strict validations against the config and returns
// structured results. root is the directory relative paths resolve against.
func (c Config) ValidateStrict(root string) []ValidationResult {
	var results []ValidationResult
	results = append(results, c.validateExternalFiles(root)...)
	results = append(results, c.validateEncoding()...)
	results = append(results, c.validateAudio()...)
	results = append(results, c.validateDefaults()...)
	results = append(results, c.validateMinimums()...)
	return results
}

func (c Config) validateExternalFiles(root string) []ValidationResult {
	path := strings.TrimSpace(c.DefaultsFile)
	if path == "" {
		return nil
	}
	if _, err := os.Stat(resolveExternalPath(root, path)); err != nil {
		return []ValidationResult{{
			Level:   "error",
			Message: fmt.Sprintf("defaults file %q not found", path),
		}}
	}
	return nil
}

func (c Config) validateEncoding() []ValidationResult {
	var results []ValidationResult
	profiles := []struct {
		name    string
		profile EncodeProfile
	}{
		{"clip", c.Encoding.Clip},
		{"overlay", c.Encoding.Overlay},
		{"final", c.Encoding.Final},
	}
	for _, p := range profiles {
		if p.profile.CRF < 0 || p.profile.CRF > 51 {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("encoding.%s.crf %d outside 0-51", p.name, p.profile.CRF),
			})
		}
		if p.profile.VCodec == "libx264" && !slices.Contains(x264Presets, p.profile.Preset) {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("encoding.%s.preset %q is not an x264 preset", p.name, p.profile.Preset),
			})
		}
	}
	return results
}

func (c Config) validateAudio() []ValidationResult {
	var results []ValidationResult
	if c.Audio.SidechainThreshold <= 0 || c.Audio.SidechainThreshold > 1 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("audio.sidechain_threshold %.3f outside (0,1]", c.Audio.SidechainThreshold),
		})
	}
	if c.Audio.SidechainRatio < 1 || c.Audio.SidechainRatio > 20 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("audio.sidechain_ratio %.2f outside 1-20", c.Audio.SidechainRatio),
		})
	}
	if c.Audio.DropoutTransition < 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: "audio.dropout_transition must not be negative",
		})
	}
	if c.Audio.MaxSFX > 5 {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: fmt.Sprintf("audio.max_sfx %d exceeds 5; long effect stacks are hard to hear", c.Audio.MaxSFX),
		})
	}
	return results
}

// validateDefaults reports values Sanitize would clamp as warnings and
// allow-list violations as errors.
func (c Config) validateDefaults() []ValidationResult {
	var results []ValidationResult
	sanitized := c.Defaults.Clone()
	sanitized.Sanitize()
	if !reflect.DeepEqual(sanitized, c.Defaults) {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: "defaults contain out-of-range values that will be clamped",
		})
	}
	err := sanitized.Validate()
	var oerr *options.Error
	if errors.As(err, &oerr) {
		for _, f := range oerr.Fields {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("defaults.%s: invalid value %q (%s)", f.Field, f.Value, f.Rule),
			})
		}
	} else if err != nil {
		results = append(results, ValidationResult{Level: "error", Message: err.Error()})
	}
	return results
}

func (c Config) validateMinimums() []ValidationResult {
	var results []ValidationResult
	for tool, version := range c.Tools.Minimums {
		version = strings.TrimSpace(version)
		if version == "" || strings.IndexFunc(version, func(r rune) bool { return r >= '0' && r <= '9' }) < 0 {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("tools.minimums.%s %q has no version number", tool, version),
			})
		}
	}
	return results
}
