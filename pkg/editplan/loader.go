package editplan

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a plan from a JSON or YAML file. Field-level problems are
// returned as ValidationErrors alongside the parsed plan.
func Load(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("read plan: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return Plan{}, errors.New("plan file is empty")
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes plan bytes. ext selects JSON for ".json", a bare segment
// list for ".csv" and ".tsv", and YAML otherwise.
func Parse(data []byte, ext string) (Plan, error) {
	var plan Plan
	switch strings.ToLower(ext) {
	case ".csv", ".tsv":
		segments, err := ParseSegmentsCSV(data)
		if err != nil {
			return Plan{Segments: segments}, err
		}
		plan.Segments = segments
	case ".json":
		if err := json.Unmarshal(data, &plan); err != nil {
			return Plan{}, fmt.Errorf("parse JSON plan: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &plan); err != nil {
			return Plan{}, fmt.Errorf("parse YAML plan: %w", err)
		}
	}

	if errs := Validate(plan); len(errs) > 0 {
		return plan, errs
	}
	return plan, nil
}

// Validate checks field ranges and enumerations without reordering anything.
func Validate(plan Plan) ValidationErrors {
	var errs ValidationErrors
	for i, seg := range plan.Segments {
		idx := i + 1
		if seg.Start < 0 {
			errs = append(errs, ValidationError{Section: "segments", Index: idx, Field: "start", Message: "must not be negative"})
		}
		switch seg.Reason {
		case "", ReasonHook, ReasonKeep:
		default:
			errs = append(errs, ValidationError{Section: "segments", Index: idx, Field: "reason", Message: fmt.Sprintf("unknown reason %q", seg.Reason)})
		}
	}
	errs = append(errs, validateCues("overlays", plan.Overlays)...)
	errs = append(errs, validateCues("sound_effects", plan.SoundEffects)...)
	if plan.Hook != nil && plan.Hook.End < plan.Hook.Start {
		errs = append(errs, ValidationError{Section: "hook", Field: "end", Message: "must not precede start"})
	}
	return errs
}

func validateCues(section string, cues []Cue) ValidationErrors {
	var errs ValidationErrors
	for i, cue := range cues {
		if cue.Start < 0 {
			errs = append(errs, ValidationError{Section: section, Index: i + 1, Field: "start", Message: "must not be negative"})
		}
		if cue.End < cue.Start {
			errs = append(errs, ValidationError{Section: section, Index: i + 1, Field: "end", Message: "must not precede start"})
		}
	}
	return errs
}

// WriteJSON stores the plan as indented JSON.
func WriteJSON(path string, plan Plan) error {
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write plan: %w", err)
	}
	return nil
}
