package editplan

// Reason labels why a segment was selected.
type Reason string

const (
	ReasonHook Reason = "hook"
	ReasonKeep Reason = "keep"
)

// Segment is a contiguous source-time range kept in the edited timeline.
type Segment struct {
	Start  float64 `json:"start" yaml:"start"`
	End    float64 `json:"end" yaml:"end"`
	Reason Reason  `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Length returns the segment duration in seconds.
func (s Segment) Length() float64 {
	return s.End - s.Start
}

// Window is a plain time range, used for the hook.
type Window struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// Cue is a timed text cue expressed in edited-timeline seconds.
type Cue struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
	Text  string  `json:"text" yaml:"text"`
}

// Plan is the edit plan produced upstream. Only Segments is rewritten by
// normalization; the rest is read-only once loaded.
type Plan struct {
	Segments          []Segment `json:"segments" yaml:"segments"`
	Hook              *Window   `json:"hook,omitempty" yaml:"hook,omitempty"`
	Overlays          []Cue     `json:"overlays,omitempty" yaml:"overlays,omitempty"`
	CaptionsSRT       string    `json:"captions_srt,omitempty" yaml:"captions_srt,omitempty"`
	Transition        string    `json:"transition,omitempty" yaml:"transition,omitempty"`
	SoundEffects      []Cue     `json:"sound_effects,omitempty" yaml:"sound_effects,omitempty"`
	VisualSuggestions []Cue     `json:"ai_visual_suggestions,omitempty" yaml:"ai_visual_suggestions,omitempty"`
}

// TotalLength sums segment lengths.
func TotalLength(segments []Segment) float64 {
	total := 0.0
	for _, seg := range segments {
		total += seg.Length()
	}
	return total
}
