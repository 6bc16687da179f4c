package editplan

import "sort"

const (
	// DefaultMinLength is the shortest segment kept after normalization.
	DefaultMinLength = 0.4
	// DefaultMinTotal and DefaultMaxTotal bound the edited timeline length.
	DefaultMinTotal = 30.0
	DefaultMaxTotal = 60.0
	// MinSegments is the fewest usable segments a plan may render with.
	MinSegments = 2
)

// Normalize orders segments by start and removes overlaps and degenerate
// ranges. Overlapping segments have their start moved to the previous end;
// anything left shorter than minLen is dropped. The input is not modified.
func Normalize(segments []Segment, minLen float64) []Segment {
	ordered := make([]Segment, len(segments))
	copy(ordered, segments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start < ordered[j].Start
	})

	normalized := make([]Segment, 0, len(ordered))
	lastEnd := 0.0
	for _, seg := range ordered {
		if seg.End <= seg.Start {
			continue
		}
		if seg.Start < lastEnd {
			seg.Start = lastEnd
		}
		if seg.End-seg.Start < minLen {
			continue
		}
		normalized = append(normalized, seg)
		lastEnd = seg.End
	}
	return normalized
}

// ClampResult reports the outcome of ClampDuration.
type ClampResult struct {
	Segments []Segment
	Total    float64
	// Clamped is false when the input was returned as-is, either because it
	// already fit or because trimming could not reach the minimum total.
	Clamped bool
}

// ClampDuration trims a segment list toward targetS when its total exceeds
// maxTotal. Segments are taken greedily; the first one that overflows is
// truncated to the remaining budget (never below what minTotal still needs)
// and nothing after it is kept. If the result would fall under minTotal the
// original list is returned unchanged.
func ClampDuration(segments []Segment, targetS, minTotal, maxTotal float64) ClampResult {
	total := TotalLength(segments)
	if total <= maxTotal {
		return ClampResult{Segments: segments, Total: total}
	}

	trimmed := make([]Segment, 0, len(segments))
	running := 0.0
	for _, seg := range segments {
		length := seg.Length()
		if running+length <= targetS {
			trimmed = append(trimmed, seg)
			running += length
			continue
		}
		remaining := max(targetS-running, minTotal-running)
		if remaining >= DefaultMinLength {
			seg.End = seg.Start + remaining
			trimmed = append(trimmed, seg)
			running += remaining
		}
		break
	}

	if running < minTotal {
		return ClampResult{Segments: segments, Total: total}
	}
	return ClampResult{Segments: trimmed, Total: running, Clamped: true}
}

// Prepare normalizes and clamps the plan's segments in place, returning a
// PlanningError when fewer than MinSegments survive normalization.
func Prepare(plan *Plan, targetS float64) (ClampResult, error) {
	segments := Normalize(plan.Segments, DefaultMinLength)
	if len(segments) < MinSegments {
		return ClampResult{}, &PlanningError{Reason: "plan returned insufficient segments"}
	}
	result := ClampDuration(segments, targetS, DefaultMinTotal, DefaultMaxTotal)
	plan.Segments = result.Segments
	return result, nil
}
