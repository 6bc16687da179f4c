package render

import (
	"context"
	"fmt"

	"clipsmith/internal/ffgraph"
	"clipsmith/internal/options"
	"clipsmith/internal/paths"
	"clipsmith/internal/runner"
)

// TransitionMethod records how clips were joined.
type TransitionMethod string

const (
	MethodConcat         TransitionMethod = "concat"
	MethodXfade          TransitionMethod = "xfade"
	MethodConcatFallback TransitionMethod = "concat_fallback"
)

// TransitionResult is the joined timeline.
type TransitionResult struct {
	OutputPath string
	Method     TransitionMethod
	Xfade      string
	Err        error // xfade failure that triggered the fallback
}

var xfadeTransitions = map[string]string{
	options.TransitionFade:      "fade",
	options.TransitionCrossfade: "fade",
	options.TransitionDipBlack:  "fadeblack",
	options.TransitionSwipe:     "wipeleft",
}

// XfadeName maps a transition option onto an xfade operator, defaulting to fade.
func XfadeName(transition string) string {
	if name, ok := xfadeTransitions[transition]; ok {
		return name
	}
	return "fade"
}

// BuildXfadeGraph chains clip video streams pairwise. Offsets are measured on
// the merged timeline: each merge shortens it by the transition duration.
func BuildXfadeGraph(durations []float64, xfade string, duration float64) (*ffgraph.Graph, ffgraph.Pad) {
	g := &ffgraph.Graph{}
	last := ffgraph.Stream(0, "v")
	if len(durations) < 2 {
		return g, last
	}
	offset := durations[0] - duration
	for i := 1; i < len(durations); i++ {
		f := ffgraph.Filter{Name: "xfade"}.
			With("transition", xfade).
			With("duration", ffgraph.Float(duration)).
			With("offset", ffgraph.Float(offset))
		last = g.Link([]ffgraph.Pad{last, ffgraph.Stream(i, "v")}, ffgraph.Pad(fmt.Sprintf("v%d", i)), f)
		offset += durations[i] - duration
	}
	return g, last
}

// XfadeArgs builds the transition command. Audio is dropped.
func XfadeArgs(clips []string, graph *ffgraph.Graph, last ffgraph.Pad, output string) []string {
	var args []string
	for _, clip := range clips {
		args = append(args, "-i", clip)
	}
	return append(args,
		"-filter_complex", graph.String(),
		"-map", last.Label(),
		"-an",
		output,
	)
}

// ApplyTransitions joins clips into jp.Concat. Transition type none, or a
// single clip, uses plain concatenation; an xfade failure falls back to it.
func (s *Service) ApplyTransitions(ctx context.Context, r runner.Runner, clips []string, transition string, duration float64, jp paths.JobPaths) (TransitionResult, error) {
	out := jp.Concat
	if transition == options.TransitionNone || len(clips) < 2 {
		if err := s.Concat(ctx, r, jp.ConcatList, clips, out); err != nil {
			return TransitionResult{}, err
		}
		return TransitionResult{OutputPath: out, Method: MethodConcat}, nil
	}

	xfade := XfadeName(transition)
	xerr := s.xfade(ctx, r, clips, xfade, duration, out)
	if xerr == nil {
		return TransitionResult{OutputPath: out, Method: MethodXfade, Xfade: xfade}, nil
	}

	s.Logger.Warn().Err(xerr).Str("transition", xfade).Msg("xfade failed, falling back to concat")
	if err := s.Concat(ctx, r, jp.ConcatList, clips, out); err != nil {
		return TransitionResult{}, err
	}
	return TransitionResult{OutputPath: out, Method: MethodConcatFallback, Xfade: xfade, Err: xerr}, nil
}

func (s *Service) xfade(ctx context.Context, r runner.Runner, clips []string, xfade string, duration float64, output string) error {
	durations := make([]float64, len(clips))
	for i, clip := range clips {
		d, err := s.ProbeDuration(ctx, r, clip)
		if err != nil {
			return err
		}
		durations[i] = d
	}
	graph, last := BuildXfadeGraph(durations, xfade, duration)
	if err := graph.Validate(); err != nil {
		return fmt.Errorf("xfade graph: %w", err)
	}
	return s.ffmpeg(ctx, r, XfadeArgs(clips, graph, last, output), output)
}
