package render

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clipsmith/internal/ffgraph"
	"clipsmith/internal/options"
	"clipsmith/internal/paths"
	"clipsmith/internal/runner"
	"clipsmith/pkg/editplan"
)

// Override switches features off for a retry attempt.
type Override struct {
	DisableAIVisuals bool
	TransitionNone   bool
	DisableCaptions  bool
}

// Apply returns a copy of opts with the override applied.
func (o Override) Apply(opts options.RenderOptions) options.RenderOptions {
	out := opts.Clone()
	if o.DisableAIVisuals {
		out.AIVisualsEnabled = false
	}
	if o.TransitionNone {
		out.TransitionType = options.TransitionNone
	}
	if o.DisableCaptions {
		out.CaptionsEnabled = false
	}
	return out
}

func (o Override) String() string {
	var parts []string
	if o.DisableAIVisuals {
		parts = append(parts, "no-visuals")
	}
	if o.TransitionNone {
		parts = append(parts, "no-transitions")
	}
	if o.DisableCaptions {
		parts = append(parts, "no-captions")
	}
	if len(parts) == 0 {
		return "full"
	}
	return strings.Join(parts, ",")
}

// RetryPolicy is the ordered list of attempts. Each attempt starts from the
// job's options with its override applied.
var RetryPolicy = []Override{
	{},
	{DisableAIVisuals: true, TransitionNone: true},
	{DisableAIVisuals: true, TransitionNone: true, DisableCaptions: true},
}

// Output describes a successful render.
type Output struct {
	Path       string
	Attempts   int
	Options    options.RenderOptions
	Transition TransitionResult
	Overlays   int
	Captioned  bool
	Source     VideoInfo
	Result     VideoInfo

	// Silent is set when the joined timeline lost its audio and nothing
	// replaced it.
	Silent bool
}

// Render runs the pipeline for one job under the retry policy, then checks
// that the output is not smaller than the source. Commands and stderr are
// journaled under jp.
func (s *Service) Render(ctx context.Context, source string, segments []editplan.Segment, opts options.RenderOptions, plan editplan.Plan, jp paths.JobPaths) (Output, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(segments) == 0 {
		return Output{}, errors.New("no segments to render")
	}
	if err := jp.Ensure(); err != nil {
		return Output{}, err
	}
	r := runner.NewJournal(s.Runner, jp.CommandLog, jp.StderrLog)

	src, err := s.ProbeVideo(ctx, r, source)
	if err != nil {
		return Output{}, fmt.Errorf("probe source: %w", err)
	}

	policy := RetryPolicy
	var lastErr error
	for i, override := range policy {
		attempt := i + 1
		attemptOpts := override.Apply(opts)
		log := s.Logger.With().Int("attempt", attempt).Str("mode", override.String()).Logger()
		log.Info().Msg("render attempt")

		out, err := s.attempt(ctx, r, attempt, source, src, segments, attemptOpts, plan, jp)
		if err != nil {
			log.Warn().Err(err).Msg("render attempt failed")
			lastErr = err
			continue
		}
		out.Attempts = attempt
		out.Source = src

		result, err := s.ProbeVideo(ctx, r, out.Path)
		if err != nil {
			s.report(Event{Attempt: attempt, Stage: StageFailed, Status: StatusFailed, Err: err})
			return out, fmt.Errorf("probe output: %w", err)
		}
		out.Result = result
		if result.Width < src.Width || result.Height < src.Height {
			ierr := &IntegrityError{
				SourceWidth: src.Width, SourceHeight: src.Height,
				OutputWidth: result.Width, OutputHeight: result.Height,
			}
			s.report(Event{Attempt: attempt, Stage: StageFailed, Status: StatusFailed, Err: ierr})
			return out, ierr
		}

		s.report(Event{Attempt: attempt, Stage: StageDone, Status: StatusCompleted, Detail: out.Path})
		return out, nil
	}

	err = fmt.Errorf("render failed after %d attempts: %w", len(policy), lastErr)
	s.report(Event{Attempt: len(policy), Stage: StageFailed, Status: StatusFailed, Err: err})
	return Output{}, err
}

func (s *Service) attempt(ctx context.Context, r runner.Runner, attempt int, source string, src VideoInfo, segments []editplan.Segment, opts options.RenderOptions, plan editplan.Plan, jp paths.JobPaths) (Output, error) {
	fail := func(stage Stage, err error) (Output, error) {
		s.report(Event{Attempt: attempt, Stage: stage, Status: StatusFailed, Err: err})
		return Output{}, &StageError{Stage: stage, Attempt: attempt, Err: err}
	}
	start := func(stage Stage) {
		s.report(Event{Attempt: attempt, Stage: stage, Status: StatusStarted})
	}
	finish := func(stage Stage, status EventStatus, detail string) {
		s.report(Event{Attempt: attempt, Stage: stage, Status: status, Detail: detail})
	}

	width, height, err := ResolveTargetSize(src, opts)
	if err != nil {
		return fail(StageTrimming, err)
	}
	opts.TargetWidth, opts.TargetHeight = width, height
	out := Output{Options: opts}

	start(StageTrimming)
	clips, err := s.TrimClips(ctx, r, source, segments, opts, jp)
	if err != nil {
		return fail(StageTrimming, err)
	}
	finish(StageTrimming, StatusCompleted, fmt.Sprintf("%d clips %dx%d", len(clips), width, height))

	start(StageTransitioning)
	joined, err := s.ApplyTransitions(ctx, r, clips, opts.TransitionType, opts.TransitionDuration, jp)
	if err != nil {
		return fail(StageTransitioning, err)
	}
	out.Transition = joined
	status := StatusCompleted
	if joined.Method == MethodConcatFallback {
		status = StatusDegraded
	}
	finish(StageTransitioning, status, string(joined.Method))

	base := joined.OutputPath
	if opts.AIVisualsEnabled && s.Overlays != nil {
		start(StageOverlaying)
		base, out.Overlays = s.overlay(ctx, r, attempt, base, opts, plan, jp)
	} else {
		finish(StageOverlaying, StatusSkipped, "")
	}

	captions := ""
	if opts.CaptionsEnabled && strings.TrimSpace(plan.CaptionsSRT) != "" && s.Captions != nil {
		start(StageCaptioning)
		if err := s.Captions.WriteASS(plan.CaptionsSRT, opts, jp.Captions); err != nil {
			return fail(StageCaptioning, err)
		}
		captions = jp.Captions
		out.Captioned = true
		finish(StageCaptioning, StatusCompleted, "")
	} else {
		finish(StageCaptioning, StatusSkipped, "")
	}

	start(StageMixing)
	mix := BuildAudioMix(opts, s.Config.Audio)
	if err := s.RenderFinal(ctx, r, base, captions, mix, jp.Final); err != nil {
		return fail(StageMixing, err)
	}
	if joined.Method == MethodXfade && mix.Output == ffgraph.Stream(0, "a") {
		s.Logger.Warn().Int("attempt", attempt).Msg("xfade timeline has no audio stream; output is silent")
		out.Silent = true
		finish(StageMixing, StatusDegraded, "no audio after xfade")
	} else {
		finish(StageMixing, StatusCompleted, "")
	}

	out.Path = jp.Final
	return out, nil
}

// overlay never fails the attempt: on any error the un-overlaid base is kept.
func (s *Service) overlay(ctx context.Context, r runner.Runner, attempt int, base string, opts options.RenderOptions, plan editplan.Plan, jp paths.JobPaths) (string, int) {
	items, err := s.Overlays.Overlays(ctx, plan.VisualSuggestions, opts, jp.AssetsDir)
	if err != nil {
		s.Logger.Warn().Err(err).Msg("overlay assets unavailable")
		s.report(Event{Attempt: attempt, Stage: StageOverlaying, Status: StatusDegraded, Err: err})
		return base, 0
	}
	path, err := s.ApplyOverlays(ctx, r, base, items, jp.Overlay)
	if err != nil {
		s.Logger.Warn().Err(err).Msg("overlay stage failed, keeping base timeline")
		s.report(Event{Attempt: attempt, Stage: StageOverlaying, Status: StatusDegraded, Err: err})
		return base, 0
	}
	if len(items) == 0 {
		s.report(Event{Attempt: attempt, Stage: StageOverlaying, Status: StatusSkipped, Detail: "no overlays"})
		return path, 0
	}
	s.report(Event{Attempt: attempt, Stage: StageOverlaying, Status: StatusCompleted, Detail: fmt.Sprintf("%d overlays", len(items))})
	return path, len(items)
}
