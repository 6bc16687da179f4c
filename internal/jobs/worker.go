package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"clipsmith/internal/config"
	"clipsmith/internal/logx"
	"clipsmith/internal/options"
	"clipsmith/internal/paths"
	"clipsmith/internal/render"
	"clipsmith/internal/runner"
	"clipsmith/pkg/editplan"
)

// SfxProvider turns plan sound effect cues into staged audio files.
type SfxProvider interface {
	SoundEffects(ctx context.Context, cues []editplan.Cue, jp paths.JobPaths, audio config.AudioConfig) ([]options.SfxItem, error)
}

// Request is everything a job needs. Plan and Options are copied on submit.
type Request struct {
	Source     string
	Plan       editplan.Plan
	Options    options.RenderOptions
	Transcript *editplan.Transcript
	// Reporter additionally observes render stage events.
	Reporter render.Reporter
}

// Worker runs each submitted job on its own goroutine.
type Worker struct {
	Registry  *Registry
	Workspace paths.WorkspacePaths
	Config    config.Config
	Runner    runner.Runner
	Logger    zerolog.Logger

	Overlays render.OverlayProvider
	Captions render.CaptionWriter
	SFX      SfxProvider

	wg sync.WaitGroup
}

// Submit registers the job and starts it without waiting for completion.
func (w *Worker) Submit(ctx context.Context, req Request) (Job, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	job, err := w.Registry.Create(req.Source)
	if err != nil {
		return Job{}, err
	}
	req.Plan = clonePlan(req.Plan)
	req.Options = req.Options.Clone()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(ctx, job, req)
	}()
	return job, nil
}

// Wait blocks until every submitted job has finished.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context, job Job, req Request) {
	jp := w.Workspace.Job(job.ID)
	log := logx.WithComponent(w.Logger, "jobs").With().Str("job_id", job.ID).Logger()

	if err := jp.Ensure(); err != nil {
		w.fail(job.ID, jp, log, err)
		return
	}
	serverLog, closer, err := logx.OpenJobLog(jp.ServerLog, job.ID)
	if err != nil {
		log.Warn().Err(err).Msg("open server log")
		serverLog = zerolog.Nop()
	} else {
		defer closer.Close()
	}
	serverLog.Info().Str("source", req.Source).Msg("job started")

	out, err := w.execute(ctx, job, jp, req, log)
	if err != nil {
		serverLog.Error().Err(err).Msg("job failed")
		w.fail(job.ID, jp, log, err)
		return
	}

	serverLog.Info().Str("output", out.Path).Int("attempts", out.Attempts).Msg("job done")
	if _, err := w.Registry.Update(job.ID, func(j *Job) {
		j.Status = StatusDone
		j.Progress = StatusDone.Progress()
		j.Stage = string(render.StageDone)
		j.Attempt = out.Attempts
		j.Output = out.Path
	}); err != nil {
		log.Warn().Err(err).Msg("mark job done")
	}
	log.Info().Str("output", out.Path).Msg("job done")
}

func (w *Worker) fail(id string, jp paths.JobPaths, log zerolog.Logger, cause error) {
	log.Error().Err(cause).Msg("job failed")
	if _, err := w.Registry.Update(id, func(j *Job) {
		j.Status = StatusError
		j.Progress = StatusError.Progress()
		j.Stage = string(render.StageFailed)
		j.Error = cause.Error()
	}); err != nil {
		log.Warn().Err(err).Msg("mark job failed")
	}
}

func (w *Worker) execute(ctx context.Context, job Job, jp paths.JobPaths, req Request, log zerolog.Logger) (render.Output, error) {
	if _, err := w.Registry.SetStatus(job.ID, StatusPlanning); err != nil {
		return render.Output{}, err
	}

	plan := req.Plan
	opts := req.Options
	if err := editplan.WriteJSON(jp.PlanRaw, plan); err != nil {
		return render.Output{}, err
	}
	if err := writeJSON(jp.OptionsFile, opts); err != nil {
		return render.Output{}, err
	}

	opts.Sanitize()
	if err := opts.Validate(); err != nil {
		return render.Output{}, err
	}
	opts.TransitionType = ResolveTransition(opts.TransitionType, plan.Transition)

	clamp, err := editplan.Prepare(&plan, float64(opts.DurationS))
	if err != nil {
		return render.Output{}, err
	}
	log.Info().Int("segments", len(plan.Segments)).Float64("total_s", clamp.Total).Bool("clamped", clamp.Clamped).Msg("plan normalized")
	if err := editplan.WriteJSON(jp.PlanNormalized, plan); err != nil {
		return render.Output{}, err
	}

	if opts.SFXEnabled && w.SFX != nil {
		items, err := w.SFX.SoundEffects(ctx, plan.SoundEffects, jp, w.Config.Audio)
		if err != nil {
			return render.Output{}, fmt.Errorf("resolve sound effects: %w", err)
		}
		if len(items) > 0 {
			opts.SFXItems = items
		}
	}

	if req.Transcript != nil {
		if srt := editplan.BuildSRT(*req.Transcript); srt != "" {
			plan.CaptionsSRT = srt
			opts.CaptionsEnabled = true
		}
	}

	if _, err := w.Registry.SetStatus(job.ID, StatusRendering); err != nil {
		return render.Output{}, err
	}

	svc := render.NewService(w.Config, w.Runner, logx.WithComponent(log, "render"))
	svc.Overlays = w.Overlays
	svc.Captions = w.Captions
	svc.Reporter = render.MultiReporter{w.tracker(job.ID, log), req.Reporter}
	return svc.Render(ctx, req.Source, plan.Segments, opts, plan, jp)
}

// tracker mirrors stage events into the job record.
func (w *Worker) tracker(id string, log zerolog.Logger) render.Reporter {
	return render.ReporterFunc(func(ev render.Event) {
		if ev.Status != render.StatusStarted {
			return
		}
		if _, err := w.Registry.Update(id, func(j *Job) {
			j.Stage = string(ev.Stage)
			j.Attempt = ev.Attempt
		}); err != nil {
			log.Debug().Err(err).Msg("track stage")
		}
	})
}

// ResolveTransition replaces auto or none with the plan's suggestion when it
// names a real transition, otherwise with fade.
func ResolveTransition(requested, suggested string) string {
	if requested != options.TransitionAuto && requested != options.TransitionNone {
		return requested
	}
	if options.IsTransition(suggested) && suggested != options.TransitionNone && suggested != options.TransitionAuto {
		return suggested
	}
	return options.TransitionFade
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func clonePlan(p editplan.Plan) editplan.Plan {
	out := p
	out.Segments = append([]editplan.Segment(nil), p.Segments...)
	out.Overlays = append([]editplan.Cue(nil), p.Overlays...)
	out.SoundEffects = append([]editplan.Cue(nil), p.SoundEffects...)
	out.VisualSuggestions = append([]editplan.Cue(nil), p.VisualSuggestions...)
	if p.Hook != nil {
		h := *p.Hook
		out.Hook = &h
	}
	return out
}
