package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"clipsmith/internal/assets"
	"clipsmith/internal/captions"
	"clipsmith/internal/jobs"
	"clipsmith/internal/options"
	"clipsmith/internal/render"
	"clipsmith/internal/runner"
	"clipsmith/internal/tools"
	"clipsmith/internal/tui"
	"clipsmith/pkg/editplan"
)

var (
	renderSource      string
	renderPlan        string
	renderOptions     string
	renderTranscript  string
	renderVoiceover   string
	renderMusic       string
	renderOverlaysDir string
	renderSFXDir      string
	renderTransition  string
	renderDuration    int
	renderNoCaptions  bool
	renderNoProgress  bool
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a source video according to an edit plan",
		RunE:  runRender,
	}

	cmd.Flags().StringVar(&renderSource, "source", "", "Source video file")
	cmd.Flags().StringVar(&renderPlan, "plan", "", "Edit plan (JSON or YAML)")
	cmd.Flags().StringVar(&renderOptions, "options", "", "Render options file layered over the configured defaults")
	cmd.Flags().StringVar(&renderTranscript, "transcript", "", "Transcript JSON used to generate captions")
	cmd.Flags().StringVar(&renderVoiceover, "voiceover", "", "Voiceover audio file")
	cmd.Flags().StringVar(&renderMusic, "music", "", "Background music file")
	cmd.Flags().StringVar(&renderOverlaysDir, "overlays-dir", "", "Directory holding overlay_<n>.png images")
	cmd.Flags().StringVar(&renderSFXDir, "sfx-dir", "", "Directory holding sfx_<n> audio files")
	cmd.Flags().StringVar(&renderTransition, "transition", "", "Transition override (auto, none, fade, crossfade, dip_black, swipe)")
	cmd.Flags().IntVar(&renderDuration, "duration", 0, "Target duration in seconds (30-60)")
	cmd.Flags().BoolVar(&renderNoCaptions, "no-captions", false, "Disable burned-in captions")
	cmd.Flags().BoolVar(&renderNoProgress, "no-progress", false, "Disable interactive progress output")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func runRender(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	ws, err := openWorkspace(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	log := ws.Logger
	out := cmd.OutOrStdout()
	mode := tui.DetectMode(out, renderNoProgress, outputJSON)

	var spinner *tui.PhaseSpinner
	phase := func(string) {}
	if mode == tui.ModeTUI {
		spinner = tui.NewPhaseSpinner(cmd.ErrOrStderr())
		defer spinner.Stop()
		phase = spinner.Phase
	}

	phase("Loading plan")
	plan, err := editplan.Load(renderPlan)
	if err != nil {
		return err
	}

	opts, err := buildRenderOptions(ws.Config.Defaults)
	if err != nil {
		return err
	}

	var transcript *editplan.Transcript
	if renderTranscript != "" {
		tr, err := editplan.LoadTranscript(renderTranscript)
		if err != nil {
			return err
		}
		transcript = &tr
	}

	phase("Checking ffmpeg")
	statuses := tools.Detect(ctx, tools.Options{
		Paths:    ws.toolPaths(),
		Minimums: ws.Config.ToolMinimums(),
	})
	if missing := tools.Missing(statuses); len(missing) > 0 {
		return ensureStrict(missing)
	}
	if err := ws.Paths.EnsureJobsDir(); err != nil {
		return err
	}

	registry := jobs.NewRegistry(ws.Paths, log)
	defer registry.Close()

	worker := &jobs.Worker{
		Registry:  registry,
		Workspace: ws.Paths,
		Config:    ws.Config,
		Runner:    runner.CmdRunner{},
		Logger:    log,
		Captions:  captions.Writer{},
	}
	if renderOverlaysDir != "" {
		worker.Overlays = assets.DirOverlays{Dir: renderOverlaysDir, Logger: log}
	}
	if renderSFXDir != "" {
		worker.SFX = assets.DirSFX{Dir: renderSFXDir, Logger: log}
	}

	req := jobs.Request{
		Source:     renderSource,
		Plan:       plan,
		Options:    opts,
		Transcript: transcript,
	}

	switch mode {
	case tui.ModeTUI:
		spinner.Stop()
		var job jobs.Job
		model := tui.NewProgressModel("clipsmith render "+renderSource, render.Stages, len(render.RetryPolicy))
		runErr := tui.RunWithWork(out, model, func(send func(tea.Msg)) (string, error) {
			req.Reporter = tui.NewStageReporter(send)
			finished, err := runJob(ctx, worker, req)
			job = finished
			if err != nil {
				return "", err
			}
			return finished.Output, nil
		})
		if runErr != nil {
			return runErr
		}
		printJobSummary(out, job)
		return nil

	case tui.ModeJSON:
		job, err := runJob(ctx, worker, req)
		if job.ID == "" {
			return err
		}
		if encErr := writeJobJSON(out, job); encErr != nil {
			return encErr
		}
		return err

	default:
		req.Reporter = tui.NewPlainReporter(cmd.ErrOrStderr())
		job, err := runJob(ctx, worker, req)
		if err != nil {
			return err
		}
		printJobSummary(out, job)
		return nil
	}
}

// runJob submits req and waits for it, returning the final job record. A
// failed job is returned alongside an error carrying its message.
func runJob(ctx context.Context, worker *jobs.Worker, req jobs.Request) (jobs.Job, error) {
	submitted, err := worker.Submit(ctx, req)
	if err != nil {
		return jobs.Job{}, err
	}
	worker.Wait()

	job, ok := worker.Registry.Get(submitted.ID)
	if !ok {
		return submitted, fmt.Errorf("job %s: %w", submitted.ID, jobs.ErrNotFound)
	}
	if job.Status == jobs.StatusError {
		return job, fmt.Errorf("job %s failed: %s", job.ID, job.Error)
	}
	return job, nil
}

// buildRenderOptions layers the options file and command-line flags over base.
func buildRenderOptions(base options.RenderOptions) (options.RenderOptions, error) {
	opts := base.Clone()
	if renderOptions != "" {
		loaded, err := options.Load(renderOptions, opts)
		if err != nil {
			return options.RenderOptions{}, err
		}
		opts = loaded
	}
	if renderVoiceover != "" {
		opts.VoiceoverEnabled = true
		opts.VoiceoverPath = renderVoiceover
	}
	if renderMusic != "" {
		opts.MusicEnabled = true
		opts.MusicFile = renderMusic
	}
	if renderSFXDir != "" {
		opts.SFXEnabled = true
	}
	if renderOverlaysDir != "" {
		opts.AIVisualsEnabled = true
	}
	if t := strings.TrimSpace(renderTransition); t != "" {
		normalized := options.NormalizeTransition(t)
		if normalized == options.TransitionAuto && !strings.EqualFold(t, options.TransitionAuto) {
			return options.RenderOptions{}, fmt.Errorf("unknown transition %q", t)
		}
		opts.TransitionType = normalized
	}
	if renderDuration != 0 {
		opts.DurationS = renderDuration
	}
	if renderNoCaptions {
		opts.CaptionsEnabled = false
	}
	opts.Sanitize()
	if err := opts.Validate(); err != nil {
		return options.RenderOptions{}, err
	}
	return opts, nil
}

func printJobSummary(w io.Writer, job jobs.Job) {
	bold := lipgloss.NewStyle().Bold(true)
	fmt.Fprintln(w, bold.Render("Job:")+" "+job.ID)
	fmt.Fprintln(w, bold.Render("Status:")+" "+tui.StatusStyle(jobState(job.Status)).Render(string(job.Status)))
	if job.Attempt > 0 {
		fmt.Fprintf(w, "%s %d\n", bold.Render("Attempts:"), job.Attempt)
	}
	if job.Output != "" {
		fmt.Fprintln(w, bold.Render("Output:")+" "+job.Output)
	}
	if job.Error != "" {
		fmt.Fprintln(w, bold.Render("Error:")+" "+job.Error)
	}
}

// jobState maps a job status onto the row state palette.
func jobState(status jobs.Status) string {
	switch status {
	case jobs.StatusDone:
		return tui.StateDone
	case jobs.StatusError:
		return tui.StateFailed
	case jobs.StatusQueued:
		return tui.StatePending
	}
	return tui.StateRunning
}

func writeJobJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

