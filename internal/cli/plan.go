package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"clipsmith/pkg/editplan"
)

var planDuration int

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <plan-file>",
		Short: "Validate and normalize an edit plan without rendering",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlan,
	}
	cmd.Flags().IntVar(&planDuration, "duration", 0, "Target duration in seconds (defaults to the configured value)")
	return cmd
}

type planReport struct {
	Plan      string             `json:"plan"`
	Segments  []editplan.Segment `json:"segments"`
	Dropped   int                `json:"dropped"`
	TotalS    float64            `json:"total_s"`
	Clamped   bool               `json:"clamped"`
	Overlays  int                `json:"overlays"`
	SFX       int                `json:"sound_effects"`
	Captioned bool               `json:"captioned"`
}

func runPlan(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	plan, err := editplan.Load(args[0])
	if err != nil {
		return err
	}

	target := ws.Config.Defaults.DurationS
	if planDuration != 0 {
		target = planDuration
	}
	before := len(plan.Segments)
	result, err := editplan.Prepare(&plan, float64(target))
	if err != nil {
		return err
	}

	report := planReport{
		Plan:      args[0],
		Segments:  plan.Segments,
		Dropped:   before - len(plan.Segments),
		TotalS:    result.Total,
		Clamped:   result.Clamped,
		Overlays:  len(plan.Overlays) + len(plan.VisualSuggestions),
		SFX:       len(plan.SoundEffects),
		Captioned: plan.CaptionsSRT != "",
	}
	if outputJSON {
		return writeJobJSON(cmd.OutOrStdout(), report)
	}
	printPlanReport(cmd.OutOrStdout(), report)
	return nil
}

func printPlanReport(w io.Writer, r planReport) {
	bold := lipgloss.NewStyle().Bold(true)
	faint := lipgloss.NewStyle().Faint(true)

	fmt.Fprintln(w, bold.Render("Plan:")+" "+r.Plan)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSTART\tEND\tLENGTH\tREASON")
	for i, seg := range r.Segments {
		fmt.Fprintf(tw, "%d\t%.2f\t%.2f\t%.2f\t%s\n", i+1, seg.Start, seg.End, seg.Length(), nonEmptyOrDash(string(seg.Reason)))
	}
	tw.Flush()

	summary := fmt.Sprintf("%d segments, %.2fs total", len(r.Segments), r.TotalS)
	if r.Dropped > 0 {
		summary += fmt.Sprintf(", %d dropped", r.Dropped)
	}
	if r.Clamped {
		summary += ", clamped to target"
	}
	fmt.Fprintln(w, faint.Render(summary))
}
