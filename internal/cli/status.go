package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"clipsmith/internal/jobs"
	"clipsmith/internal/tui"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [job-id]",
		Short: "Show persisted job status",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		job, err := jobs.ReadStatus(ws.Paths.Job(args[0]).StatusFile)
		if err != nil {
			return err
		}
		if outputJSON {
			return writeJobJSON(out, job)
		}
		printJobSummary(out, job)
		return nil
	}

	all, err := jobs.ReadAll(ws.Paths.JobsDir)
	if err != nil {
		return err
	}
	if outputJSON {
		if all == nil {
			all = []jobs.Job{}
		}
		return writeJobJSON(out, struct {
			Workspace string     `json:"workspace"`
			Jobs      []jobs.Job `json:"jobs"`
		}{ws.Paths.Root, all})
	}

	fmt.Fprintf(out, "Workspace: %s\n", ws.Paths.Root)
	if len(all) == 0 {
		fmt.Fprintln(out, "No jobs yet.")
		return nil
	}
	printJobTable(out, all)
	return nil
}

func printJobTable(w io.Writer, all []jobs.Job) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tPROGRESS\tSTAGE\tUPDATED\tDETAIL")
	for _, job := range all {
		detail := job.Output
		if job.Error != "" {
			detail = job.Error
		} else if !job.Status.Terminal() {
			detail = "in progress"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d%%\t%s\t%s\t%s\n",
			job.ID,
			job.Status,
			job.Progress,
			nonEmptyOrDash(job.Stage),
			job.UpdatedAt.Local().Format(time.DateTime),
			tui.TruncateWithEllipsis(nonEmptyOrDash(detail), 60),
		)
	}
	tw.Flush()
}

func nonEmptyOrDash(value string) string {
	return tui.NonEmptyOrDash(value)
}
