package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"clipsmith/internal/config"
	"clipsmith/internal/runner"
	"clipsmith/internal/tools"
)

var checkStrict bool

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check ffmpeg/ffprobe availability and the workspace config",
		RunE:  runCheck,
	}
	cmd.Flags().BoolVar(&checkStrict, "strict", false, "fail when tools are missing or the config has errors")
	return cmd
}

type checkReport struct {
	Workspace   string                    `json:"workspace"`
	Tools       []tools.Status            `json:"tools"`
	Validations []config.ValidationResult `json:"validations,omitempty"`
}

func runCheck(cmd *cobra.Command, _ []string) error {
	ws, err := openWorkspace(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	statuses := tools.Detect(cmd.Context(), tools.Options{
		Runner:   runner.CmdRunner{},
		Paths:    ws.toolPaths(),
		Minimums: ws.Config.ToolMinimums(),
	})
	for _, st := range statuses {
		ws.Logger.Debug().Str("tool", st.Tool).Str("version", st.Version).Bool("satisfied", st.Satisfied).Str("error", st.Error).Msg("tool detected")
	}

	report := checkReport{
		Workspace:   ws.Paths.Root,
		Tools:       statuses,
		Validations: ws.Config.ValidateStrict(ws.Paths.Root),
	}

	if outputJSON {
		if err := writeJobJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
	} else {
		printCheckResult(cmd.OutOrStdout(), report)
	}

	if !checkStrict {
		return nil
	}
	if err := ensureStrict(statuses); err != nil {
		return err
	}
	return validationFailure(report.Validations)
}

func printCheckResult(w io.Writer, r checkReport) {
	bold := lipgloss.NewStyle().Bold(true)
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	faint := lipgloss.NewStyle().Faint(true)

	fmt.Fprintln(w, bold.Render("Workspace:")+" "+r.Workspace)
	fmt.Fprintln(w)

	for _, st := range r.Tools {
		if !st.Satisfied {
			headline := red.Render("✗") + " " + bold.Render(st.Tool)
			if st.Error != "" {
				headline += red.Render(" (" + st.Error + ")")
			}
			fmt.Fprintln(w, headline)
			continue
		}
		headline := green.Render("✓") + " " + bold.Render(st.Tool)
		if st.Version != "" {
			headline += " v" + st.Version
		}
		if st.Minimum != "" {
			headline += faint.Render(" (minimum: " + st.Minimum + ")")
		}
		fmt.Fprintln(w, headline)
		detail := string(st.Source)
		if st.Path != "" {
			detail += " · " + st.Path
		}
		fmt.Fprintln(w, faint.Render("  "+detail))
	}

	if len(r.Validations) == 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, green.Render("✓")+" "+bold.Render("config"))
		return
	}
	fmt.Fprintln(w)
	for _, v := range r.Validations {
		mark := yellow.Render("!")
		if v.Level == "error" {
			mark = red.Render("✗")
		}
		fmt.Fprintln(w, mark+" "+v.Message)
	}
}

func ensureStrict(statuses []tools.Status) error {
	var failures []string
	for _, st := range statuses {
		if st.Satisfied {
			continue
		}
		msg := st.Tool
		if st.Error != "" {
			msg = fmt.Sprintf("%s (%s)", st.Tool, st.Error)
		}
		failures = append(failures, msg)
	}
	if len(failures) == 0 {
		return nil
	}
	return errors.New("tool check failed: " + strings.Join(failures, ", "))
}

func validationFailure(results []config.ValidationResult) error {
	var errs []string
	for _, v := range results {
		if v.Level == "error" {
			errs = append(errs, v.Message)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.New("config validation failed: " + strings.Join(errs, "; "))
}
