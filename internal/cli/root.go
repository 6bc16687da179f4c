package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	workspaceDir string
	outputJSON   bool
	logLevel     string
)

// Execute runs the root cobra command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "clipsmith",
		Short:         "Cut, transition, caption and mix short-form videos from an edit plan",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&workspaceDir, "workspace", "", "Path to workspace directory (defaults to the current directory)")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")

	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newPlanCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}
