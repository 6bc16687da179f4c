package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"clipsmith/internal/config"
	"clipsmith/internal/paths"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or edit workspace configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration in YAML",
		RunE:  runConfigShow,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write clipsmith.yaml with default values if it does not exist",
		RunE:  runConfigInit,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "edit",
		Short: "Open clipsmith.yaml in $EDITOR",
		RunE:  runConfigEdit,
	})
	return cmd
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	ws, err := openWorkspace(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	data, err := ws.Config.Marshal()
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	if len(data) == 0 || data[len(data)-1] != '\n' {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	wp, err := paths.Resolve(workspaceDir)
	if err != nil {
		return err
	}
	created, err := ensureConfigFileExists(wp)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", wp.ConfigFile)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", wp.ConfigFile)
	}
	return nil
}

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	wp, err := paths.Resolve(workspaceDir)
	if err != nil {
		return err
	}
	if _, err := ensureConfigFileExists(wp); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	parts = append(parts, wp.ConfigFile)

	execCmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	execCmd.Stdout = cmd.OutOrStdout()
	execCmd.Stderr = cmd.ErrOrStderr()
	execCmd.Stdin = cmd.InOrStdin()
	execCmd.Dir = wp.Root

	if err := execCmd.Run(); err != nil {
		return fmt.Errorf("editor exited with error: %w", err)
	}
	return nil
}

// ensureConfigFileExists writes the default config when none is present and
// reports whether it did.
func ensureConfigFileExists(wp paths.WorkspacePaths) (bool, error) {
	if _, err := os.Stat(wp.ConfigFile); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(wp.ConfigFile), 0o755); err != nil {
		return false, fmt.Errorf("ensure config dir: %w", err)
	}
	cfg := config.Default()
	data, err := cfg.Marshal()
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(wp.ConfigFile, data, 0o644); err != nil {
		return false, fmt.Errorf("write default config: %w", err)
	}
	return true, nil
}
