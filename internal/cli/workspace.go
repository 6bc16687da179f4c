package cli

import (
	"io"

	"github.com/rs/zerolog"

	"clipsmith/internal/config"
	"clipsmith/internal/logx"
	"clipsmith/internal/paths"
)

// workspace bundles what every command resolves before doing work.
type workspace struct {
	Paths  paths.WorkspacePaths
	Config config.Config
	Logger zerolog.Logger
}

// openWorkspace resolves the --workspace root, loads clipsmith.yaml (or the
// defaults when it is absent) and builds the console logger on logOut.
func openWorkspace(logOut io.Writer) (workspace, error) {
	wp, err := paths.Resolve(workspaceDir)
	if err != nil {
		return workspace{}, err
	}
	cfg, err := config.Load(wp.ConfigFile)
	if err != nil {
		return workspace{}, err
	}
	wp = paths.ApplyConfig(wp, cfg)

	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	logger := logx.New(logOut, level, cfg.Logging.JSON || outputJSON)
	logger.Debug().Str("workspace", wp.Root).Str("jobs_dir", wp.JobsDir).Msg("workspace resolved")

	return workspace{Paths: wp, Config: cfg, Logger: logger}, nil
}

func (w workspace) toolPaths() map[string]string {
	return map[string]string{
		"ffmpeg":  w.Config.Tools.FFmpeg,
		"ffprobe": w.Config.Tools.FFprobe,
	}
}
