package logx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New creates the console logger used by CLI commands. When jsonOutput is
// false records are rendered with zerolog's human-readable console writer.
func New(w io.Writer, level string, jsonOutput bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	out := w
	if !jsonOutput {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	return zerolog.New(out).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// ParseLevel maps a config level string onto a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// WithComponent returns a child logger tagged with a component field.
func WithComponent(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// OpenJobLog opens the job's append-only server log and returns a logger that
// writes JSON records to it and to any extra writers. The returned closer
// should be closed when the job finishes.
func OpenJobLog(path, jobID string, extra ...io.Writer) (zerolog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("ensure job log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open job log: %w", err)
	}

	writers := append([]io.Writer{file}, extra...)
	var out io.Writer = file
	if len(writers) > 1 {
		out = zerolog.MultiLevelWriter(writers...)
	}
	logger := zerolog.New(out).With().Timestamp().Str("job_id", jobID).Logger()
	return logger, file, nil
}
