package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"clipsmith/internal/runner"
)

// WriteConcatList writes an ffmpeg concat demuxer list to concatFile.
// It verifies each clip exists before writing.
func WriteConcatList(concatFile string, clips []string) error {
	var missing []string
	for _, clip := range clips {
		if _, err := os.Stat(clip); os.IsNotExist(err) {
			missing = append(missing, clip)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %d clip file(s):\n  %s", len(missing), strings.Join(missing, "\n  "))
	}

	var b strings.Builder
	for _, clip := range clips {
		abs, err := filepath.Abs(clip)
		if err != nil {
			abs = clip
		}
		escaped := strings.ReplaceAll(filepath.ToSlash(abs), "'", "'\\''")
		fmt.Fprintf(&b, "file '%s'\n", escaped)
	}
	if err := os.WriteFile(concatFile, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	return nil
}

func concatArgs(concatFile, output string) []string {
	return []string{
		"-f", "concat",
		"-safe", "0",
		"-i", concatFile,
		"-c", "copy",
		output,
	}
}

// Concat joins clips in order with the concat demuxer and stream copy.
func (s *Service) Concat(ctx context.Context, r runner.Runner, concatFile string, clips []string, output string) error {
	if err := WriteConcatList(concatFile, clips); err != nil {
		return err
	}
	if err := s.ffmpeg(ctx, r, concatArgs(concatFile, output), output); err != nil {
		return fmt.Errorf("concat: %w", err)
	}
	return nil
}
