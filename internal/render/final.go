package render

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"clipsmith/internal/ffgraph"
	"clipsmith/internal/runner"
)

// SubtitlesFilter burns in the subtitle file at path.
func SubtitlesFilter(path string) ffgraph.Filter {
	escaped := strings.ReplaceAll(filepath.ToSlash(path), ":", `\:`)
	return ffgraph.New("subtitles", "'"+escaped+"'")
}

// FinalArgs builds the final encode. captions may be empty.
func (s *Service) FinalArgs(base, captions string, mix AudioMix, output string) []string {
	args := []string{"-i", base}
	args = append(args, mix.Inputs.Args...)
	if captions != "" {
		args = append(args, "-vf", SubtitlesFilter(captions).String())
	}

	switch {
	case mix.UsesGraph():
		args = append(args,
			"-filter_complex", mix.Graph.String(),
			"-map", "0:v",
			"-map", mix.Output.Label(),
		)
	case mix.Output != "" && mix.Output != ffgraph.Stream(0, "a"):
		args = append(args, "-map", "0:v", "-map", string(mix.Output))
	}
	if !mix.UsesGraph() && len(mix.Enhance) > 0 {
		args = append(args, "-af", ffgraph.Chain{Filters: mix.Enhance}.String())
	}

	args = append(args, encodeArgs(s.Config.Encoding.Final)...)
	args = append(args, audioEncodeArgs(s.Config.Encoding)...)
	return append(args, output)
}

// RenderFinal runs the final encode into output.
func (s *Service) RenderFinal(ctx context.Context, r runner.Runner, base, captions string, mix AudioMix, output string) error {
	if mix.UsesGraph() {
		if err := mix.Graph.Validate(); err != nil {
			return fmt.Errorf("audio graph: %w", err)
		}
	}
	if err := s.ffmpeg(ctx, r, s.FinalArgs(base, captions, mix, output), output); err != nil {
		return fmt.Errorf("final encode: %w", err)
	}
	return nil
}
