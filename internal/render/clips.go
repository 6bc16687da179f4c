package render

import (
	"context"
	"fmt"

	"clipsmith/internal/ffgraph"
	"clipsmith/internal/options"
	"clipsmith/internal/paths"
	"clipsmith/internal/runner"
	"clipsmith/pkg/editplan"
)

// TrimArgs builds the extraction command for one segment.
func (s *Service) TrimArgs(source string, seg editplan.Segment, chain ffgraph.Chain, fps int, output string) []string {
	args := []string{
		"-ss", ffgraph.Float(seg.Start),
		"-to", ffgraph.Float(seg.End),
		"-i", source,
		"-vf", chain.String(),
		"-r", ffgraph.Int(fps),
	}
	args = append(args, encodeArgs(s.Config.Encoding.Clip)...)
	args = append(args, audioEncodeArgs(s.Config.Encoding)...)
	return append(args, output)
}

// TrimClips materializes clip_<i>.mp4 for every segment in order. Existing
// clips are overwritten.
func (s *Service) TrimClips(ctx context.Context, r runner.Runner, source string, segments []editplan.Segment, opts options.RenderOptions, jp paths.JobPaths) ([]string, error) {
	chain, err := BuildVideoFilter(opts)
	if err != nil {
		return nil, err
	}
	clips := make([]string, 0, len(segments))
	for i, seg := range segments {
		out := jp.Clip(i)
		if err := s.ffmpeg(ctx, r, s.TrimArgs(source, seg, chain, opts.FPS, out), out); err != nil {
			return nil, fmt.Errorf("trim segment %d (%s-%s): %w", i, ffgraph.Float(seg.Start), ffgraph.Float(seg.End), err)
		}
		clips = append(clips, out)
	}
	return clips, nil
}
