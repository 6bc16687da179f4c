package render

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"clipsmith/internal/runner"
)

// VideoInfo is the subset of ffprobe output the pipeline relies on.
type VideoInfo struct {
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	FrameRate string  `json:"r_frame_rate,omitempty"`
	Duration  float64 `json:"duration,omitempty"`
}

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
	Format  ffprobeFormat   `json:"format"`
}

type ffprobeStream struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	FrameRate string `json:"r_frame_rate"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
}

// ProbeVideo reads the first video stream's dimensions and the container
// duration. A file without a video stream reports zero dimensions.
func (s *Service) ProbeVideo(ctx context.Context, r runner.Runner, path string) (VideoInfo, error) {
	args := []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate:format=duration",
		"-of", "json",
		path,
	}
	result, err := r.Run(ctx, s.ffprobePath, args, runner.RunOptions{})
	if err != nil {
		return VideoInfo{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	var parsed ffprobeOutput
	if len(strings.TrimSpace(string(result.Stdout))) > 0 {
		if err := json.Unmarshal(result.Stdout, &parsed); err != nil {
			return VideoInfo{}, fmt.Errorf("decode ffprobe output: %w", err)
		}
	}

	info := VideoInfo{FrameRate: "0/0"}
	if len(parsed.Streams) > 0 {
		st := parsed.Streams[0]
		info.Width, info.Height, info.FrameRate = st.Width, st.Height, st.FrameRate
	}
	if parsed.Format.Duration != "" {
		if v, err := strconv.ParseFloat(parsed.Format.Duration, 64); err == nil {
			info.Duration = v
		}
	}
	return info, nil
}

// ProbeDuration returns the container duration in seconds.
func (s *Service) ProbeDuration(ctx context.Context, r runner.Runner, path string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
	result, err := r.Run(ctx, s.ffprobePath, args, runner.RunOptions{})
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	text := strings.TrimSpace(string(result.Stdout))
	if text == "" {
		return 0, nil
	}
	duration, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", text, err)
	}
	return duration, nil
}
