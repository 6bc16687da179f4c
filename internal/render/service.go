package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"clipsmith/internal/config"
	"clipsmith/internal/options"
	"clipsmith/internal/runner"
)

// Service runs the ffmpeg stages that turn a source video and a normalized
// plan into a finished vertical video.
type Service struct {
	Config   config.Config
	Runner   runner.Runner
	Logger   zerolog.Logger
	Reporter Reporter

	// Overlays supplies overlay images when AI visuals are enabled.
	Overlays OverlayProvider
	// Captions writes the styled subtitle file burned in by the final encode.
	Captions CaptionWriter

	ffmpegPath  string
	ffprobePath string
}

// CaptionWriter converts SRT text into a subtitle file ffmpeg can burn in.
type CaptionWriter interface {
	WriteASS(srt string, opts options.RenderOptions, path string) error
}

// NewService prepares a renderer. A nil runner executes real processes.
func NewService(cfg config.Config, r runner.Runner, logger zerolog.Logger) *Service {
	if r == nil {
		r = runner.CmdRunner{}
	}
	cfg.ApplyDefaults()
	return &Service{
		Config:      cfg,
		Runner:      r,
		Logger:      logger,
		ffmpegPath:  firstNonEmpty(cfg.Tools.FFmpeg, "ffmpeg"),
		ffprobePath: firstNonEmpty(cfg.Tools.FFprobe, "ffprobe"),
	}
}

func (s *Service) report(ev Event) {
	if s.Reporter != nil {
		s.Reporter.Report(ev)
	}
}

// ffmpeg runs one ffmpeg invocation and removes the partial output when it fails.
func (s *Service) ffmpeg(ctx context.Context, r runner.Runner, args []string, output string) error {
	if output != "" {
		if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
			return fmt.Errorf("ensure output directory: %w", err)
		}
	}
	full := append([]string{"-hide_banner", "-y"}, args...)
	s.Logger.Debug().Str("output", filepath.Base(output)).Msg("ffmpeg")
	if _, err := r.Run(ctx, s.ffmpegPath, full, runner.RunOptions{}); err != nil {
		if output != "" {
			_ = os.Remove(output)
		}
		return err
	}
	return nil
}

func encodeArgs(profile config.EncodeProfile) []string {
	return []string{
		"-c:v", profile.VCodec,
		"-preset", profile.Preset,
		"-crf", fmt.Sprintf("%d", profile.CRF),
	}
}

func audioEncodeArgs(enc config.EncodingConfig) []string {
	return []string{"-c:a", enc.ACodec, "-b:a", enc.AudioBitrate}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
