package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"clipsmith/internal/options"
)

// Config captures workspace-level settings shared by every job.
type Config struct {
	Version   int             `yaml:"version"`
	Tools     ToolsConfig     `yaml:"tools"`
	Encoding  EncodingConfig  `yaml:"encoding"`
	Audio     AudioConfig     `yaml:"audio"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	Logging   LoggingConfig   `yaml:"logging"`

	// DefaultsFile points at a YAML file of render options merged under
	// Defaults. Relative paths resolve against the config file's directory.
	DefaultsFile string                `yaml:"defaults_file,omitempty"`
	Defaults     options.RenderOptions `yaml:"defaults"`
}

// ToolsConfig locates external binaries.
type ToolsConfig struct {
	FFmpeg   string            `yaml:"ffmpeg"`
	FFprobe  string            `yaml:"ffprobe"`
	Minimums map[string]string `yaml:"minimums,omitempty"`
}

// EncodeProfile is one video encode setting.
type EncodeProfile struct {
	VCodec string `yaml:"vcodec"`
	Preset string `yaml:"preset"`
	CRF    int    `yaml:"crf"`
}

// EncodingConfig holds per-stage encode parameters.
type EncodingConfig struct {
	Clip         EncodeProfile `yaml:"clip"`
	Overlay      EncodeProfile `yaml:"overlay"`
	Final        EncodeProfile `yaml:"final"`
	ACodec       string        `yaml:"acodec"`
	AudioBitrate string        `yaml:"audio_bitrate"`
}

// AudioConfig tunes the mix graph.
type AudioConfig struct {
	SidechainThreshold float64 `yaml:"sidechain_threshold"`
	SidechainRatio     float64 `yaml:"sidechain_ratio"`
	DropoutTransition  float64 `yaml:"dropout_transition"`
	SFXVolume          float64 `yaml:"sfx_volume"`
	SFXDuration        float64 `yaml:"sfx_duration_s"`
	MaxSFX             int     `yaml:"max_sfx"`
}

// WorkspaceConfig controls where jobs are written.
type WorkspaceConfig struct {
	JobsDir string `yaml:"jobs_dir"`
}

// LoggingConfig controls console logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Version: 1,
		Tools: ToolsConfig{
			FFmpeg:  "ffmpeg",
			FFprobe: "ffprobe",
		},
		Encoding: EncodingConfig{
			Clip:         EncodeProfile{VCodec: "libx264", Preset: "slow", CRF: 18},
			Overlay:      EncodeProfile{VCodec: "libx264", Preset: "medium", CRF: 20},
			Final:        EncodeProfile{VCodec: "libx264", Preset: "slow", CRF: 18},
			ACodec:       "aac",
			AudioBitrate: "192k",
		},
		Audio: AudioConfig{
			SidechainThreshold: 0.08,
			SidechainRatio:     8,
			DropoutTransition:  2,
			SFXVolume:          0.8,
			SFXDuration:        2.5,
			MaxSFX:             5,
		},
		Workspace: WorkspaceConfig{
			JobsDir: "runs",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Defaults: options.Default(),
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise returns
// the default configuration.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.loadDefaultsFile(filepath.Dir(path)); err != nil {
		return Config{}, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults ensures nested fields fall back to sensible defaults when the
// YAML omits them.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = defaults.Tools.FFmpeg
	}
	if c.Tools.FFprobe == "" {
		c.Tools.FFprobe = defaults.Tools.FFprobe
	}
	applyProfileDefaults(&c.Encoding.Clip, defaults.Encoding.Clip)
	applyProfileDefaults(&c.Encoding.Overlay, defaults.Encoding.Overlay)
	applyProfileDefaults(&c.Encoding.Final, defaults.Encoding.Final)
	if c.Encoding.ACodec == "" {
		c.Encoding.ACodec = defaults.Encoding.ACodec
	}
	if c.Encoding.AudioBitrate == "" {
		c.Encoding.AudioBitrate = defaults.Encoding.AudioBitrate
	}
	if c.Audio.SidechainThreshold == 0 {
		c.Audio.SidechainThreshold = defaults.Audio.SidechainThreshold
	}
	if c.Audio.SidechainRatio == 0 {
		c.Audio.SidechainRatio = defaults.Audio.SidechainRatio
	}
	if c.Audio.DropoutTransition == 0 {
		c.Audio.DropoutTransition = defaults.Audio.DropoutTransition
	}
	if c.Audio.SFXVolume == 0 {
		c.Audio.SFXVolume = defaults.Audio.SFXVolume
	}
	if c.Audio.SFXDuration == 0 {
		c.Audio.SFXDuration = defaults.Audio.SFXDuration
	}
	if c.Audio.MaxSFX == 0 {
		c.Audio.MaxSFX = defaults.Audio.MaxSFX
	}
	if c.Workspace.JobsDir == "" {
		c.Workspace.JobsDir = defaults.Workspace.JobsDir
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
}

func applyProfileDefaults(p *EncodeProfile, d EncodeProfile) {
	if p.VCodec == "" {
		p.VCodec = d.VCodec
	}
	if p.Preset == "" {
		p.Preset = d.Preset
	}
	if p.CRF == 0 {
		p.CRF = d.CRF
	}
}

// ToolMinimums returns the configured minimum tool versions.
func (c Config) ToolMinimums() map[string]string {
	return c.Tools.Minimums
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}
