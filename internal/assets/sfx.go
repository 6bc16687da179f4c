package assets

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"clipsmith/internal/config"
	"clipsmith/internal/options"
	"clipsmith/internal/paths"
	"clipsmith/pkg/editplan"
)

var sfxExts = []string{".mp3", ".wav", ".m4a", ".aac", ".ogg", ".flac"}

// DirSFX serves pre-generated sound effects named sfx_<i>.<ext>, where i is
// the index of the plan's sound effect cue.
type DirSFX struct {
	Dir    string
	Logger zerolog.Logger
}

// SoundEffects resolves at most audio.MaxSFX cues into staged files. Cues
// without text are skipped, as are cues with no matching file.
func (d DirSFX) SoundEffects(ctx context.Context, cues []editplan.Cue, jp paths.JobPaths, audio config.AudioConfig) ([]options.SfxItem, error) {
	if d.Dir == "" {
		return nil, nil
	}
	limit := audio.MaxSFX
	if limit <= 0 || limit > len(cues) {
		limit = len(cues)
	}

	var items []options.SfxItem
	for i, cue := range cues[:limit] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if strings.TrimSpace(cue.Text) == "" {
			continue
		}
		src, ok := find(d.Dir, fmt.Sprintf("sfx_%d", i), sfxExts)
		if !ok {
			d.Logger.Warn().Int("index", i).Str("text", cue.Text).Msg("no sound effect file for cue")
			continue
		}
		dest := jp.SFX(i, ext(src))
		if err := stage(src, dest); err != nil {
			return nil, fmt.Errorf("stage sfx %d: %w", i, err)
		}
		items = append(items, options.SfxItem{Path: dest, Start: max(cue.Start, 0), Volume: audio.SFXVolume})
	}
	return items, nil
}
