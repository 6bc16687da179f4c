package assets

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"clipsmith/internal/options"
	"clipsmith/internal/render"
	"clipsmith/pkg/editplan"
)

// DirOverlays serves pre-generated overlay images named overlay_<i>.png
// (or .webp; .jpg only when transparency is not required), where i is the
// index of the visual suggestion.
type DirOverlays struct {
	Dir    string
	Logger zerolog.Logger
}

var (
	transparentExts = []string{".png", ".webp"}
	opaqueExts      = []string{".png", ".webp", ".jpg", ".jpeg"}
)

// Overlays stages up to opts.AIVisualsMaxOverlays images into assetsDir.
// Suggestions without a matching image are skipped. Placement alternates
// between the top-right and bottom-left corners.
func (d DirOverlays) Overlays(ctx context.Context, suggestions []editplan.Cue, opts options.RenderOptions, assetsDir string) ([]render.OverlayItem, error) {
	if d.Dir == "" || opts.AIVisualsMaxOverlays <= 0 {
		return nil, nil
	}
	exts := opaqueExts
	if opts.AIVisualsTransparentPNG {
		exts = transparentExts
	}

	var items []render.OverlayItem
	for i, cue := range suggestions {
		if len(items) >= opts.AIVisualsMaxOverlays {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if cue.End <= cue.Start {
			continue
		}
		src, ok := find(d.Dir, fmt.Sprintf("overlay_%d", i), exts)
		if !ok {
			d.Logger.Debug().Int("index", i).Str("text", cue.Text).Msg("no overlay image for suggestion")
			continue
		}
		dest := filepath.Join(assetsDir, fmt.Sprintf("overlay_%d%s", i, ext(src)))
		if err := stage(src, dest); err != nil {
			return nil, fmt.Errorf("stage overlay %d: %w", i, err)
		}
		placement := render.PlacementTopRight
		if len(items)%2 == 1 {
			placement = render.PlacementBottomLeft
		}
		items = append(items, render.OverlayItem{Path: dest, Start: cue.Start, End: cue.End, Placement: placement})
	}
	return items, nil
}
