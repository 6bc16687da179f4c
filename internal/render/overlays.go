package render

import (
	"context"
	"fmt"

	"clipsmith/internal/ffgraph"
	"clipsmith/internal/options"
	"clipsmith/internal/runner"
	"clipsmith/pkg/editplan"
)

// Overlay placements.
const (
	PlacementTopRight   = "top_right"
	PlacementBottomLeft = "bottom_left"
)

const overlayMargin = 40

// OverlayItem is an image shown over the edited timeline between Start and End.
type OverlayItem struct {
	Path      string  `json:"path"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	Placement string  `json:"placement,omitempty"`
}

// OverlayProvider resolves plan visual suggestions into overlay images
// stored under assetsDir.
type OverlayProvider interface {
	Overlays(ctx context.Context, suggestions []editplan.Cue, opts options.RenderOptions, assetsDir string) ([]OverlayItem, error)
}

func overlayPosition(placement string) (string, string) {
	m := ffgraph.Int(overlayMargin)
	if placement == "" || placement == PlacementTopRight {
		return "W-w-" + m, m
	}
	return m, "H-h-" + m
}

// BuildOverlayGraph composes overlays over input 0 in list order; overlay i
// is process input i+1.
func BuildOverlayGraph(items []OverlayItem) (*ffgraph.Graph, ffgraph.Pad) {
	g := &ffgraph.Graph{}
	last := ffgraph.Stream(0, "v")
	for i, item := range items {
		x, y := overlayPosition(item.Placement)
		enable := fmt.Sprintf("'between(t,%s,%s)'", ffgraph.Float(item.Start), ffgraph.Float(item.End))
		idx := i + 1
		last = g.Link(
			[]ffgraph.Pad{last, ffgraph.Stream(idx, "v")},
			ffgraph.Pad(fmt.Sprintf("v%d", idx)),
			ffgraph.New("overlay", x, y).With("enable", enable),
		)
	}
	return g, last
}

// OverlayArgs builds the overlay encode command.
func (s *Service) OverlayArgs(base string, items []OverlayItem, graph *ffgraph.Graph, last ffgraph.Pad, output string) []string {
	args := []string{"-i", base}
	for _, item := range items {
		args = append(args, "-i", item.Path)
	}
	args = append(args, "-filter_complex", graph.String(), "-map", last.Label())
	args = append(args, encodeArgs(s.Config.Encoding.Overlay)...)
	return append(args, output)
}

// ApplyOverlays renders items over base into output and returns the path the
// next stage should read. With no items base is passed through untouched.
func (s *Service) ApplyOverlays(ctx context.Context, r runner.Runner, base string, items []OverlayItem, output string) (string, error) {
	if len(items) == 0 {
		return base, nil
	}
	graph, last := BuildOverlayGraph(items)
	if err := graph.Validate(); err != nil {
		return base, fmt.Errorf("overlay graph: %w", err)
	}
	if err := s.ffmpeg(ctx, r, s.OverlayArgs(base, items, graph, last, output), output); err != nil {
		return base, fmt.Errorf("overlay: %w", err)
	}
	return output, nil
}
