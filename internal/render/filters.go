package render

import (
	"fmt"

	"clipsmith/internal/ffgraph"
	"clipsmith/internal/options"
)

// ColorGrade holds the eq filter parameters for a preset.
type ColorGrade struct {
	Brightness float64
	Contrast   float64
	Saturation float64
	Gamma      float64
}

var neutralGrade = ColorGrade{Brightness: 0, Contrast: 1, Saturation: 1, Gamma: 1}

var filterPresets = map[string]ColorGrade{
	"clean":     {Brightness: 0.02, Contrast: 1.05, Saturation: 1.05, Gamma: 1.0},
	"cinematic": {Brightness: -0.03, Contrast: 1.1, Saturation: 0.95, Gamma: 0.95},
	"vibrant":   {Brightness: 0.05, Contrast: 1.1, Saturation: 1.2, Gamma: 1.0},
	"bw":        {Brightness: 0, Contrast: 1, Saturation: 0, Gamma: 1},
	"retro":     {Brightness: 0.02, Contrast: 0.95, Saturation: 0.9, Gamma: 1.05},
	"sharp":     {Brightness: 0, Contrast: 1.15, Saturation: 1.05, Gamma: 1},
	"soft":      {Brightness: 0, Contrast: 0.95, Saturation: 0.95, Gamma: 1},
}

// PresetGrade returns the grade for a preset name; unknown names are neutral.
func PresetGrade(preset string) ColorGrade {
	if g, ok := filterPresets[preset]; ok {
		return g
	}
	return neutralGrade
}

// ResolveGrade applies explicit option overrides on top of the preset.
func ResolveGrade(opts options.RenderOptions) ColorGrade {
	g := PresetGrade(opts.FilterPreset)
	if opts.Brightness != nil {
		g.Brightness = *opts.Brightness
	}
	if opts.Contrast != nil {
		g.Contrast = *opts.Contrast
	}
	if opts.Saturation != nil {
		g.Saturation = *opts.Saturation
	}
	if opts.Gamma != nil {
		g.Gamma = *opts.Gamma
	}
	return g
}

// BuildVideoFilter constructs the per-clip chain. Every clip of a job uses the
// same chain so all clips share geometry.
func BuildVideoFilter(opts options.RenderOptions) (ffgraph.Chain, error) {
	width, height := opts.TargetWidth, opts.TargetHeight
	if width <= 0 || height <= 0 {
		return ffgraph.Chain{}, fmt.Errorf("invalid target dimensions %dx%d", width, height)
	}

	chain := ffgraph.Chain{}.Then(
		ffgraph.Filter{Name: "scale"}.
			With("w", fmt.Sprintf("'min(iw,%d)'", width)).
			With("h", fmt.Sprintf("'min(ih,%d)'", height)).
			With("force_original_aspect_ratio", "decrease"),
		ffgraph.New("pad", ffgraph.Int(width), ffgraph.Int(height), "(ow-iw)/2", "(oh-ih)/2").
			With("color", "black"),
	)

	if !opts.FiltersEnabled {
		return chain, nil
	}

	g := ResolveGrade(opts)
	chain = chain.Then(ffgraph.Filter{Name: "eq"}.
		With("brightness", ffgraph.Float(g.Brightness)).
		With("contrast", ffgraph.Float(g.Contrast)).
		With("saturation", ffgraph.Float(g.Saturation)).
		With("gamma", ffgraph.Float(g.Gamma)))

	if opts.Sharpness > 0 {
		chain = chain.Then(ffgraph.New("unsharp", "3", "3", ffgraph.Int(int(opts.Sharpness*2))))
	}
	if opts.Denoise {
		chain = chain.Then(ffgraph.New("hqdn3d", "1.5", "1.5", "6", "6"))
	}
	if opts.Vignette {
		chain = chain.Then(ffgraph.New("vignette", "0.4"))
	}
	if opts.Grain {
		chain = chain.Then(ffgraph.Filter{Name: "noise"}.With("alls", "10").With("allf", "t"))
	}
	return chain, nil
}

// ResolveTargetSize picks the output frame: never narrower than the source,
// 9:16 and rounded up to even dimensions for yuv420p.
func ResolveTargetSize(source VideoInfo, opts options.RenderOptions) (int, int, error) {
	requested, err := opts.RequestedWidth()
	if err != nil {
		return 0, 0, err
	}
	width := evenCeil(max(source.Width, requested))
	height := evenCeil((width*16 + 8) / 9)
	return width, height, nil
}

func evenCeil(n int) int {
	return n + n%2
}
