package render

import (
	"fmt"

	"clipsmith/internal/config"
	"clipsmith/internal/ffgraph"
	"clipsmith/internal/options"
)

// AudioInputs records the process input index of every audio source
// attached to the final encode. Index 0 is always the base video; absent
// sources are -1.
type AudioInputs struct {
	Voiceover int
	Music     int
	SFX       []int
	// Args are the input arguments following the base "-i".
	Args []string
}

// PlanAudioInputs assigns input indices in attachment order: voiceover,
// looped music, then each sound effect.
func PlanAudioInputs(opts options.RenderOptions) AudioInputs {
	in := AudioInputs{Voiceover: -1, Music: -1}
	next := 1
	if opts.VoiceoverEnabled && opts.VoiceoverPath != "" {
		in.Voiceover = next
		in.Args = append(in.Args, "-i", opts.VoiceoverPath)
		next++
	}
	if opts.MusicEnabled && opts.MusicFile != "" {
		in.Music = next
		in.Args = append(in.Args, "-stream_loop", "-1", "-i", opts.MusicFile)
		next++
	}
	if opts.SFXEnabled {
		for _, item := range opts.SFXItems {
			in.SFX = append(in.SFX, next)
			in.Args = append(in.Args, "-i", item.Path)
			next++
		}
	}
	return in
}

// AudioMix is the audio side of the final encode.
type AudioMix struct {
	Inputs AudioInputs
	// Graph holds every mixing chain; empty when no mixing is needed.
	Graph *ffgraph.Graph
	// Output is the pad carrying the finished audio.
	Output ffgraph.Pad
	// Enhance lists enhancement filters. They are appended to Graph when it
	// is non-empty and passed as -af otherwise.
	Enhance []ffgraph.Filter
}

// UsesGraph reports whether the final encode needs -filter_complex.
func (m AudioMix) UsesGraph() bool {
	return !m.Graph.Empty()
}

type mixBuilder struct {
	g     *ffgraph.Graph
	audio config.AudioConfig
	split int
}

// fanout returns n pads carrying p. Input streams can be read repeatedly;
// labels are single-use and go through asplit.
func (b *mixBuilder) fanout(p ffgraph.Pad, n int) []ffgraph.Pad {
	pads := make([]ffgraph.Pad, n)
	if p.IsStream() {
		for i := range pads {
			pads[i] = p
		}
		return pads
	}
	for i := range pads {
		pads[i] = ffgraph.Pad(fmt.Sprintf("%s_%d", p, i))
	}
	b.g.Add(ffgraph.Chain{
		Inputs:  []ffgraph.Pad{p},
		Filters: []ffgraph.Filter{ffgraph.New("asplit", ffgraph.Int(n))},
		Outputs: pads,
	})
	return pads
}

func (b *mixBuilder) amix(inputs int, duration string) ffgraph.Filter {
	return ffgraph.Filter{Name: "amix"}.
		With("inputs", ffgraph.Int(inputs)).
		With("duration", duration).
		With("dropout_transition", ffgraph.Float(b.audio.DropoutTransition))
}

func (b *mixBuilder) sidechain() ffgraph.Filter {
	return ffgraph.Filter{Name: "sidechaincompress"}.
		With("threshold", ffgraph.Float(b.audio.SidechainThreshold)).
		With("ratio", ffgraph.Float(b.audio.SidechainRatio))
}

// NeedsAtempo reports whether the voiceover must be time-stretched.
func NeedsAtempo(opts options.RenderOptions) bool {
	if opts.VoiceoverPreSped {
		return false
	}
	d := opts.VoiceoverSpeed - 1
	return d > 0.01 || d < -0.01
}

// BuildAudioMix assembles the voiceover, sound effect and music graph.
func BuildAudioMix(opts options.RenderOptions, audio config.AudioConfig) AudioMix {
	in := PlanAudioInputs(opts)
	b := &mixBuilder{g: &ffgraph.Graph{}, audio: audio}
	base := ffgraph.Stream(0, "a")
	voice := base

	if in.Voiceover >= 0 {
		vo := ffgraph.Stream(in.Voiceover, "a")
		if NeedsAtempo(opts) {
			speed := options.ClampedSpeed(opts.VoiceoverSpeed)
			vo = b.g.Link([]ffgraph.Pad{vo}, "vo", ffgraph.New("atempo", ffgraph.Float(speed)))
		}
		switch opts.VoiceoverMode {
		case options.VoiceoverMix:
			voice = b.g.Link([]ffgraph.Pad{base, vo}, "voice", b.amix(2, "longest"))
		case options.VoiceoverDuck:
			vos := b.fanout(vo, 2)
			ducked := b.g.Link([]ffgraph.Pad{base, vos[0]}, "ducked", b.sidechain())
			voice = b.g.Link([]ffgraph.Pad{ducked, vos[1]}, "voice", b.amix(2, "longest"))
		default:
			voice = vo
		}
	}

	if len(in.SFX) > 0 {
		pads := []ffgraph.Pad{voice}
		for n, idx := range in.SFX {
			item := opts.SFXItems[n]
			ms := int(item.Start * 1000)
			volume := item.Volume
			if volume <= 0 {
				volume = audio.SFXVolume
			}
			pads = append(pads, b.g.Link(
				[]ffgraph.Pad{ffgraph.Stream(idx, "a")},
				ffgraph.Pad(fmt.Sprintf("sfx%d", n)),
				ffgraph.New("adelay", fmt.Sprintf("%d|%d", ms, ms)),
				ffgraph.New("volume", ffgraph.Float(volume)),
			))
		}
		voice = b.g.Link(pads, "voice_sfx", b.amix(len(pads), "longest"))
	}

	out := voice
	if in.Music >= 0 {
		music := b.g.Link([]ffgraph.Pad{ffgraph.Stream(in.Music, "a")}, "music",
			ffgraph.New("volume", ffgraph.Float(opts.MusicVolume)))
		if opts.MusicDucking {
			voices := b.fanout(voice, 2)
			mduck := b.g.Link([]ffgraph.Pad{music, voices[0]}, "mduck", b.sidechain())
			out = b.g.Link([]ffgraph.Pad{voices[1], mduck}, "aout", b.amix(2, "first"))
		} else {
			out = b.g.Link([]ffgraph.Pad{voice, music}, "aout", b.amix(2, "first"))
		}
	}

	mix := AudioMix{Inputs: in, Graph: b.g, Output: out, Enhance: EnhanceFilters(opts)}
	if !b.g.Empty() && len(mix.Enhance) > 0 {
		mix.Output = b.g.Link([]ffgraph.Pad{out}, "afinal", mix.Enhance...)
	}
	return mix
}

// EnhanceFilters returns the enhancement chain; each filter appears once.
func EnhanceFilters(opts options.RenderOptions) []ffgraph.Filter {
	var names []string
	add := func(name string) {
		for _, n := range names {
			if n == name {
				return
			}
		}
		names = append(names, name)
	}
	if opts.AudioEnhance {
		add("loudnorm")
		add("compand")
	}
	if opts.AudioLoudnorm {
		add("loudnorm")
	}
	if opts.AudioCompressor {
		add("compand")
	}
	if opts.AudioDenoise {
		add("afftdn")
	}
	filters := make([]ffgraph.Filter, len(names))
	for i, n := range names {
		filters[i] = ffgraph.New(n)
	}
	return filters
}
