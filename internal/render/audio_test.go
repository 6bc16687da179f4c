package render

import (
	"strings"
	"testing"

	"clipsmith/internal/config"
	"clipsmith/internal/ffgraph"
	"clipsmith/internal/options"
)

func audioConfig() config.AudioConfig {
	return config.Default().Audio
}

func TestPlanAudioInputsOrder(t *testing.T) {
	opts := options.Default()
	opts.VoiceoverEnabled = true
	opts.VoiceoverPath = "vo.mp3"
	opts.MusicEnabled = true
	opts.MusicFile = "music.mp3"
	opts.SFXEnabled = true
	opts.SFXItems = []options.SfxItem{{Path: "s0.mp3"}, {Path: "s1.mp3"}}

	in := PlanAudioInputs(opts)
	if in.Voiceover != 1 || in.Music != 2 || len(in.SFX) != 2 || in.SFX[0] != 3 || in.SFX[1] != 4 {
		t.Fatalf("unexpected indices: %+v", in)
	}
	want := "-i vo.mp3 -stream_loop -1 -i music.mp3 -i s0.mp3 -i s1.mp3"
	if got := strings.Join(in.Args, " "); got != want {
		t.Fatalf("unexpected args %q", got)
	}

	opts.VoiceoverEnabled = false
	in = PlanAudioInputs(opts)
	if in.Voiceover != -1 || in.Music != 1 || in.SFX[0] != 2 {
		t.Fatalf("indices must shift when voiceover is absent: %+v", in)
	}
}

func TestBuildAudioMixDuckUsesVoiceoverAsControl(t *testing.T) {
	opts := options.Default()
	opts.VoiceoverEnabled = true
	opts.VoiceoverPath = "vo.mp3"
	opts.VoiceoverMode = options.VoiceoverDuck

	mix := BuildAudioMix(opts, audioConfig())
	if err := mix.Graph.Validate(); err != nil {
		t.Fatalf("graph invalid: %v", err)
	}
	chain, ok := mix.Graph.Find("sidechaincompress")
	if !ok {
		t.Fatalf("expected sidechaincompress in %s", mix.Graph)
	}
	if len(chain.Inputs) != 2 || chain.Inputs[0] != ffgraph.Stream(0, "a") || chain.Inputs[1] != ffgraph.Stream(1, "a") {
		t.Fatalf("expected [0:a][1:a] inputs, got %v", chain.Inputs)
	}
	if got := chain.Filters[0].String(); got != "sidechaincompress=threshold=0.08:ratio=8" {
		t.Fatalf("unexpected sidechain filter %s", got)
	}
	if mix.Output != "voice" {
		t.Fatalf("expected voice output, got %s", mix.Output)
	}
	if !strings.Contains(mix.Graph.String(), "[ducked][1:a]amix=inputs=2:duration=longest:dropout_transition=2[voice]") {
		t.Fatalf("unexpected duck mix: %s", mix.Graph)
	}
}

func TestBuildAudioMixSplitsSpedVoiceover(t *testing.T) {
	opts := options.Default()
	opts.VoiceoverEnabled = true
	opts.VoiceoverPath = "vo.mp3"
	opts.VoiceoverMode = options.VoiceoverDuck
	opts.VoiceoverSpeed = 3

	mix := BuildAudioMix(opts, audioConfig())
	if err := mix.Graph.Validate(); err != nil {
		t.Fatalf("graph invalid: %v\n%s", err, mix.Graph)
	}
	graph := mix.Graph.String()
	for _, expected := range []string{
		"[1:a]atempo=2[vo]",
		"[vo]asplit=2[vo_0][vo_1]",
		"[0:a][vo_0]sidechaincompress",
		"[ducked][vo_1]amix",
	} {
		if !strings.Contains(graph, expected) {
			t.Fatalf("expected %q in %s", expected, graph)
		}
	}
}

func TestBuildAudioMixSkipsAtempo(t *testing.T) {
	opts := options.Default()
	opts.VoiceoverEnabled = true
	opts.VoiceoverPath = "vo.mp3"
	opts.VoiceoverSpeed = 1.005

	mix := BuildAudioMix(opts, audioConfig())
	if mix.UsesGraph() || mix.Output != ffgraph.Stream(1, "a") {
		t.Fatalf("replace mode at unit speed needs no graph: %s -> %s", mix.Graph, mix.Output)
	}

	opts.VoiceoverSpeed = 1.5
	opts.VoiceoverPreSped = true
	if BuildAudioMix(opts, audioConfig()).Graph.Count("atempo") != 0 {
		t.Fatal("pre-sped voiceover must not be stretched")
	}
}

func TestBuildAudioMixSFXAndDuckedMusic(t *testing.T) {
	opts := options.Default()
	opts.VoiceoverEnabled = true
	opts.VoiceoverPath = "vo.mp3"
	opts.VoiceoverMode = options.VoiceoverMix
	opts.SFXEnabled = true
	opts.SFXItems = []options.SfxItem{{Path: "s0.mp3", Start: 1.5}, {Path: "s1.mp3", Start: 3, Volume: 0.5}}
	opts.MusicEnabled = true
	opts.MusicFile = "music.mp3"
	opts.MusicDucking = true
	opts.AudioEnhance = true
	opts.AudioLoudnorm = true
	opts.AudioDenoise = true

	mix := BuildAudioMix(opts, audioConfig())
	if err := mix.Graph.Validate(); err != nil {
		t.Fatalf("graph invalid: %v\n%s", err, mix.Graph)
	}
	graph := mix.Graph.String()
	expectations := []string{
		"[0:a][1:a]amix=inputs=2:duration=longest:dropout_transition=2[voice]",
		"[3:a]adelay=1500|1500,volume=0.8[sfx0]",
		"[4:a]adelay=3000|3000,volume=0.5[sfx1]",
		"[voice][sfx0][sfx1]amix=inputs=3:duration=longest:dropout_transition=2[voice_sfx]",
		"[2:a]volume=0.15[music]",
		"[voice_sfx]asplit=2[voice_sfx_0][voice_sfx_1]",
		"[music][voice_sfx_0]sidechaincompress=threshold=0.08:ratio=8[mduck]",
		"[voice_sfx_1][mduck]amix=inputs=2:duration=first:dropout_transition=2[aout]",
		"[aout]loudnorm,compand,afftdn[afinal]",
	}
	for _, expected := range expectations {
		if !strings.Contains(graph, expected) {
			t.Fatalf("expected %q in\n%s", expected, graph)
		}
	}
	if mix.Output != "afinal" {
		t.Fatalf("expected afinal output, got %s", mix.Output)
	}
	if mix.Graph.Count("loudnorm") != 1 {
		t.Fatalf("loudnorm must appear once: %s", graph)
	}
}

func TestEnhanceFiltersOrder(t *testing.T) {
	opts := options.Default()
	opts.AudioCompressor = true
	opts.AudioDenoise = true
	opts.AudioLoudnorm = true

	var names []string
	for _, f := range EnhanceFilters(opts) {
		names = append(names, f.Name)
	}
	if got := strings.Join(names, ","); got != "loudnorm,compand,afftdn" {
		t.Fatalf("unexpected order %s", got)
	}
	if len(EnhanceFilters(options.Default())) != 0 {
		t.Fatal("expected no enhancement by default")
	}
}
