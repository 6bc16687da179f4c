// Package captions renders SRT text into Advanced SubStation Alpha files
// styled for vertical video.
package captions

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"clipsmith/internal/options"
	"clipsmith/pkg/editplan"
)

// Style is one caption template. Colours use ASS &HAABBGGRR notation.
type Style struct {
	Font         string
	Bold         bool
	Uppercase    bool
	Primary      string
	Outline      string
	Back         string
	BorderStyle  int
	OutlineWidth float64
	Shadow       float64
}

var templates = map[string]Style{
	"tiktok_bold": {
		Font: "Arial Black", Bold: true, Uppercase: true,
		Primary: "&H00FFFFFF", Outline: "&H00000000", Back: "&H64000000",
		BorderStyle: 1, OutlineWidth: 4, Shadow: 1,
	},
	"minimal": {
		Font: "Helvetica",
		Primary: "&H00FFFFFF", Outline: "&H00000000", Back: "&H00000000",
		BorderStyle: 1, OutlineWidth: 1, Shadow: 0,
	},
	"creator": {
		Font: "Montserrat", Bold: true,
		Primary: "&H0000F0FF", Outline: "&H00202020", Back: "&H80000000",
		BorderStyle: 1, OutlineWidth: 3, Shadow: 2,
	},
	"high_contrast": {
		Font: "Arial", Bold: true,
		Primary: "&H00FFFFFF", Outline: "&H00000000", Back: "&H00000000",
		BorderStyle: 3, OutlineWidth: 2, Shadow: 0,
	},
}

// Font size as a fraction of frame height.
var sizeScale = map[string]float64{
	"sm": 0.032,
	"md": 0.042,
	"lg": 0.055,
}

// ASS numpad alignment.
var alignments = map[string]int{
	"bottom": 2,
	"center": 5,
	"top":    8,
}

// Template returns the named template, falling back to tiktok_bold.
func Template(name string) Style {
	if s, ok := templates[name]; ok {
		return s
	}
	return templates["tiktok_bold"]
}

// Writer implements the renderer's caption stage.
type Writer struct{}

// WriteASS builds the subtitle file and writes it to path.
func (Writer) WriteASS(srt string, opts options.RenderOptions, path string) error {
	doc, err := BuildASS(srt, opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure captions directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("write captions: %w", err)
	}
	return nil
}

// BuildASS converts SRT text into an ASS document sized to the output frame.
func BuildASS(srt string, opts options.RenderOptions) (string, error) {
	cues := editplan.ParseSRT(srt)
	if len(cues) == 0 {
		return "", errors.New("captions contain no cues")
	}

	width, height := opts.TargetWidth, opts.TargetHeight
	if width <= 0 || height <= 0 {
		w, h, err := options.ParseResolution(opts.OutputResolution)
		if err != nil {
			return "", err
		}
		width, height = w, h
	}

	style := Template(opts.CaptionTemplate)
	scale, ok := sizeScale[opts.CaptionSize]
	if !ok {
		scale = sizeScale["md"]
	}
	fontSize := int(float64(height) * scale)
	align, ok := alignments[opts.CaptionPosition]
	if !ok {
		align = alignments["bottom"]
	}
	margin := opts.CaptionSafeMargin
	marginV := margin
	if align == 2 || align == 8 {
		// keep clear of platform UI chrome
		marginV = margin + height/10
	}

	var b strings.Builder
	b.WriteString("[Script Info]\n")
	b.WriteString("ScriptType: v4.00+\n")
	fmt.Fprintf(&b, "PlayResX: %d\nPlayResY: %d\n", width, height)
	b.WriteString("WrapStyle: 2\nScaledBorderAndShadow: yes\n\n")

	b.WriteString("[V4+ Styles]\n")
	b.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, " +
		"Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, " +
		"Alignment, MarginL, MarginR, MarginV, Encoding\n")
	fmt.Fprintf(&b, "Style: Default,%s,%d,%s,&H000000FF,%s,%s,%d,0,0,0,100,100,0,0,%d,%g,%g,%d,%d,%d,%d,1\n\n",
		style.Font, fontSize, style.Primary, style.Outline, style.Back, boolFlag(style.Bold),
		style.BorderStyle, style.OutlineWidth, style.Shadow, align, margin, margin, marginV)

	b.WriteString("[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	for _, cue := range cues {
		text := cue.Text
		if style.Uppercase {
			text = strings.ToUpper(text)
		}
		text = WrapText(text, opts.CaptionMaxChars)
		fmt.Fprintf(&b, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n", FormatASSTime(cue.Start), FormatASSTime(cue.End), escapeText(text))
	}
	return b.String(), nil
}

// WrapText breaks text into lines of at most maxChars, never splitting words.
// Lines are joined with the ASS hard break.
func WrapText(text string, maxChars int) string {
	words := strings.Fields(strings.ReplaceAll(text, "\n", " "))
	if maxChars <= 0 || len(words) == 0 {
		return strings.Join(words, " ")
	}
	var lines []string
	current := ""
	for _, w := range words {
		switch {
		case current == "":
			current = w
		case len([]rune(current))+1+len([]rune(w)) <= maxChars:
			current += " " + w
		default:
			lines = append(lines, current)
			current = w
		}
	}
	lines = append(lines, current)
	return strings.Join(lines, `\N`)
}

// FormatASSTime formats seconds as H:MM:SS.cc.
func FormatASSTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	cs := int(seconds*100 + 0.5)
	h := cs / 360000
	cs %= 360000
	m := cs / 6000
	cs %= 6000
	s := cs / 100
	cs %= 100
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
}

func escapeText(text string) string {
	r := strings.NewReplacer("{", `\{`, "}", `\}`)
	return r.Replace(text)
}

func boolFlag(v bool) int {
	if v {
		return -1
	}
	return 0
}
