package editplan

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

const wordsPerCue = 6

// Transcript is a speech-to-text result. Either Segments or Words is used;
// Data is accepted as an alias for Segments.
type Transcript struct {
	Segments []TranscriptSegment `json:"segments"`
	Data     []TranscriptSegment `json:"data"`
	Words    []TranscriptWord    `json:"words"`
}

// TranscriptSegment is one recognized phrase.
type TranscriptSegment struct {
	Start      float64  `json:"start"`
	End        *float64 `json:"end"`
	Text       string   `json:"text"`
	Transcript string   `json:"transcript"`
}

// TranscriptWord is one recognized word.
type TranscriptWord struct {
	Start float64  `json:"start"`
	End   *float64 `json:"end"`
	Word  string   `json:"word"`
}

// LoadTranscript reads a JSON transcript file.
func LoadTranscript(path string) (Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Transcript{}, fmt.Errorf("read transcript: %w", err)
	}
	var tr Transcript
	if err := json.Unmarshal(data, &tr); err != nil {
		return Transcript{}, fmt.Errorf("parse transcript: %w", err)
	}
	return tr, nil
}

// BuildSRT renders a transcript as SRT text. Word-level transcripts are
// grouped six words per cue. Cues without text are skipped.
func BuildSRT(tr Transcript) string {
	segments := tr.Segments
	if len(segments) == 0 {
		segments = tr.Data
	}
	if len(segments) == 0 && len(tr.Words) > 0 {
		return buildWordSRT(tr.Words)
	}

	var cues []string
	idx := 1
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			text = strings.TrimSpace(seg.Transcript)
		}
		if text == "" {
			continue
		}
		cues = append(cues, formatCue(idx, seg.Start, endOr(seg.End, seg.Start), text))
		idx++
	}
	return strings.TrimSpace(strings.Join(cues, "\n"))
}

// Numbering follows the word groups, so a skipped empty group leaves a gap.
func buildWordSRT(words []TranscriptWord) string {
	var cues []string
	for i := 0; i < len(words); i += wordsPerCue {
		group := words[i:min(i+wordsPerCue, len(words))]
		parts := make([]string, len(group))
		for j, w := range group {
			parts[j] = w.Word
		}
		text := strings.TrimSpace(strings.Join(parts, " "))
		if text == "" {
			continue
		}
		start := group[0].Start
		last := group[len(group)-1]
		cues = append(cues, formatCue(i/wordsPerCue+1, start, endOr(last.End, start), text))
	}
	return strings.TrimSpace(strings.Join(cues, "\n"))
}

func endOr(end *float64, start float64) float64 {
	if end == nil {
		return start + 0.5
	}
	return *end
}

func formatCue(idx int, start, end float64, text string) string {
	return fmt.Sprintf("%d\n%s --> %s\n%s\n", idx, FormatSRTTime(start), FormatSRTTime(end), text)
}

// FormatSRTTime formats seconds as HH:MM:SS,mmm.
func FormatSRTTime(seconds float64) string {
	millis := int(seconds * 1000)
	hours := millis / 3600000
	millis %= 3600000
	minutes := millis / 60000
	millis %= 60000
	secs := millis / 1000
	ms := millis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, ms)
}

// SRTCue is one parsed subtitle entry.
type SRTCue struct {
	Start float64
	End   float64
	Text  string
}

// ParseSRT reads SRT text into cues. Malformed blocks are skipped.
func ParseSRT(text string) []SRTCue {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var cues []SRTCue
	for _, block := range strings.Split(text, "\n\n") {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 2 {
			continue
		}
		timing := lines[0]
		body := lines[1:]
		if !strings.Contains(timing, "-->") && len(lines) >= 3 {
			timing = lines[1]
			body = lines[2:]
		}
		bounds := strings.SplitN(timing, "-->", 2)
		if len(bounds) != 2 {
			continue
		}
		start, ok1 := parseSRTTime(bounds[0])
		end, ok2 := parseSRTTime(bounds[1])
		if !ok1 || !ok2 {
			continue
		}
		content := strings.TrimSpace(strings.Join(body, "\n"))
		if content == "" {
			continue
		}
		cues = append(cues, SRTCue{Start: start, End: end, Text: content})
	}
	return cues
}

func parseSRTTime(value string) (float64, bool) {
	value = strings.TrimSpace(strings.ReplaceAll(value, ",", "."))
	var h, m int
	var s float64
	if _, err := fmt.Sscanf(value, "%d:%d:%f", &h, &m, &s); err != nil {
		return 0, false
	}
	return float64(h*3600+m*60) + s, true
}
