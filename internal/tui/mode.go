package tui

import (
	"io"
	"os"
	"runtime"
	"strings"
)

// OutputMode describes how job progress is shown.
type OutputMode int

const (
	// ModeTUI draws the live stage table with bubbletea.
	ModeTUI OutputMode = iota
	// ModePlain prints one line per stage event.
	ModePlain
	// ModeJSON prints the final job record as JSON.
	ModeJSON
)

func (m OutputMode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	case ModeJSON:
		return "json"
	default:
		return "plain"
	}
}

// DetectMode picks the output mode for out. Anything that is not an
// interactive terminal gets plain output.
func DetectMode(out io.Writer, noProgress, jsonOutput bool) OutputMode {
	if jsonOutput {
		return ModeJSON
	}
	if noProgress {
		return ModePlain
	}
	file, ok := out.(*os.File)
	if !ok {
		return ModePlain
	}
	info, err := file.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice == 0 {
		return ModePlain
	}
	if runtime.GOOS != "windows" {
		term := os.Getenv("TERM")
		if term == "" || strings.EqualFold(term, "dumb") {
			return ModePlain
		}
	}
	return ModeTUI
}
