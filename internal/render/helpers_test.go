package render

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"clipsmith/internal/config"
	"clipsmith/internal/runner"
)

type call struct {
	Command string
	Args    []string
}

func (c call) has(marker string) bool {
	for _, a := range c.Args {
		if strings.Contains(a, marker) {
			return true
		}
	}
	return false
}

func (c call) output() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[len(c.Args)-1]
}

// fakeRunner answers ffprobe with canned data and "encodes" by touching the
// output path. ffmpeg invocations whose arguments contain a marker in failOn
// fail with exit status 1.
type fakeRunner struct {
	mu       sync.Mutex
	calls    []call
	failOn   []string
	videos   map[string]VideoInfo
	fallback VideoInfo
	duration float64
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		videos:   map[string]VideoInfo{},
		fallback: VideoInfo{Width: 1080, Height: 1920, FrameRate: "30/1"},
		duration: 5,
	}
}

func (f *fakeRunner) Run(ctx context.Context, command string, args []string, opts runner.RunOptions) (runner.RunResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{Command: command, Args: append([]string(nil), args...)})
	f.mu.Unlock()

	target := args[len(args)-1]
	if strings.Contains(command, "ffprobe") {
		if containsArg(args, "json") {
			info, ok := f.videos[target]
			if !ok {
				info = f.fallback
			}
			payload, _ := json.Marshal(map[string]any{
				"streams": []map[string]any{{"width": info.Width, "height": info.Height, "r_frame_rate": info.FrameRate}},
				"format":  map[string]any{"duration": fmt.Sprintf("%g", f.duration)},
			})
			return runner.RunResult{Stdout: payload}, nil
		}
		return runner.RunResult{Stdout: []byte(fmt.Sprintf("%g\n", f.duration))}, nil
	}

	for _, marker := range f.failOn {
		if (call{Args: args}).has(marker) {
			return runner.RunResult{Stderr: []byte("forced failure on " + marker)}, errors.New("exit status 1")
		}
	}
	if err := os.WriteFile(target, []byte("media"), 0o644); err != nil {
		return runner.RunResult{}, err
	}
	return runner.RunResult{}, nil
}

func (f *fakeRunner) ffmpegCalls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if strings.Contains(c.Command, "ffmpeg") {
			out = append(out, c)
		}
	}
	return out
}

func containsArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

// argAfter returns the value following flag, or "".
func argAfter(args []string, flag string) string {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func newTestService(t *testing.T, r runner.Runner) *Service {
	t.Helper()
	return NewService(config.Default(), r, zerolog.Nop())
}
