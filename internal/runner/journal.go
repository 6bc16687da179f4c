package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const stderrTailBytes = 512

// ProcessError reports a failed external invocation with the end of its
// captured stderr.
type ProcessError struct {
	Command string
	Err     error
	Stderr  string
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Command, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// Journal wraps a Runner and appends every invocation to a command log and
// every non-empty stderr stream to a stderr log. Both files are created on
// first use and only ever appended to.
type Journal struct {
	Runner     Runner
	CommandLog string
	StderrLog  string

	mu sync.Mutex
}

// NewJournal returns a journaling runner. A nil inner runner uses CmdRunner.
func NewJournal(inner Runner, commandLog, stderrLog string) *Journal {
	if inner == nil {
		inner = CmdRunner{}
	}
	return &Journal{Runner: inner, CommandLog: commandLog, StderrLog: stderrLog}
}

func (j *Journal) Run(ctx context.Context, command string, args []string, opts RunOptions) (RunResult, error) {
	line := strings.Join(append([]string{command}, args...), " ")
	if err := j.appendFile(j.CommandLog, []byte(line+"\n")); err != nil {
		return RunResult{}, err
	}

	res, err := j.Runner.Run(ctx, command, args, opts)
	if len(res.Stderr) > 0 {
		entry := append(append([]byte(nil), res.Stderr...), '\n')
		if logErr := j.appendFile(j.StderrLog, entry); logErr != nil && err == nil {
			err = logErr
		}
	}
	if err != nil {
		return res, &ProcessError{
			Command: filepath.Base(command),
			Err:     err,
			Stderr:  Tail(res.Stderr, stderrTailBytes),
		}
	}
	return res, nil
}

func (j *Journal) appendFile(path string, data []byte) error {
	if path == "" {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("append %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Tail returns at most n trailing bytes of b as trimmed text, starting at a
// line boundary when one is available.
func Tail(b []byte, n int) string {
	text := strings.TrimSpace(string(b))
	if len(text) <= n {
		return text
	}
	text = text[len(text)-n:]
	if idx := strings.IndexByte(text, '\n'); idx >= 0 && idx < len(text)-1 {
		text = text[idx+1:]
	}
	return strings.TrimSpace(text)
}

var _ Runner = (*Journal)(nil)
