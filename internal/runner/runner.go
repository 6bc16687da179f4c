// Package runner executes external tools (ffmpeg, ffprobe) behind an
// interface so pipelines can be exercised with fakes.
package runner

import (
	"bytes"
	"context"
	"io"
	"os/exec"
)

// RunOptions adjusts a single invocation. Stdout and Stderr, when set,
// receive a live copy of the streams; RunResult always carries both.
type RunOptions struct {
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// RunResult holds the captured output of a finished process.
type RunResult struct {
	Stdout []byte
	Stderr []byte
}

// Runner runs command with args and waits for it to exit.
type Runner interface {
	Run(ctx context.Context, command string, args []string, opts RunOptions) (RunResult, error)
}

// CmdRunner runs real processes with os/exec.
type CmdRunner struct{}

func (CmdRunner) Run(ctx context.Context, command string, args []string, opts RunOptions) (RunResult, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = opts.Dir
	cmd.Stdout = tee(&stdout, opts.Stdout)
	cmd.Stderr = tee(&stderr, opts.Stderr)

	err := cmd.Run()
	return RunResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, err
}

func tee(buf *bytes.Buffer, extra io.Writer) io.Writer {
	if extra == nil {
		return buf
	}
	return io.MultiWriter(buf, extra)
}

var _ Runner = CmdRunner{}
