package step

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/fatih/color"
)

// MaxCaptureBytes caps how much of each subprocess stream is accumulated.
// A tool that produces more output than this is considered misbehaving and
// the run fails with [ErrOutputTruncated] instead of growing without bound.
const MaxCaptureBytes = 4 << 20

// ErrOutputTruncated is reported when a subprocess writes more than
// [MaxCaptureBytes] to stdout or stderr.
var ErrOutputTruncated = errors.New("subprocess output exceeded capture limit")

// Result holds the captured output of a finished subprocess.
// Stdout and stderr are accumulated separately and never interleaved.
type Result struct {
	Stdout string
	Stderr string
}

// Runner holds the metadata for a specific command invocation.
// The child process inherits the ambient environment of the step; the runner
// itself injects nothing unless [WithEnv] is used.
type Runner struct {
	Executable string
	Arguments  []string

	cmd    *exec.Cmd
	stdout *cappedBuffer
	stderr *cappedBuffer
	quiet  bool
}

// Command builds a runner for a specific executable.
// The context is wired through to the child process; cancelling it kills
// the child, which is how run timeouts are enforced.
func Command(ctx context.Context, executable string, opts ...RunnerOpt) (*Runner, error) {
	cmd := exec.CommandContext(ctx, executable)

	r := Runner{
		Executable: executable,
		cmd:        cmd,
		stdout:     &cappedBuffer{max: MaxCaptureBytes},
		stderr:     &cappedBuffer{max: MaxCaptureBytes},
	}

	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	for _, opt := range opts {
		if err := opt(&r); err != nil {
			return nil, err
		}
	}

	cmd.Args = append([]string{executable}, r.Arguments...)

	return &r, nil
}

// Exec runs the command to completion and returns its captured output.
// A non-zero exit is fatal; anything the tool wrote to stderr is surfaced
// as diagnostic context on the returned error.
func (r *Runner) Exec() (res *Result, err error) {
	start := time.Now()
	defer func() {
		elapsed := time.Since(start).Round(time.Millisecond)
		if err != nil {
			color.Red(" ✘ %s\n\n", elapsed)
			return
		}
		color.Green(" ✔ %s\n\n", elapsed)
	}()

	if !r.quiet {
		LogStep(fmt.Sprint(r.Executable, " ", strings.Join(r.Arguments, " ")))
	}

	runerr := r.cmd.Run()

	if r.stdout.overflowed || r.stderr.overflowed {
		return nil, fmt.Errorf("%s: %w", r.Executable, ErrOutputTruncated)
	}

	if runerr != nil {
		if diag := strings.TrimSpace(r.stderr.String()); diag != "" {
			return nil, fmt.Errorf("%s: %w\n%s", r.Executable, runerr, diag)
		}
		return nil, fmt.Errorf("%s: %w", r.Executable, runerr)
	}

	return &Result{Stdout: r.stdout.String(), Stderr: r.stderr.String()}, nil
}

// Run is a helper that builds a runner and executes it in one call.
func Run(ctx context.Context, executable string, opts ...RunnerOpt) (*Result, error) {
	rnr, err := Command(ctx, executable, opts...)
	if err != nil {
		return nil, err
	}

	return rnr.Exec()
}

// RunnerOpt allows customizing the behavior of the command runner.
type RunnerOpt func(r *Runner) error

// WithArgs command arguments.
func WithArgs(args ...string) RunnerOpt {
	return func(r *Runner) error {
		r.Arguments = args
		return nil
	}
}

// WithDir sets the directory where the command should be run inside.
func WithDir(dir string) RunnerOpt {
	return func(r *Runner) error {
		r.cmd.Dir = dir
		return nil
	}
}

// WithEnv appends extra environment variables on top of the inherited ones.
func WithEnv(vars ...string) RunnerOpt {
	return func(r *Runner) error {
		r.cmd.Env = os.Environ()
		for _, vrb := range vars {
			name, _, ok := strings.Cut(vrb, "=")
			if !ok || name == "" {
				return fmt.Errorf("invalid env format; %s doesn't match NAME=value expectation", vrb)
			}
			r.cmd.Env = append(r.cmd.Env, vrb)
		}
		return nil
	}
}

// WithoutNoise silences the command line log; useful when the caller handles
// reporting on its own.
func WithoutNoise() RunnerOpt {
	return func(r *Runner) error {
		r.quiet = true
		return nil
	}
}

// cappedBuffer accumulates writes up to a fixed size.
// Once the cap is hit the overflowed flag sticks and further writes error out,
// which aborts the subprocess copy loop.
type cappedBuffer struct {
	buf        bytes.Buffer
	max        int
	overflowed bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if b.buf.Len()+len(p) > b.max {
		b.overflowed = true
		return 0, ErrOutputTruncated
	}
	return b.buf.Write(p)
}

func (b *cappedBuffer) String() string {
	return b.buf.String()
}
