// Package runner executes solution programs with a piped stdin, bounded
// output capture and a wall-clock timeout.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// waitDelay bounds how long Wait blocks on output pipes once the process
// has exited or been killed. Background children that keep a pipe open are
// cut off after this delay.
const waitDelay = time.Second

// StartError is returned when the program could not be started at all,
// e.g. because it is missing or not executable.
type StartError struct {
	Program string
	Err     error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("executing %s: %v", e.Program, e.Err)
}

func (e *StartError) Unwrap() error { return e.Err }

// Runner executes commands within a workspace boundary.
type Runner struct {
	Workspace string
	Timeout   time.Duration
	MaxOutput int // bytes per stream
}

// Run executes argv with stdin as its standard input. The first element is
// the program (resolved via PATH when it has no separator), and the rest are
// arguments. cwd is resolved relative to the workspace root and must remain
// within it.
//
// Each call starts exactly one process in its own process group. The group
// is killed once Run is done with it, so background children never outlive
// the call. If the timeout elapses the returned Result has TimedOut set and
// carries no output.
func (r *Runner) Run(ctx context.Context, argv []string, cwd string, stdin []byte) (*Result, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty argv")
	}

	dir, err := r.resolveDir(cwd)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	runID := uuid.New().String()

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdin = bytes.NewReader(stdin)
	cmd.WaitDelay = waitDelay
	killGroup := isolate(cmd)

	// killed is set only when the context ends before the process exits.
	var killed atomic.Bool
	cancelCmd := cmd.Cancel
	cmd.Cancel = func() error {
		killed.Store(true)
		return cancelCmd()
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &limitWriter{buf: &stdout, limit: r.MaxOutput}
	cmd.Stderr = &limitWriter{buf: &stderr, limit: r.MaxOutput}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &StartError{Program: argv[0], Err: err}
	}
	runErr := cmd.Wait()
	elapsed := time.Since(start)
	killGroup()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if killed.Load() && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return &Result{RunID: runID, TimedOut: true, Duration: elapsed}, nil
	}

	exitCode := 0
	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
	case errors.As(runErr, &exitErr):
		exitCode = exitErr.ExitCode()
	case errors.Is(runErr, exec.ErrWaitDelay):
		// The process exited but a child it left behind held the output
		// pipes open past waitDelay.
		exitCode = cmd.ProcessState.ExitCode()
	default:
		return nil, fmt.Errorf("waiting for %s: %w", argv[0], runErr)
	}

	return &Result{
		RunID:     runID,
		ExitCode:  exitCode,
		Stdout:    stdout.Bytes(),
		Stderr:    stderr.Bytes(),
		Truncated: stdout.Len() >= r.MaxOutput || stderr.Len() >= r.MaxOutput,
		Duration:  elapsed,
	}, nil
}

// resolveDir resolves cwd relative to the workspace and validates it
// is within the workspace boundary.
func (r *Runner) resolveDir(cwd string) (string, error) {
	if cwd == "" {
		return r.Workspace, nil
	}

	var dir string
	if filepath.IsAbs(cwd) {
		dir = filepath.Clean(cwd)
	} else {
		dir = filepath.Clean(filepath.Join(r.Workspace, cwd))
	}

	rel, err := filepath.Rel(r.Workspace, dir)
	if err != nil {
		return "", fmt.Errorf("resolving cwd: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("cwd %q is outside workspace %q", cwd, r.Workspace)
	}
	return dir, nil
}

// limitWriter writes up to limit bytes to buf, then silently discards the rest.
type limitWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *limitWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil
	}
	if len(p) > remaining {
		// Report all bytes as consumed to avoid short write errors from io.Copy.
		w.buf.Write(p[:remaining])
		return len(p), nil
	}
	return w.buf.Write(p)
}
