// Package toolexec runs external command-line tools with bounded output
// capture and per-invocation timeouts.
package toolexec

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// ErrTimeout indicates the tool ran past its deadline and was killed.
var ErrTimeout = errors.New("toolexec: timed out")

// maxCaptureBytes caps each captured stream. Certbot logs can grow
// unbounded on repeated failures; stored job output must not.
const maxCaptureBytes = 1 << 20

// truncationMarker is appended to a stream cut off at the capture cap.
const truncationMarker = "\n[output truncated]"

// Result holds the outcome of a completed tool invocation.
type Result struct {
	ExitCode  int
	Stdout    string
	Stderr    string
	Truncated bool
}

// Runner executes external tools. The error return covers launch
// failures and timeouts; a tool exiting non-zero is not an error and is
// reported through Result.ExitCode.
type Runner interface {
	Run(ctx context.Context, timeout time.Duration, name string, args ...string) (Result, error)
}

// ExecRunner runs tools via os/exec.
type ExecRunner struct{}

// NewRunner creates the default os/exec-backed runner.
func NewRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (Result, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var stdout, stderr cappedBuffer
	stdout.limit = maxCaptureBytes
	stderr.limit = maxCaptureBytes

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
		return Result{}, fmt.Errorf("%w: %s after %s", ErrTimeout, name, timeout)
	}

	result := Result{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Truncated: stdout.truncated || stderr.truncated,
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return Result{}, fmt.Errorf("toolexec: run %s: %w", name, err)
	}

	return result, nil
}

// cappedBuffer accumulates writes up to limit bytes and silently drops
// the rest, recording that truncation happened.
type cappedBuffer struct {
	buf       []byte
	limit     int
	truncated bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	remaining := b.limit - len(b.buf)
	if remaining <= 0 {
		b.truncated = true
		return len(p), nil
	}
	if len(p) > remaining {
		b.buf = append(b.buf, p[:remaining]...)
		b.truncated = true
		return len(p), nil
	}
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	if b.truncated {
		return string(b.buf) + truncationMarker
	}
	return string(b.buf)
}
