// Package runner executes external commands with bounded wait time and
// maps every failure onto a structured, exception-free Outcome.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/google/uuid"
)

// Defaults applied when an Invocation or Runner leaves the field zero.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultMaxOutput = 1 << 20 // bytes per stream
)

// Invocation fully specifies one external command execution.
type Invocation struct {
	// Command is the program to run, as free text or an argument vector.
	Command Command

	// Timeout bounds the wall-clock wait for completion. Zero means
	// DefaultTimeout.
	Timeout time.Duration

	// Encoding is the IANA name used to decode captured output (and to
	// encode InputText). Empty means UTF-8.
	Encoding string

	// Errors selects the decode policy for undecodable output bytes.
	// Empty means DecodeIgnore.
	Errors DecodePolicy

	// Shell runs a Text command through the system shell, enabling
	// metacharacters. Ignored for Argv commands.
	Shell bool

	// Input is written to the child's stdin. If Input is nil and
	// InputText is non-empty, InputText is encoded with Encoding and
	// written instead.
	Input     []byte
	InputText string

	// Env entries are overlaid on a copy of the current process
	// environment. The calling process's own environment is never
	// modified.
	Env map[string]string
}

// stdin returns the bytes to feed the child's input stream, or nil.
func (inv Invocation) stdin() []byte {
	if inv.Input != nil {
		return inv.Input
	}
	if inv.InputText != "" {
		return encodeInput(inv.InputText, inv.Encoding)
	}
	return nil
}

// Runner executes Invocations. The zero value is ready to use. A Runner
// holds no per-call state and is safe for concurrent use; each call
// spawns exactly one child process and releases all of its resources
// before returning, on every exit path.
type Runner struct {
	// MaxOutput caps the captured bytes per stream. Zero means
	// DefaultMaxOutput.
	MaxOutput int
}

// Execute runs one external command and always returns an Outcome,
// never an error: every failure maps to a negative sentinel ReturnCode
// and a human-readable Stderr message. It blocks until the child exits,
// the timeout kills it, or it fails to start. Cancelling ctx aborts the
// run and surfaces as the interrupted outcome.
func (r *Runner) Execute(ctx context.Context, inv Invocation) *Outcome {
	out := &Outcome{RunID: uuid.New().String()}

	l, err := resolveCommand(inv.Command, inv.Shell)
	if err != nil {
		out.ReturnCode = CodeBadCommand
		out.Stderr = fmt.Sprintf("Error: command must be text or an argument vector: %v", err)
		return out
	}

	timeout := inv.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxOutput := r.MaxOutput
	if maxOutput <= 0 {
		maxOutput = DefaultMaxOutput
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := l.exec(ctx)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &limitWriter{buf: &stdout, limit: maxOutput}
	cmd.Stderr = &limitWriter{buf: &stderr, limit: maxOutput}
	// Grandchildren can inherit the output pipes; don't let them hold
	// Wait hostage after the child itself is gone.
	cmd.WaitDelay = time.Second

	if input := inv.stdin(); input != nil {
		cmd.Stdin = bytes.NewReader(input)
	}
	if inv.Env != nil {
		env := os.Environ()
		for k, v := range inv.Env {
			env = append(env, k+"="+v)
		}
		cmd.Env = env
	}

	runErr := cmd.Run()

	decodedStdout := func() *string {
		s := decodeOutput(stdout.Bytes(), inv.Encoding, inv.Errors)
		return &s
	}
	decodedStderr := func() string {
		return decodeOutput(stderr.Bytes(), inv.Encoding, inv.Errors)
	}
	name := inv.Command.Name()

	switch {
	case runErr == nil:
		out.ReturnCode = cmd.ProcessState.ExitCode()
		out.Stdout = decodedStdout()
		out.Stderr = decodedStderr()

	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		// The child was killed; keep whatever it managed to write.
		out.ReturnCode = CodeTimeout
		out.TimedOut = true
		out.Stdout = decodedStdout()
		out.Stderr = decodedStderr() + fmt.Sprintf("\nCommand timed out after %g seconds", timeout.Seconds())

	case errors.Is(ctx.Err(), context.Canceled):
		out.ReturnCode = CodeInterrupted
		out.Stderr = "Command execution interrupted by user"

	default:
		var exitErr *exec.ExitError
		switch {
		case errors.As(runErr, &exitErr) && exitErr.ExitCode() >= 0:
			// Non-zero exit is a normal outcome, not a runner failure.
			out.ReturnCode = exitErr.ExitCode()
			out.Stdout = decodedStdout()
			out.Stderr = decodedStderr()
		case errors.Is(runErr, exec.ErrNotFound) || errors.Is(runErr, fs.ErrNotExist):
			out.ReturnCode = CodeNotFound
			out.Stderr = fmt.Sprintf("Command not found: %s\nError: %v", name, runErr)
		case errors.Is(runErr, fs.ErrPermission):
			out.ReturnCode = CodePermission
			out.Stderr = fmt.Sprintf("Permission denied for command: %s\nError: %v", name, runErr)
		default:
			// Includes a child killed by an unrelated signal, whose
			// ExitCode of -1 is indistinguishable from the sentinel.
			out.ReturnCode = CodeUnknown
			out.Stderr = fmt.Sprintf("Unexpected error: %T\nDetails: %v", runErr, runErr)
		}
	}

	return out
}

// exec builds the process for a resolved launch.
func (l launch) exec(ctx context.Context) *exec.Cmd {
	if l.shell != "" {
		if runtime.GOOS == "windows" {
			return exec.CommandContext(ctx, "cmd", "/C", l.shell)
		}
		return exec.CommandContext(ctx, "/bin/sh", "-c", l.shell)
	}
	return exec.CommandContext(ctx, l.argv[0], l.argv[1:]...)
}

// limitWriter writes up to limit bytes to buf, then silently discards
// the rest.
type limitWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *limitWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil // discard
	}
	if len(p) > remaining {
		// Write only what fits, but report all bytes as consumed
		// to avoid short write errors from io.Copy.
		w.buf.Write(p[:remaining])
		return len(p), nil
	}
	return w.buf.Write(p)
}
