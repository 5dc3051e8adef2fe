// Package invoke wraps external command execution for the key backend.
// Commands are always built as argument vectors and never pass through a
// shell, so key names, comments, and passphrases cannot be interpreted as
// shell syntax.
package invoke

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rileyhilliard/km/internal/errors"
)

// Request describes a single external command invocation.
type Request struct {
	// Argv is the full argument vector, Argv[0] being the program name.
	Argv []string

	// Stdin, if non-nil, is piped to the process and closed at EOF.
	// Used to feed the ssh-keygen -p prompt sequence.
	Stdin []byte

	// Timeout bounds the invocation. Zero means no deadline; the caller's
	// context still applies, so zero-timeout invocations stay cancellable.
	Timeout time.Duration
}

// Result captures the outcome of a completed invocation.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
}

// Runner executes external commands. The concrete implementation spawns
// real processes; tests substitute fakes to script tool output.
type Runner interface {
	Run(ctx context.Context, req Request) (Result, error)
}

// CommandRunner is the os/exec-backed Runner. It is stateless and safe
// for concurrent use.
type CommandRunner struct{}

// NewRunner returns the default process-spawning runner.
func NewRunner() *CommandRunner {
	return &CommandRunner{}
}

// Run spawns the requested process, captures its output, and waits for exit.
// A nonzero exit status is not an error here: it is reported in the Result
// and classified by the caller, which knows what the tool was asked to do.
// Errors are reserved for failures to run at all: missing program, timeout,
// or cancellation.
func (r *CommandRunner) Run(ctx context.Context, req Request) (Result, error) {
	if len(req.Argv) == 0 {
		return Result{}, errors.New(errors.ErrValidation,
			"Empty command",
			"This is a bug in the caller - report it.")
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if req.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, req.Argv[0], req.Argv[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if req.Stdin != nil {
		cmd.Stdin = bytes.NewReader(req.Stdin)
	}

	start := time.Now()
	runErr := cmd.Run()
	result := Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if runErr == nil {
		return result, nil
	}

	// Deadline and cancellation take priority: CommandContext has already
	// killed the child, and the wait error just reflects the kill signal.
	if ctxErr := runCtx.Err(); ctxErr != nil {
		if stderrors.Is(ctxErr, context.DeadlineExceeded) {
			return result, errors.WrapWithCode(ctxErr, errors.ErrTimeout,
				fmt.Sprintf("'%s' timed out after %s", req.Argv[0], req.Timeout),
				"The tool may be waiting for input or the system is overloaded.")
		}
		return result, errors.WrapWithCode(ctxErr, errors.ErrCancelled,
			fmt.Sprintf("'%s' was cancelled", req.Argv[0]),
			"")
	}

	var exitErr *exec.ExitError
	if stderrors.As(runErr, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	if isNotFound(runErr) {
		return result, errors.WrapWithCode(runErr, errors.ErrToolMissing,
			fmt.Sprintf("'%s' is not installed", req.Argv[0]),
			"Install the OpenSSH client tools and try again.")
	}

	return result, errors.WrapWithCode(runErr, errors.ErrTool,
		fmt.Sprintf("Couldn't run '%s'", req.Argv[0]),
		"Make sure the command exists and is executable.")
}

// LookPath reports whether a program is available, returning its resolved
// path. A miss is a TOOLMISSING error so callers can distinguish "tool not
// installed" from "tool ran and failed".
func LookPath(program string) (string, error) {
	path, err := exec.LookPath(program)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrToolMissing,
			fmt.Sprintf("Can't find %s", program),
			"Install OpenSSH client tools (openssh-client on Debian/Ubuntu, openssh on macOS/Homebrew).")
	}
	return path, nil
}

func isNotFound(err error) bool {
	if stderrors.Is(err, exec.ErrNotFound) {
		return true
	}
	// exec wraps PATH misses differently across platforms; match the
	// canonical message as a fallback.
	return strings.Contains(err.Error(), "executable file not found")
}
