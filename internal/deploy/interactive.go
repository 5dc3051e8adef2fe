package deploy

import (
	"context"
	stderrors "errors"
	"os/exec"
	"strings"
	"time"

	"github.com/creack/pty"

	"github.com/rileyhilliard/km/internal/errors"
	"github.com/rileyhilliard/km/internal/keystore"
	"github.com/rileyhilliard/km/internal/logger"
	"github.com/rileyhilliard/km/internal/sshkey"
)

// PromptCancelled is the error password providers return when the user
// dismisses the prompt. It is distinct from an empty string, which is a
// legitimate password attempt.
var PromptCancelled = errors.New(errors.ErrCancelled,
	"Password prompt cancelled",
	"")

// DefaultInactivity is how long the interactive strategy waits for any
// output from ssh-copy-id before giving up.
const DefaultInactivity = 30 * time.Second

// InteractiveDeployer drives ssh-copy-id through a pseudo-terminal,
// answering password and host-key prompts as they appear. This is the
// preferred strategy whenever an interactive surface exists to source
// passwords from.
type InteractiveDeployer struct {
	inactivity time.Duration
	log        logger.Logger
}

// NewInteractiveDeployer builds the pty strategy with the default
// inactivity timeout.
func NewInteractiveDeployer() *InteractiveDeployer {
	return &InteractiveDeployer{
		inactivity: DefaultInactivity,
		log:        logger.NewEnvLogger("[deploy]"),
	}
}

// SetInactivity overrides the inactivity timeout (tests use short ones).
func (d *InteractiveDeployer) SetInactivity(timeout time.Duration) {
	d.inactivity = timeout
}

// Deploy spawns ssh-copy-id on a pty and runs the prompt-answering loop.
func (d *InteractiveDeployer) Deploy(ctx context.Context, req sshkey.DeploymentRequest, password keystore.PasswordProvider) error {
	return d.run(ctx, req.Argv(), req.Destination(), password)
}

// run is the strategy core, split from Deploy so tests can drive it with
// scripted commands instead of the real ssh-copy-id.
func (d *InteractiveDeployer) run(ctx context.Context, argv []string, destination string, password keystore.PasswordProvider) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	tty, err := pty.Start(cmd)
	if err != nil {
		if stderrors.Is(err, exec.ErrNotFound) {
			return errors.WrapWithCode(err, errors.ErrToolMissing,
				"'"+argv[0]+"' is not installed",
				"Install the OpenSSH client tools and try again.")
		}
		return errors.WrapWithCode(err, errors.ErrTool,
			"Couldn't start "+argv[0]+" on a terminal",
			"Your environment may not support pseudo-terminals.")
	}
	defer tty.Close()

	// Reader goroutine: the channel closes on EOF. A pty read error after
	// child exit (EIO on Linux) is EOF for our purposes.
	chunks := make(chan []byte)
	go func() {
		defer close(chunks)
		buf := make([]byte, 4096)
		for {
			n, readErr := tty.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				chunks <- chunk
			}
			if readErr != nil {
				return
			}
		}
	}()

	kill := func() {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		// Drain the reader so it can exit, then reap the child.
		for range chunks {
		}
		_ = cmd.Wait()
	}

	var transcript strings.Builder
	// pending holds output not yet consumed by a prompt answer, so one
	// prompt is never answered twice.
	var pending string

	timer := time.NewTimer(d.inactivity)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			kill()
			if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
				return errors.WrapWithCode(ctx.Err(), errors.ErrTimeout,
					"Deploy to "+destination+" timed out", "")
			}
			return errors.WrapWithCode(ctx.Err(), errors.ErrCancelled,
				"Deploy to "+destination+" was cancelled", "")

		case <-timer.C:
			kill()
			return errors.New(errors.ErrTimeout,
				"No response from "+destination+" for "+d.inactivity.String(),
				"The remote may be unreachable, or waiting on something unexpected.")

		case chunk, ok := <-chunks:
			if !ok {
				waitErr := cmd.Wait()
				if waitErr == nil {
					return nil
				}
				if fatal := classifyFatal(transcript.String(), destination); fatal != nil {
					return fatal
				}
				return errors.NewTool(
					"Couldn't copy key to "+destination, transcript.String())
			}

			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(d.inactivity)

			transcript.Write(chunk)
			pending += string(chunk)
			d.log.Debug("output: %q", string(chunk))

			if fatal := classifyFatal(pending, destination); fatal != nil {
				kill()
				return fatal
			}

			switch {
			case hasHostKeyPrompt(pending):
				pending = ""
				if _, err := tty.Write([]byte("yes\n")); err != nil {
					kill()
					return errors.Wrap(err, "Couldn't answer host key prompt")
				}

			case hasPasswordPrompt(pending):
				pending = ""
				if password == nil {
					kill()
					return errors.New(errors.ErrConfig,
						destination+" asked for a password but no provider is wired",
						"Deploy interactively, or set up key-based auth first.")
				}
				pw, pwErr := password()
				if pwErr != nil {
					kill()
					return pwErr
				}
				if _, err := tty.Write([]byte(pw + "\n")); err != nil {
					kill()
					return errors.Wrap(err, "Couldn't send password")
				}
			}
		}
	}
}
