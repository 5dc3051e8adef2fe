package deploy

import (
	"context"
	"time"

	"github.com/rileyhilliard/km/internal/errors"
	"github.com/rileyhilliard/km/internal/invoke"
	"github.com/rileyhilliard/km/internal/keystore"
	"github.com/rileyhilliard/km/internal/sshkey"
)

// PlainDeployer runs ssh-copy-id as an ordinary subprocess with no
// terminal attached. This only succeeds for passwordless (key- or
// agent-based) authentication: without a tty, ssh cannot ask for a
// password and fails instead. Degraded but predictable; used when no
// interactive surface is available.
type PlainDeployer struct {
	runner  invoke.Runner
	timeout time.Duration
}

// NewPlainDeployer builds the subprocess-only strategy.
func NewPlainDeployer(runner invoke.Runner, timeout time.Duration) *PlainDeployer {
	if runner == nil {
		runner = invoke.NewRunner()
	}
	return &PlainDeployer{runner: runner, timeout: timeout}
}

// Deploy runs ssh-copy-id and classifies its combined output. The
// password provider is ignored: this strategy has no way to deliver a
// password to the child.
func (d *PlainDeployer) Deploy(ctx context.Context, req sshkey.DeploymentRequest, _ keystore.PasswordProvider) error {
	res, err := d.runner.Run(ctx, invoke.Request{
		Argv:    req.Argv(),
		Timeout: d.timeout,
	})
	if err != nil {
		return err
	}
	if res.ExitCode == 0 {
		return nil
	}

	output := string(res.Stdout) + string(res.Stderr)
	if fatalErr := classifyFatal(output, req.Destination()); fatalErr != nil {
		return fatalErr
	}

	return errors.NewTool(
		"Couldn't copy key to "+req.Destination(), string(res.Stderr))
}
