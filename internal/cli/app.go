package cli

import (
	"os"
	"time"

	"github.com/rileyhilliard/km/internal/config"
	"github.com/rileyhilliard/km/internal/deploy"
	"github.com/rileyhilliard/km/internal/keystore"
	"github.com/rileyhilliard/km/internal/ui"
)

// app holds the wired backend for the lifetime of one invocation.
type app struct {
	cfg   *config.Config
	store *keystore.Store
}

var current app

// buildApp constructs the store from config and flags. The deploy
// strategy is picked here, at the integration boundary: a terminal
// gets the pty strategy with interactive password prompts, a pipe gets
// the plain subprocess fallback.
func buildApp(cfg *config.Config) {
	dir := cfg.ExpandedSSHDir()
	if sshDirFlag != "" {
		dir = sshDirFlag
	}

	timeouts := keystore.Timeouts{
		Introspect: cfg.Timeouts.Introspect,
		Passphrase: cfg.Timeouts.Passphrase,
		Deploy:     cfg.Timeouts.Deploy,
		Generate:   cfg.Timeouts.Generate,
	}

	current = app{
		cfg: cfg,
		store: keystore.New(dir,
			keystore.WithTimeouts(timeouts),
			keystore.WithDeployer(pickDeployer(cfg.Timeouts.Deploy)),
		),
	}
}

func pickDeployer(timeout time.Duration) keystore.Deployer {
	if ui.IsTerminal(os.Stdin) && ui.IsTerminal(os.Stdout) {
		return deploy.NewInteractiveDeployer()
	}
	return deploy.NewPlainDeployer(nil, timeout)
}

// interactive reports whether prompts can be shown at all.
func interactive() bool {
	return ui.IsTerminal(os.Stdin) && ui.IsTerminal(os.Stdout) && !machineMode
}

// passwordProvider prompts on demand during deploys. Wired only when
// the session is interactive.
func passwordProvider(destination string) keystore.PasswordProvider {
	if !interactive() {
		return nil
	}
	return func() (string, error) {
		return ui.PromptPassword("Password for " + destination)
	}
}
