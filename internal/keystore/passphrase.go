package keystore

import (
	"context"
	"os"

	"github.com/rileyhilliard/km/internal/errors"
	"github.com/rileyhilliard/km/internal/invoke"
	"github.com/rileyhilliard/km/internal/sshkey"
)

// ChangePassphrase re-encrypts a private key with a new passphrase (or
// removes protection when the new passphrase is empty) by driving
// ssh-keygen -p over piped stdin.
func (s *Store) ChangePassphrase(ctx context.Context, req sshkey.PassphraseChangeRequest) error {
	privatePath := req.Record.PrivatePath
	if _, err := os.Stat(privatePath); err != nil {
		return errors.WrapWithCode(err, errors.ErrNotFound,
			"Private key not found: "+privatePath,
			"The key pair may have been deleted. Rescan the directory.")
	}

	// The stdin script mirrors the tool's interactive prompt sequence
	// exactly: current passphrase, new passphrase, confirmation. Order is
	// fixed; empty lines mean "no passphrase".
	stdin := req.Current + "\n" + req.New + "\n" + req.New + "\n"

	res, err := s.runner.Run(ctx, invoke.Request{
		Argv:    []string{"ssh-keygen", "-p", "-f", privatePath},
		Stdin:   []byte(stdin),
		Timeout: s.timeouts.Passphrase,
	})
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		// Raw stderr is surfaced for the caller to pattern-match (e.g.
		// "incorrect passphrase"); the backend doesn't interpret it.
		return errors.NewTool("Passphrase change failed", string(res.Stderr))
	}

	s.log.Debug("passphrase changed for %s", req.Record.Name())
	return nil
}
