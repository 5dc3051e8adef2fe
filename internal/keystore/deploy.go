package keystore

import (
	"context"
	"os"

	"github.com/rileyhilliard/km/internal/errors"
	"github.com/rileyhilliard/km/internal/sshkey"
)

// CopyToServer installs the pair's public key on a remote host via the
// configured Deployer (interactive pty strategy or plain subprocess
// fallback; the choice is made at the integration boundary, not here).
// The password provider is only consulted if the remote asks for one.
func (s *Store) CopyToServer(ctx context.Context, req sshkey.DeploymentRequest, password PasswordProvider) error {
	if _, err := os.Stat(req.Record.PublicPath); err != nil {
		return errors.WrapWithCode(err, errors.ErrNotFound,
			"Public key not found: "+req.Record.PublicPath,
			"The key pair may have been deleted. Rescan the directory.")
	}

	if s.deployer == nil {
		return errors.New(errors.ErrConfig,
			"No deployment strategy configured",
			"Wire a deployer when constructing the store.")
	}

	s.log.Debug("deploying %s to %s", req.Record.Name(), req.Destination())
	return s.deployer.Deploy(ctx, req, password)
}

// DeployCommand renders the shell-displayable ssh-copy-id invocation for
// a request, for clipboard use. Display-only; never executed through a
// shell by this package.
func (s *Store) DeployCommand(req sshkey.DeploymentRequest) string {
	return req.Command()
}
