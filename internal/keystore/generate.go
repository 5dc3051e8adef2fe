package keystore

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rileyhilliard/km/internal/errors"
	"github.com/rileyhilliard/km/internal/invoke"
	"github.com/rileyhilliard/km/internal/sshkey"
)

// ecdsaBits is the fixed curve size passed to ssh-keygen for ECDSA keys.
// ECDSA is treated as a fixed-curve algorithm, not user-configurable.
const ecdsaBits = 256

// Generate creates a new key pair from a validated request and returns
// its record. The key directory is created with mode 0700 if missing.
// Generation is deliberately not idempotent: a filename collision fails
// with EXISTS before anything touches the filesystem, never a silent
// overwrite.
func (s *Store) Generate(ctx context.Context, req sshkey.GenerationRequest) (sshkey.KeyRecord, error) {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return sshkey.KeyRecord{}, errors.WrapWithCode(err, errors.ErrPermission,
			"Couldn't create key directory: "+s.dir,
			"Check permissions on the parent directory.")
	}

	privatePath := filepath.Join(s.dir, req.Filename)
	publicPath := privatePath + ".pub"
	for _, path := range []string{privatePath, publicPath} {
		if _, err := os.Stat(path); err == nil {
			return sshkey.KeyRecord{}, errors.New(errors.ErrExists,
				"Key '"+req.Filename+"' already exists",
				"Pick a different name, or delete the existing pair first.")
		}
	}

	argv := []string{"ssh-keygen", "-t", string(req.Type)}
	switch req.Type {
	case sshkey.KeyTypeRSA:
		argv = append(argv, "-b", strconv.Itoa(req.RSABits))
	case sshkey.KeyTypeECDSA:
		argv = append(argv, "-b", strconv.Itoa(ecdsaBits))
	}
	argv = append(argv, "-f", privatePath)
	if req.Comment != "" {
		argv = append(argv, "-C", req.Comment)
	}
	// -N is always passed, even when empty, so ssh-keygen never falls
	// back to an interactive passphrase prompt.
	argv = append(argv, "-N", req.Passphrase)

	s.log.Debug("generating %s key at %s", req.Type, privatePath)

	res, err := s.runner.Run(ctx, invoke.Request{
		Argv:    argv,
		Timeout: s.timeouts.Generate,
	})
	if err != nil {
		return sshkey.KeyRecord{}, err
	}
	if res.ExitCode != 0 {
		return sshkey.KeyRecord{}, errors.NewTool(
			"Key generation failed", string(res.Stderr))
	}

	// ssh-keygen sets 0600 itself, but don't trust the external tool's
	// defaults for key material.
	if err := os.Chmod(privatePath, 0o600); err != nil {
		return sshkey.KeyRecord{}, errors.WrapWithCode(err, errors.ErrPermission,
			"Couldn't restrict private key permissions: "+privatePath,
			"Fix manually: chmod 600 "+privatePath)
	}

	info, err := s.introspect(ctx, publicPath)
	if err != nil {
		return sshkey.KeyRecord{}, err
	}

	record := sshkey.KeyRecord{
		PrivatePath:  privatePath,
		PublicPath:   publicPath,
		Type:         req.Type,
		Fingerprint:  info.Fingerprint,
		Comment:      req.Comment,
		LastModified: time.Now(),
	}
	if req.Type == sshkey.KeyTypeRSA {
		record.BitSize = req.RSABits
	} else if req.Type == sshkey.KeyTypeECDSA {
		record.BitSize = ecdsaBits
	}

	return record, nil
}
