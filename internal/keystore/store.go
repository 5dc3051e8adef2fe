// Package keystore discovers and mutates SSH key pairs on disk by
// orchestrating the external OpenSSH tools. The filesystem is the source
// of truth: there is no database, and every read rescans what is actually
// there.
//
// All operations are blocking and take a context; callers that need
// asynchrony dispatch them through the dispatch package. Concurrent
// operations on the same filename are racy by design, matching direct
// shell usage of ssh-keygen.
package keystore

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rileyhilliard/km/internal/errors"
	"github.com/rileyhilliard/km/internal/invoke"
	"github.com/rileyhilliard/km/internal/logger"
	"github.com/rileyhilliard/km/internal/sshkey"
)

// Timeouts bounds each external invocation class. A zero value means no
// deadline (the operation stays cancellable through its context).
type Timeouts struct {
	// Introspect bounds ssh-keygen -lf calls made during scans.
	Introspect time.Duration
	// Passphrase bounds ssh-keygen -p.
	Passphrase time.Duration
	// Deploy bounds ssh-copy-id.
	Deploy time.Duration
	// Generate bounds ssh-keygen -t. Zero by default: very large RSA
	// keys can legitimately take a long time.
	Generate time.Duration
}

// DefaultTimeouts returns the stock per-invocation bounds.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Introspect: 10 * time.Second,
		Passphrase: 15 * time.Second,
		Deploy:     30 * time.Second,
		Generate:   0,
	}
}

// Deployer copies a public key to a remote host. Implementations live in
// the deploy package; the store only checks preconditions and delegates.
type Deployer interface {
	Deploy(ctx context.Context, req sshkey.DeploymentRequest, password PasswordProvider) error
}

// PasswordProvider supplies an interactive password on demand. It may
// block until the presentation layer has an answer. Cancellation must be
// reported as a CANCELLED error, never as an empty string: an empty
// string is a legitimate password attempt.
type PasswordProvider func() (string, error)

// Store is the collaborator interface the presentation layer talks to.
// It is a value wired once at startup; its methods are safe for
// concurrent use because they share no mutable state beyond the
// filesystem itself.
type Store struct {
	dir      string
	runner   invoke.Runner
	deployer Deployer
	log      logger.Logger
	timeouts Timeouts
}

// Option configures a Store.
type Option func(*Store)

// WithRunner substitutes the external-command runner (tests script tool
// output through a fake).
func WithRunner(r invoke.Runner) Option {
	return func(s *Store) { s.runner = r }
}

// WithDeployer substitutes the ssh-copy-id strategy.
func WithDeployer(d Deployer) Option {
	return func(s *Store) { s.deployer = d }
}

// WithLogger substitutes the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithTimeouts overrides the per-invocation bounds.
func WithTimeouts(t Timeouts) Option {
	return func(s *Store) { s.timeouts = t }
}

// New creates a Store over the given key directory (conventionally
// ~/.ssh). The directory does not need to exist yet; Generate creates it.
func New(dir string, opts ...Option) *Store {
	s := &Store{
		dir:      dir,
		runner:   invoke.NewRunner(),
		log:      logger.NewEnvLogger("[keystore]"),
		timeouts: DefaultTimeouts(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the directory this store manages.
func (s *Store) Dir() string {
	return s.dir
}

// ReadPublicKey returns the trimmed contents of the record's public key
// file, for display or clipboard use. The content is sanity-checked as an
// authorized_keys-format line; an unparseable file is surfaced as a
// warning, not an error, since the bytes may still be what the user wants
// to copy.
func (s *Store) ReadPublicKey(record sshkey.KeyRecord) (string, error) {
	data, err := os.ReadFile(record.PublicPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.WrapWithCode(err, errors.ErrNotFound,
				"Public key not found: "+record.PublicPath,
				"The key pair may have been deleted. Rescan the directory.")
		}
		return "", errors.WrapWithCode(err, errors.ErrPermission,
			"Couldn't read public key: "+record.PublicPath,
			"Check file permissions.")
	}

	if _, _, err := sshkey.ValidatePublicKey(data); err != nil {
		s.log.Warn("public key %s does not parse: %v", record.PublicPath, err)
	}

	return strings.TrimSpace(string(data)), nil
}
