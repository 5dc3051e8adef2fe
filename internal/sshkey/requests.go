package sshkey

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rileyhilliard/km/internal/errors"
)

// filenamePattern restricts key filenames to a filesystem- and
// argv-safe alphabet.
var filenamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// ValidRSABits is the allowed set of RSA modulus sizes.
var ValidRSABits = map[int]bool{
	2048: true,
	3072: true,
	4096: true,
	8192: true,
}

// DefaultRSABits is used when an RSA generation request does not specify
// a size.
const DefaultRSABits = 4096

// GenerationRequest is the validated input to key creation. Construct it
// with NewGenerationRequest; a zero value is not meaningful.
type GenerationRequest struct {
	Type     KeyType
	Filename string
	// Passphrase encrypts the private key at rest. Empty means
	// unencrypted. Never logged.
	Passphrase string
	Comment    string
	// RSABits is nonzero only when Type is RSA; the constructor enforces
	// this invariant by normalizing, not by failing.
	RSABits int
}

// NewGenerationRequest validates the inputs and builds a request.
// keyType defaults to Ed25519 and rsaBits to DefaultRSABits (RSA only).
// For non-RSA types rsaBits is discarded: fixed-size algorithms have no
// configurable size and the field must end up zero.
func NewGenerationRequest(keyType KeyType, filename, passphrase, comment string, rsaBits int) (GenerationRequest, error) {
	if keyType == KeyTypeUnknown {
		keyType = KeyTypeEd25519
	}

	switch keyType {
	case KeyTypeEd25519, KeyTypeRSA, KeyTypeECDSA:
	default:
		return GenerationRequest{}, errors.New(errors.ErrValidation,
			fmt.Sprintf("Invalid key type '%s'", keyType),
			"Supported types: ed25519 (recommended), rsa, ecdsa")
	}

	if err := ValidateFilename(filename); err != nil {
		return GenerationRequest{}, err
	}

	if keyType == KeyTypeRSA {
		if rsaBits == 0 {
			rsaBits = DefaultRSABits
		}
		if !ValidRSABits[rsaBits] {
			return GenerationRequest{}, errors.New(errors.ErrValidation,
				fmt.Sprintf("Invalid RSA key size %d", rsaBits),
				"Pick one of 2048, 3072, 4096, or 8192.")
		}
	} else {
		rsaBits = 0
	}

	return GenerationRequest{
		Type:       keyType,
		Filename:   filename,
		Passphrase: passphrase,
		Comment:    comment,
		RSABits:    rsaBits,
	}, nil
}

// ValidateFilename checks a key filename against the safe-name rules:
// 1-255 chars of [A-Za-z0-9_.-], not starting with '.' or '-'.
func ValidateFilename(filename string) error {
	if filename == "" {
		return errors.New(errors.ErrValidation,
			"Key filename is empty",
			"Give the key a name like 'id_ed25519' or 'work_laptop'.")
	}
	if len(filename) > 255 {
		return errors.New(errors.ErrValidation,
			"Key filename is too long",
			"Keep it under 255 characters.")
	}
	if strings.HasPrefix(filename, ".") || strings.HasPrefix(filename, "-") {
		return errors.New(errors.ErrValidation,
			fmt.Sprintf("Key filename '%s' can't start with '.' or '-'", filename),
			"Leading dots hide files; leading dashes look like flags to tools.")
	}
	if !filenamePattern.MatchString(filename) {
		return errors.New(errors.ErrValidation,
			fmt.Sprintf("Key filename '%s' has unsupported characters", filename),
			"Use letters, digits, dots, dashes, and underscores only.")
	}
	return nil
}

// PassphraseChangeRequest carries the inputs for re-encrypting a private
// key. Empty Current means the key is currently unprotected; empty New
// removes protection. Confirmation matching is a presentation concern and
// deliberately not modeled here.
type PassphraseChangeRequest struct {
	Record  KeyRecord
	Current string
	New     string
}

// DeploymentRequest describes copying a public key to a remote server.
// Construct with NewDeploymentRequest.
type DeploymentRequest struct {
	Record   KeyRecord
	Hostname string
	Username string
	Port     int
}

// NewDeploymentRequest validates the target and applies the default SSH
// port. It performs no network I/O.
func NewDeploymentRequest(record KeyRecord, hostname, username string, port int) (DeploymentRequest, error) {
	if strings.TrimSpace(hostname) == "" {
		return DeploymentRequest{}, errors.New(errors.ErrValidation,
			"No hostname given",
			"Tell me where to copy the key, e.g. 'example.com' or '192.168.1.10'.")
	}
	if strings.TrimSpace(username) == "" {
		return DeploymentRequest{}, errors.New(errors.ErrValidation,
			"No username given",
			"Specify the remote account, e.g. 'alice@example.com'.")
	}
	if port == 0 {
		port = 22
	}
	if port < 1 || port > 65535 {
		return DeploymentRequest{}, errors.New(errors.ErrValidation,
			fmt.Sprintf("Port %d is out of range", port),
			"Ports go from 1 to 65535.")
	}
	return DeploymentRequest{
		Record:   record,
		Hostname: hostname,
		Username: username,
		Port:     port,
	}, nil
}

// Destination returns the user@host target string.
func (r DeploymentRequest) Destination() string {
	return r.Username + "@" + r.Hostname
}

// Argv builds the ssh-copy-id argument vector. The non-default port flag
// is only present when needed, matching what a user would type by hand.
func (r DeploymentRequest) Argv() []string {
	argv := []string{"ssh-copy-id", "-i", r.Record.PublicPath}
	if r.Port != 22 {
		argv = append(argv, "-p", fmt.Sprintf("%d", r.Port))
	}
	return append(argv, r.Destination())
}

// Command renders the shell-displayable equivalent of Argv, for
// "copy command to clipboard" use. It is display-only: the backend never
// feeds this string to a shell.
func (r DeploymentRequest) Command() string {
	return strings.Join(r.Argv(), " ")
}

// DeletionRequest is the confirmed intent to destroy a key pair.
// Construct with NewDeletionRequest; construction is where the
// confirmation precondition is enforced.
type DeletionRequest struct {
	Record    KeyRecord
	confirmed bool
}

// NewDeletionRequest refuses to build an unconfirmed deletion. The
// confirmed flag is a hard precondition, not advisory.
func NewDeletionRequest(record KeyRecord, confirmed bool) (DeletionRequest, error) {
	if !confirmed {
		return DeletionRequest{}, errors.New(errors.ErrValidation,
			"Deletion not confirmed",
			"Deleting a key pair is irreversible; pass the confirmation explicitly.")
	}
	return DeletionRequest{Record: record, confirmed: true}, nil
}

// Confirmed reports whether the request was built through the confirming
// constructor. A zero-value request reports false.
func (r DeletionRequest) Confirmed() bool {
	return r.confirmed
}
