// Package sshkey defines the data model for discovered SSH key pairs and
// the pure parsers that turn ssh-keygen output and public key files into
// typed fields. Nothing in this package performs I/O or spawns processes.
package sshkey

import (
	"path/filepath"
	"time"
)

// KeyType identifies the algorithm of a key pair. The value doubles as the
// argument to ssh-keygen -t.
type KeyType string

const (
	KeyTypeEd25519 KeyType = "ed25519"
	KeyTypeRSA     KeyType = "rsa"
	KeyTypeECDSA   KeyType = "ecdsa"

	// KeyTypeUnknown marks output the parsers could not classify. It is
	// never a valid input to generation.
	KeyTypeUnknown KeyType = ""
)

// Display returns the conventional upper-case tag for a key type.
func (t KeyType) Display() string {
	switch t {
	case KeyTypeEd25519:
		return "ED25519"
	case KeyTypeRSA:
		return "RSA"
	case KeyTypeECDSA:
		return "ECDSA"
	default:
		return "unknown"
	}
}

// FixedSize reports whether the algorithm has a fixed key size. Ed25519 is
// always 256 bits; ECDSA is treated as fixed-curve (nistp256) rather than
// user-configurable.
func (t KeyType) FixedSize() bool {
	return t == KeyTypeEd25519 || t == KeyTypeECDSA
}

// KeyRecord represents one discovered or generated key pair. Records are
// immutable values: a metadata refresh produces a new record, and a record
// whose underlying files were deleted is stale and must be discarded.
type KeyRecord struct {
	// PrivatePath and PublicPath reference the same logical pair:
	// PublicPath is always PrivatePath + ".pub". Both files existed at
	// observation time.
	PrivatePath string `json:"private_path"`
	PublicPath  string `json:"public_path"`

	Type KeyType `json:"type"`

	// Fingerprint is the tool-derived SHA256:<base64> hash, never
	// user-supplied.
	Fingerprint string `json:"fingerprint"`

	// Comment is the free-text trailing field of the public key file.
	// Empty when the file has no comment.
	Comment string `json:"comment,omitempty"`

	// BitSize is populated from tool output for RSA (and ECDSA) keys.
	// Zero means not applicable or unknown.
	BitSize int `json:"bit_size,omitempty"`

	// LastModified is the private key file's mtime at scan time.
	LastModified time.Time `json:"last_modified"`
}

// Name returns the base filename of the pair, the identifier users see.
func (r KeyRecord) Name() string {
	return filepath.Base(r.PrivatePath)
}

// preferenceRank orders algorithms for default selection.
func preferenceRank(t KeyType) int {
	switch t {
	case KeyTypeEd25519:
		return 0
	case KeyTypeECDSA:
		return 1
	case KeyTypeRSA:
		return 2
	default:
		return 3
	}
}

// PreferredKey picks the best default from a set of records, preferring
// ed25519 over ecdsa over rsa, with filename order breaking ties.
// Returns nil for an empty set.
func PreferredKey(records []KeyRecord) *KeyRecord {
	var best *KeyRecord
	for i := range records {
		if best == nil {
			best = &records[i]
			continue
		}
		ri, rb := preferenceRank(records[i].Type), preferenceRank(best.Type)
		if ri < rb || (ri == rb && records[i].Name() < best.Name()) {
			best = &records[i]
		}
	}
	return best
}
