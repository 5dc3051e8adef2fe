package sshkey

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/rileyhilliard/km/internal/errors"
)

// FingerprintInfo holds the typed fields of one `ssh-keygen -lf` output line.
type FingerprintInfo struct {
	// BitSize is zero when the leading token did not parse as an integer.
	BitSize     int
	Fingerprint string
	Comment     string
	// Type is KeyTypeUnknown when the trailing token is not a recognized
	// type tag.
	Type KeyType
}

// ParseFingerprintLine parses a line in the form
//
//	<bits> <fingerprint> <comment...> (<TYPE>)
//
// as printed by ssh-keygen -lf. The trailing parenthesized token is matched
// case-insensitively against the known type tags; when it is not one of
// them (a comment can itself end with parentheses) the whole middle section
// is treated as comment and the type is Unknown. This function never fails:
// loosely-structured tool output degrades to zero values, not errors.
func ParseFingerprintLine(line string) FingerprintInfo {
	var info FingerprintInfo

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return info
	}

	if bits, err := strconv.Atoi(fields[0]); err == nil {
		info.BitSize = bits
	}

	if len(fields) < 2 {
		return info
	}
	info.Fingerprint = fields[1]

	rest := fields[2:]
	if len(rest) == 0 {
		return info
	}

	last := rest[len(rest)-1]
	if tag, ok := trimTypeTag(last); ok {
		if keyType, err := ParseKeyType(tag); err == nil {
			info.Type = keyType
			info.Comment = strings.Join(rest[:len(rest)-1], " ")
			return info
		}
	}

	// Unrecognized trailing token: everything after the fingerprint is
	// comment and the type stays Unknown.
	info.Comment = strings.Join(rest, " ")
	return info
}

// trimTypeTag strips a single level of surrounding parentheses.
func trimTypeTag(token string) (string, bool) {
	if len(token) < 2 || token[0] != '(' || token[len(token)-1] != ')' {
		return "", false
	}
	return token[1 : len(token)-1], true
}

// ParseKeyType maps a tool type tag (RSA, ED25519, ECDSA, any case) to a
// KeyType. An unrecognized tag is an explicit PARSE failure, never a silent
// default.
func ParseKeyType(tag string) (KeyType, error) {
	switch strings.ToUpper(tag) {
	case "ED25519":
		return KeyTypeEd25519, nil
	case "RSA":
		return KeyTypeRSA, nil
	case "ECDSA":
		return KeyTypeECDSA, nil
	default:
		return KeyTypeUnknown, errors.New(errors.ErrParse,
			fmt.Sprintf("Unknown key type tag '%s'", tag),
			"Expected RSA, ED25519, or ECDSA. The ssh-keygen output format may have changed.")
	}
}

// ParsePublicKeyComment extracts the comment from a one-line public key
// file (`<algorithm> <base64data> [comment...]`). The bool result
// distinguishes "no comment field" (false) from an empty comment string.
func ParsePublicKeyComment(contents string) (string, bool) {
	fields := strings.Fields(strings.TrimSpace(contents))
	if len(fields) < 3 {
		return "", false
	}
	return strings.Join(fields[2:], " "), true
}

// ValidatePublicKey parses a public key file body in authorized_keys
// format, returning the wire algorithm name and comment. Parsing is
// delegated to x/crypto/ssh; this never touches key material beyond
// decoding the line.
func ValidatePublicKey(contents []byte) (algorithm, comment string, err error) {
	pub, comment, _, _, parseErr := ssh.ParseAuthorizedKey(contents)
	if parseErr != nil {
		return "", "", errors.WrapWithCode(parseErr, errors.ErrParse,
			"Not a valid OpenSSH public key",
			"The .pub file may be corrupted or in an unsupported format.")
	}
	return pub.Type(), comment, nil
}
