package keystore

import (
	"fmt"
	"os"
	"strings"

	"github.com/rileyhilliard/km/internal/errors"
	"github.com/rileyhilliard/km/internal/sshkey"
)

// DeletePair removes both files of a key pair. Each deletion is attempted
// even if the other fails; a file that is already gone counts as success,
// which makes the operation idempotent. Real failures are collected and
// reported together after both attempts.
func (s *Store) DeletePair(req sshkey.DeletionRequest) error {
	if !req.Confirmed() {
		return errors.New(errors.ErrValidation,
			"Deletion not confirmed",
			"Build the request with NewDeletionRequest(record, true).")
	}

	record := req.Record
	var failures []string
	for _, path := range []string{record.PrivatePath, record.PublicPath} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			failures = append(failures, fmt.Sprintf("%s: %v", path, err))
		}
	}

	if len(failures) > 0 {
		return errors.New(errors.ErrDelete,
			fmt.Sprintf("Couldn't fully delete key pair '%s': %s",
				record.Name(), strings.Join(failures, "; ")),
			"Check file permissions and remove the remaining files manually.")
	}

	s.log.Debug("deleted key pair %s", record.Name())
	return nil
}
