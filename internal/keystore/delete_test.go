package keystore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/km/internal/errors"
	"github.com/rileyhilliard/km/internal/invoke"
	"github.com/rileyhilliard/km/internal/sshkey"
)

func recordAt(dir, name string) sshkey.KeyRecord {
	return sshkey.KeyRecord{
		PrivatePath: filepath.Join(dir, name),
		PublicPath:  filepath.Join(dir, name+".pub"),
	}
}

func TestDeletePair_RemovesBothFiles(t *testing.T) {
	dir := t.TempDir()
	writePair(t, dir, "doomed", "ssh-ed25519 AAAA x\n")

	s := testStore(dir, invoke.NewFakeRunner())
	req, err := sshkey.NewDeletionRequest(recordAt(dir, "doomed"), true)
	require.NoError(t, err)

	require.NoError(t, s.DeletePair(req))

	_, err = os.Stat(filepath.Join(dir, "doomed"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "doomed.pub"))
	assert.True(t, os.IsNotExist(err))
}

func TestDeletePair_MissingFilesAreFine(t *testing.T) {
	dir := t.TempDir()
	s := testStore(dir, invoke.NewFakeRunner())

	req, err := sshkey.NewDeletionRequest(recordAt(dir, "already_gone"), true)
	require.NoError(t, err)

	assert.NoError(t, s.DeletePair(req), "deletion is idempotent")
	assert.NoError(t, s.DeletePair(req), "repeating it stays fine")
}

func TestDeletePair_HalfGonePair(t *testing.T) {
	dir := t.TempDir()
	// Private key present, public half already gone.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "half"), []byte("key"), 0o600))

	s := testStore(dir, invoke.NewFakeRunner())
	req, err := sshkey.NewDeletionRequest(recordAt(dir, "half"), true)
	require.NoError(t, err)

	require.NoError(t, s.DeletePair(req))
	_, statErr := os.Stat(filepath.Join(dir, "half"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDeletePair_UnconfirmedZeroValueRejected(t *testing.T) {
	s := testStore(t.TempDir(), invoke.NewFakeRunner())

	// A zero-value request never gets past the confirmation gate.
	err := s.DeletePair(sshkey.DeletionRequest{})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrValidation))
}

func TestNewDeletionRequest_RequiresConfirmation(t *testing.T) {
	_, err := sshkey.NewDeletionRequest(recordAt(t.TempDir(), "k"), false)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrValidation))
}
