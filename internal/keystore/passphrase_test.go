package keystore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/km/internal/errors"
	"github.com/rileyhilliard/km/internal/invoke"
	"github.com/rileyhilliard/km/internal/sshkey"
)

func TestChangePassphrase_StdinScript(t *testing.T) {
	tests := []struct {
		name    string
		current string
		next    string
		want    string
	}{
		{"change", "old", "new", "old\nnew\nnew\n"},
		{"add to unprotected key", "", "new", "\nnew\nnew\n"},
		{"remove protection", "old", "", "old\n\n\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writePair(t, dir, "k", "ssh-ed25519 AAAA x\n")

			runner := invoke.NewFakeRunner()
			s := testStore(dir, runner)

			err := s.ChangePassphrase(context.Background(), sshkey.PassphraseChangeRequest{
				Record:  recordAt(dir, "k"),
				Current: tt.current,
				New:     tt.next,
			})
			require.NoError(t, err)

			require.Len(t, runner.Calls, 1)
			call := runner.Calls[0]
			assert.Equal(t, []string{"ssh-keygen", "-p", "-f", recordAt(dir, "k").PrivatePath}, call.Argv)
			assert.Equal(t, tt.want, string(call.Stdin))
		})
	}
}

func TestChangePassphrase_AppliesTimeout(t *testing.T) {
	dir := t.TempDir()
	writePair(t, dir, "k", "ssh-ed25519 AAAA x\n")

	runner := invoke.NewFakeRunner()
	s := testStore(dir, runner)

	err := s.ChangePassphrase(context.Background(), sshkey.PassphraseChangeRequest{
		Record: recordAt(dir, "k"),
	})
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, runner.Calls[0].Timeout)
}

func TestChangePassphrase_MissingKey(t *testing.T) {
	dir := t.TempDir()
	runner := invoke.NewFakeRunner()
	s := testStore(dir, runner)

	err := s.ChangePassphrase(context.Background(), sshkey.PassphraseChangeRequest{
		Record: recordAt(dir, "gone"),
	})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrNotFound))
	assert.Empty(t, runner.Calls, "missing key fails before invoking the tool")
}

func TestChangePassphrase_WrongCurrentSurfacesStderr(t *testing.T) {
	dir := t.TempDir()
	writePair(t, dir, "k", "ssh-ed25519 AAAA x\n")

	runner := invoke.NewFakeRunner().
		On("ssh-keygen -p", invoke.FakeResponse{
			ExitCode: 1,
			Stderr:   "Failed to load key: incorrect passphrase supplied to decrypt private key",
		})
	s := testStore(dir, runner)

	err := s.ChangePassphrase(context.Background(), sshkey.PassphraseChangeRequest{
		Record:  recordAt(dir, "k"),
		Current: "wrong",
		New:     "new",
	})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrTool))
	assert.Contains(t, errors.StderrOf(err), "incorrect passphrase")
}
