package keystore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/km/internal/errors"
	"github.com/rileyhilliard/km/internal/invoke"
	"github.com/rileyhilliard/km/internal/sshkey"
)

// recordingDeployer captures what the store hands to its strategy.
type recordingDeployer struct {
	req      sshkey.DeploymentRequest
	provider PasswordProvider
	err      error
	calls    int
}

func (d *recordingDeployer) Deploy(_ context.Context, req sshkey.DeploymentRequest, password PasswordProvider) error {
	d.calls++
	d.req = req
	d.provider = password
	return d.err
}

func TestCopyToServer_DelegatesToDeployer(t *testing.T) {
	dir := t.TempDir()
	writePair(t, dir, "k", "ssh-ed25519 AAAA x\n")

	dep := &recordingDeployer{}
	s := New(dir, WithRunner(invoke.NewFakeRunner()), WithDeployer(dep))

	req, err := sshkey.NewDeploymentRequest(recordAt(dir, "k"), "example.com", "alice", 0)
	require.NoError(t, err)

	provider := func() (string, error) { return "pw", nil }
	require.NoError(t, s.CopyToServer(context.Background(), req, provider))

	assert.Equal(t, 1, dep.calls)
	assert.Equal(t, "alice@example.com", dep.req.Destination())
	require.NotNil(t, dep.provider)
	pw, _ := dep.provider()
	assert.Equal(t, "pw", pw)
}

func TestCopyToServer_MissingPublicKey(t *testing.T) {
	dir := t.TempDir()
	dep := &recordingDeployer{}
	s := New(dir, WithRunner(invoke.NewFakeRunner()), WithDeployer(dep))

	req, err := sshkey.NewDeploymentRequest(recordAt(dir, "gone"), "example.com", "alice", 0)
	require.NoError(t, err)

	err = s.CopyToServer(context.Background(), req, nil)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrNotFound))
	assert.Zero(t, dep.calls, "precondition failure must not reach the strategy")
}

func TestCopyToServer_NoDeployerConfigured(t *testing.T) {
	dir := t.TempDir()
	writePair(t, dir, "k", "ssh-ed25519 AAAA x\n")

	s := testStore(dir, invoke.NewFakeRunner())
	req, err := sshkey.NewDeploymentRequest(recordAt(dir, "k"), "example.com", "alice", 0)
	require.NoError(t, err)

	err = s.CopyToServer(context.Background(), req, nil)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestDeployCommand(t *testing.T) {
	dir := t.TempDir()
	s := testStore(dir, invoke.NewFakeRunner())

	rec := sshkey.KeyRecord{PublicPath: "/home/a/.ssh/id_ed25519.pub"}

	req, err := sshkey.NewDeploymentRequest(rec, "example.com", "alice", 0)
	require.NoError(t, err)
	assert.Equal(t, "ssh-copy-id -i /home/a/.ssh/id_ed25519.pub alice@example.com",
		s.DeployCommand(req))

	req, err = sshkey.NewDeploymentRequest(rec, "example.com", "alice", 2222)
	require.NoError(t, err)
	assert.Equal(t, "ssh-copy-id -i /home/a/.ssh/id_ed25519.pub -p 2222 alice@example.com",
		s.DeployCommand(req))
}
