package sshkey

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/km/internal/errors"
)

func TestNewGenerationRequest_Defaults(t *testing.T) {
	req, err := NewGenerationRequest(KeyTypeUnknown, "id_test", "", "", 0)

	require.NoError(t, err)
	assert.Equal(t, KeyTypeEd25519, req.Type, "type should default to ed25519")
	assert.Zero(t, req.RSABits)
}

func TestNewGenerationRequest_RSABitsNormalizedForNonRSA(t *testing.T) {
	req, err := NewGenerationRequest(KeyTypeEd25519, "id_test", "", "", 4096)

	require.NoError(t, err)
	assert.Zero(t, req.RSABits, "rsa bits must be discarded for ed25519")

	req, err = NewGenerationRequest(KeyTypeECDSA, "id_test", "", "", 4096)
	require.NoError(t, err)
	assert.Zero(t, req.RSABits, "rsa bits must be discarded for ecdsa")
}

func TestNewGenerationRequest_RSABits(t *testing.T) {
	for _, bits := range []int{2048, 3072, 4096, 8192} {
		req, err := NewGenerationRequest(KeyTypeRSA, "id_rsa_test", "", "", bits)
		require.NoError(t, err)
		assert.Equal(t, bits, req.RSABits)
	}

	// Default applied when unspecified
	req, err := NewGenerationRequest(KeyTypeRSA, "id_rsa_test", "", "", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultRSABits, req.RSABits)

	// Out-of-set sizes rejected
	for _, bits := range []int{1024, 2049, 16384, -1} {
		_, err := NewGenerationRequest(KeyTypeRSA, "id_rsa_test", "", "", bits)
		require.Error(t, err, "bits=%d", bits)
		assert.True(t, errors.IsCode(err, errors.ErrValidation))
	}
}

func TestNewGenerationRequest_InvalidType(t *testing.T) {
	_, err := NewGenerationRequest(KeyType("dsa"), "id_test", "", "", 0)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrValidation))
}

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantErr  bool
	}{
		{name: "simple", filename: "id_ed25519"},
		{name: "with dots and dashes", filename: "work-laptop.2024"},
		{name: "single char", filename: "k"},
		{name: "max length", filename: strings.Repeat("a", 255)},
		{name: "empty", filename: "", wantErr: true},
		{name: "too long", filename: strings.Repeat("a", 256), wantErr: true},
		{name: "leading dot", filename: ".hidden", wantErr: true},
		{name: "leading dash", filename: "-flag", wantErr: true},
		{name: "path separator", filename: "dir/key", wantErr: true},
		{name: "parent traversal", filename: "../escape", wantErr: true},
		{name: "space", filename: "my key", wantErr: true},
		{name: "shell metachars", filename: "key;rm", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.filename)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrValidation))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewDeploymentRequest_Validation(t *testing.T) {
	record := KeyRecord{PublicPath: "/home/x/.ssh/id_ed25519.pub"}

	_, err := NewDeploymentRequest(record, "", "alice", 22)
	assert.True(t, errors.IsCode(err, errors.ErrValidation), "empty hostname")

	_, err = NewDeploymentRequest(record, "example.com", "", 22)
	assert.True(t, errors.IsCode(err, errors.ErrValidation), "empty username")

	_, err = NewDeploymentRequest(record, "example.com", "alice", 70000)
	assert.True(t, errors.IsCode(err, errors.ErrValidation), "port out of range")

	_, err = NewDeploymentRequest(record, "example.com", "alice", -1)
	assert.True(t, errors.IsCode(err, errors.ErrValidation), "negative port")

	req, err := NewDeploymentRequest(record, "example.com", "alice", 0)
	require.NoError(t, err)
	assert.Equal(t, 22, req.Port, "port should default to 22")
}

func TestDeploymentRequest_Command(t *testing.T) {
	record := KeyRecord{PublicPath: "/home/x/.ssh/id_ed25519.pub"}

	req, err := NewDeploymentRequest(record, "example.com", "alice", 22)
	require.NoError(t, err)
	assert.Equal(t,
		"ssh-copy-id -i /home/x/.ssh/id_ed25519.pub alice@example.com",
		req.Command())

	req, err = NewDeploymentRequest(record, "example.com", "alice", 2222)
	require.NoError(t, err)
	assert.Equal(t,
		"ssh-copy-id -i /home/x/.ssh/id_ed25519.pub -p 2222 alice@example.com",
		req.Command())
}

func TestDeploymentRequest_Argv(t *testing.T) {
	record := KeyRecord{PublicPath: "/home/x/.ssh/key.pub"}

	req, err := NewDeploymentRequest(record, "host", "bob", 22)
	require.NoError(t, err)
	assert.Equal(t, []string{"ssh-copy-id", "-i", "/home/x/.ssh/key.pub", "bob@host"}, req.Argv())

	req, err = NewDeploymentRequest(record, "host", "bob", 2200)
	require.NoError(t, err)
	assert.Equal(t, []string{"ssh-copy-id", "-i", "/home/x/.ssh/key.pub", "-p", "2200", "bob@host"}, req.Argv())
}

func TestNewDeletionRequest_RequiresConfirmation(t *testing.T) {
	record := KeyRecord{PrivatePath: "/home/x/.ssh/id_test"}

	_, err := NewDeletionRequest(record, false)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrValidation))

	req, err := NewDeletionRequest(record, true)
	require.NoError(t, err)
	assert.True(t, req.Confirmed())
}

func TestDeletionRequest_ZeroValueNotConfirmed(t *testing.T) {
	var req DeletionRequest
	assert.False(t, req.Confirmed())
}

func TestKeyRecordName(t *testing.T) {
	r := KeyRecord{PrivatePath: "/home/x/.ssh/id_ed25519"}
	assert.Equal(t, "id_ed25519", r.Name())
}
