package deploy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/km/internal/errors"
)

func TestClassifyFatal(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		wantNil bool
		wantMsg string
	}{
		{
			name:    "permission denied",
			output:  "alice@example.com: Permission denied (publickey,password).",
			wantMsg: "Permission denied by alice@example.com",
		},
		{
			name:    "connection refused",
			output:  "ssh: connect to host example.com port 22: Connection refused",
			wantMsg: "Connection refused by alice@example.com",
		},
		{
			name:    "no route",
			output:  "ssh: connect to host example.com port 22: No route to host",
			wantMsg: "No route to alice@example.com",
		},
		{
			name:    "host key verification",
			output:  "Host key verification failed.",
			wantMsg: "Host key verification failed for alice@example.com",
		},
		{
			name:    "unresolvable hostname",
			output:  "ssh: Could not resolve hostname example.com: Name or service not known",
			wantMsg: "Can't resolve hostname alice@example.com",
		},
		{
			name:    "clean output",
			output:  "Number of key(s) added: 1",
			wantNil: true,
		},
		{
			name:    "empty output",
			output:  "",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyFatal(tt.output, "alice@example.com")
			if tt.wantNil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrTool))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestClassifyFatal_VerificationBeatsDenied(t *testing.T) {
	// Both markers present: host key problems explain the denial and
	// must win.
	output := "Host key verification failed.\nPermission denied"
	err := classifyFatal(output, "host")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Host key verification failed")
}

func TestHasPasswordPrompt(t *testing.T) {
	assert.True(t, hasPasswordPrompt("alice@example.com's password: "))
	assert.True(t, hasPasswordPrompt("Password: "))
	assert.False(t, hasPasswordPrompt("Number of key(s) added: 1"))
	assert.False(t, hasPasswordPrompt(""))
}

func TestHasHostKeyPrompt(t *testing.T) {
	assert.True(t, hasHostKeyPrompt(
		"The authenticity of host 'example.com' can't be established.\n"+
			"Are you sure you want to continue connecting (yes/no/[fingerprint])? "))
	assert.False(t, hasHostKeyPrompt("password: "))
}

func TestPromptCancelled_Code(t *testing.T) {
	assert.True(t, errors.IsCode(PromptCancelled, errors.ErrCancelled))
}
