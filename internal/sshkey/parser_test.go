package sshkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/km/internal/errors"
)

func TestParseFingerprintLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want FingerprintInfo
	}{
		{
			name: "rsa key",
			line: "2048 SHA256:abcd user@host (RSA)",
			want: FingerprintInfo{
				BitSize:     2048,
				Fingerprint: "SHA256:abcd",
				Comment:     "user@host",
				Type:        KeyTypeRSA,
			},
		},
		{
			name: "ed25519 key",
			line: "256 SHA256:xyz user@host (ED25519)",
			want: FingerprintInfo{
				BitSize:     256,
				Fingerprint: "SHA256:xyz",
				Comment:     "user@host",
				Type:        KeyTypeEd25519,
			},
		},
		{
			name: "ecdsa lowercase tag",
			line: "256 SHA256:qq deploy (ecdsa)",
			want: FingerprintInfo{
				BitSize:     256,
				Fingerprint: "SHA256:qq",
				Comment:     "deploy",
				Type:        KeyTypeECDSA,
			},
		},
		{
			name: "multi word comment",
			line: "4096 SHA256:ff build server key (RSA)",
			want: FingerprintInfo{
				BitSize:     4096,
				Fingerprint: "SHA256:ff",
				Comment:     "build server key",
				Type:        KeyTypeRSA,
			},
		},
		{
			name: "no comment",
			line: "256 SHA256:bare (ED25519)",
			want: FingerprintInfo{
				BitSize:     256,
				Fingerprint: "SHA256:bare",
				Comment:     "",
				Type:        KeyTypeEd25519,
			},
		},
		{
			name: "unrecognized trailing parens fall back to comment",
			line: "256 SHA256:odd backup (office)",
			want: FingerprintInfo{
				BitSize:     256,
				Fingerprint: "SHA256:odd",
				Comment:     "backup (office)",
				Type:        KeyTypeUnknown,
			},
		},
		{
			name: "no trailing parens at all",
			line: "256 SHA256:odd plain comment",
			want: FingerprintInfo{
				BitSize:     256,
				Fingerprint: "SHA256:odd",
				Comment:     "plain comment",
				Type:        KeyTypeUnknown,
			},
		},
		{
			name: "unparseable bits tolerated",
			line: "??? SHA256:abc user@host (RSA)",
			want: FingerprintInfo{
				BitSize:     0,
				Fingerprint: "SHA256:abc",
				Comment:     "user@host",
				Type:        KeyTypeRSA,
			},
		},
		{
			name: "empty line",
			line: "",
			want: FingerprintInfo{},
		},
		{
			name: "bits only",
			line: "2048",
			want: FingerprintInfo{BitSize: 2048},
		},
		{
			name: "bits and fingerprint only",
			line: "2048 SHA256:abcd",
			want: FingerprintInfo{BitSize: 2048, Fingerprint: "SHA256:abcd"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFingerprintLine(tt.line)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseKeyType(t *testing.T) {
	tests := []struct {
		tag     string
		want    KeyType
		wantErr bool
	}{
		{tag: "RSA", want: KeyTypeRSA},
		{tag: "rsa", want: KeyTypeRSA},
		{tag: "ED25519", want: KeyTypeEd25519},
		{tag: "ed25519", want: KeyTypeEd25519},
		{tag: "ECDSA", want: KeyTypeECDSA},
		{tag: "DSA", wantErr: true},
		{tag: "ED25519-SK", wantErr: true},
		{tag: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := ParseKeyType(tt.tag)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrParse))
				assert.Equal(t, KeyTypeUnknown, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePublicKeyComment(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		want     string
		present  bool
	}{
		{
			name:     "simple comment",
			contents: "ssh-ed25519 AAAA user@host",
			want:     "user@host",
			present:  true,
		},
		{
			name:     "no comment",
			contents: "ssh-ed25519 AAAA",
			present:  false,
		},
		{
			name:     "multi word comment collapses whitespace",
			contents: "ssh-rsa BBBB  work   laptop key\n",
			want:     "work laptop key",
			present:  true,
		},
		{
			name:     "empty input",
			contents: "",
			present:  false,
		},
		{
			name:     "algorithm only",
			contents: "ssh-ed25519",
			present:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, present := ParsePublicKeyComment(tt.contents)
			assert.Equal(t, tt.present, present)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidatePublicKey_Garbage(t *testing.T) {
	_, _, err := ValidatePublicKey([]byte("not a key at all"))

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrParse))
}

func TestKeyTypeDisplay(t *testing.T) {
	assert.Equal(t, "ED25519", KeyTypeEd25519.Display())
	assert.Equal(t, "RSA", KeyTypeRSA.Display())
	assert.Equal(t, "ECDSA", KeyTypeECDSA.Display())
	assert.Equal(t, "unknown", KeyTypeUnknown.Display())
}

func TestKeyTypeFixedSize(t *testing.T) {
	assert.True(t, KeyTypeEd25519.FixedSize())
	assert.True(t, KeyTypeECDSA.FixedSize())
	assert.False(t, KeyTypeRSA.FixedSize())
}
