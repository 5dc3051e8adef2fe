package sshkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(name string, t KeyType) KeyRecord {
	return KeyRecord{
		PrivatePath: "/home/alice/.ssh/" + name,
		PublicPath:  "/home/alice/.ssh/" + name + ".pub",
		Type:        t,
	}
}

func TestPreferredKey(t *testing.T) {
	tests := []struct {
		name    string
		records []KeyRecord
		want    string
	}{
		{
			name:    "ed25519 beats rsa",
			records: []KeyRecord{rec("id_rsa", KeyTypeRSA), rec("id_ed25519", KeyTypeEd25519)},
			want:    "id_ed25519",
		},
		{
			name:    "ecdsa beats rsa",
			records: []KeyRecord{rec("id_rsa", KeyTypeRSA), rec("id_ecdsa", KeyTypeECDSA)},
			want:    "id_ecdsa",
		},
		{
			name:    "rsa only",
			records: []KeyRecord{rec("id_rsa", KeyTypeRSA)},
			want:    "id_rsa",
		},
		{
			name:    "name breaks ties",
			records: []KeyRecord{rec("work", KeyTypeEd25519), rec("home", KeyTypeEd25519)},
			want:    "home",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PreferredKey(tt.records)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Name())
		})
	}
}

func TestPreferredKey_Empty(t *testing.T) {
	assert.Nil(t, PreferredKey(nil))
}
