package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKey(t *testing.T) {
	encoded, err := GenerateKey()
	require.NoError(t, err)

	key, err := DecodeKey(encoded)
	require.NoError(t, err)
	assert.Len(t, key, KeySize)

	// Два ключа подряд не должны совпадать
	other, err := GenerateKey()
	require.NoError(t, err)
	assert.NotEqual(t, encoded, other)
}

func TestDecodeKey(t *testing.T) {
	raw := make([]byte, KeySize)
	for i := range raw {
		raw[i] = byte(i * 7)
	}

	tests := []struct {
		name    string
		encoded string
		wantErr bool
	}{
		{name: "urlsafe base64", encoded: base64.URLEncoding.EncodeToString(raw)},
		{name: "standard base64", encoded: base64.StdEncoding.EncodeToString(raw)},
		{name: "empty", encoded: "", wantErr: true},
		{name: "garbage", encoded: "@@@@", wantErr: true},
		{name: "wrong length", encoded: base64.URLEncoding.EncodeToString(raw[:16]), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := DecodeKey(tt.encoded)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, raw, key)
		})
	}
}

func TestDecodeKeyGenerated(t *testing.T) {
	// Ключ, сгенерированный GenerateKey, всегда декодируется обратно
	encoded, err := GenerateKey()
	require.NoError(t, err)

	key, err := DecodeKey(encoded)
	require.NoError(t, err)
	assert.Len(t, key, KeySize)
}
