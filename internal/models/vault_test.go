package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVaultDocument(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		wantErr       bool
		wantAdminHash string
		wantAccounts  int
	}{
		{
			name:          "full document",
			raw:           `{"admin_hash":"abc","accounts":{"main":{"u":"user1","p":"pw1","category":"Valorant"}}}`,
			wantAdminHash: "abc",
			wantAccounts:  1,
		},
		{
			name:         "missing admin_hash defaults to empty",
			raw:          `{"accounts":{}}`,
			wantAccounts: 0,
		},
		{
			name:          "missing accounts defaults to empty map",
			raw:           `{"admin_hash":"abc"}`,
			wantAdminHash: "abc",
		},
		{
			name: "empty object",
			raw:  `{}`,
		},
		{
			name:          "malformed accounts keeps admin_hash",
			raw:           `{"admin_hash":"abc","accounts":"oops"}`,
			wantAdminHash: "abc",
		},
		{
			name:          "unknown extra fields ignored",
			raw:           `{"admin_hash":"abc","accounts":{},"meta":{"v":2}}`,
			wantAdminHash: "abc",
		},
		{
			name:    "not json at all",
			raw:     `]]]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseVaultDocument([]byte(tt.raw))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, doc.Accounts)
			assert.Equal(t, tt.wantAdminHash, doc.AdminHash)
			assert.Len(t, doc.Accounts, tt.wantAccounts)
		})
	}
}

func TestParseVaultDocumentAccountFields(t *testing.T) {
	doc, err := ParseVaultDocument([]byte(`{"accounts":{"main":{"u":"user1","p":"pw1","category":"Valorant"}}}`))
	require.NoError(t, err)

	acc, ok := doc.Accounts["main"]
	require.True(t, ok)
	assert.Equal(t, "user1", acc.Username)
	assert.Equal(t, "pw1", acc.Password)
	assert.Equal(t, "Valorant", acc.Category)
}

func TestSessionLogout(t *testing.T) {
	sess := NewSession()
	assert.Equal(t, RoleAnonymous, sess.Role)
	assert.False(t, sess.IsAdmin())
	assert.False(t, sess.IsAuthenticated())

	sess.Role = RoleGuest
	sess.MasterKey = "key"
	sess.SelectedAccount = "main"
	assert.True(t, sess.IsAuthenticated())
	assert.False(t, sess.IsAdmin())

	sess.Logout()
	assert.Equal(t, RoleAnonymous, sess.Role)
	assert.Empty(t, sess.MasterKey)
	assert.Empty(t, sess.SelectedAccount)

	sess.Role = RoleAdmin
	assert.True(t, sess.IsAdmin())
}
