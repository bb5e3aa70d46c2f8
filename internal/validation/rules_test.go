package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAlias(t *testing.T) {
	tests := []struct {
		name    string
		alias   string
		wantErr bool
	}{
		{name: "simple", alias: "my-cs2-account", wantErr: false},
		{name: "with spaces inside", alias: "main smurf", wantErr: false},
		{name: "unicode", alias: "основной", wantErr: false},
		{name: "max length", alias: strings.Repeat("a", MaxAliasLen), wantErr: false},
		{name: "empty", alias: "", wantErr: true},
		{name: "too long", alias: strings.Repeat("a", MaxAliasLen+1), wantErr: true},
		{name: "leading space", alias: " padded", wantErr: true},
		{name: "trailing space", alias: "padded ", wantErr: true},
		{name: "control character", alias: "bad\x00alias", wantErr: true},
		{name: "newline", alias: "two\nlines", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAlias(tt.alias)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateAdminPassword(t *testing.T) {
	assert.NoError(t, ValidateAdminPassword("longenough"))
	assert.NoError(t, ValidateAdminPassword(strings.Repeat("a", MinAdminPasswordLen)))
	assert.Error(t, ValidateAdminPassword(""))
	assert.Error(t, ValidateAdminPassword("short"))
	assert.Error(t, ValidateAdminPassword(strings.Repeat("a", MinAdminPasswordLen-1)))
}
