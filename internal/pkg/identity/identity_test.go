package identity

import (
	"errors"
	"testing"

	"github.com/mkrfoods/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"lowercases", "User@X.COM", "user@x.com", false},
		{"trims whitespace", "  a@b.co \n", "a@b.co", false},
		{"empty", "", "", true},
		{"missing domain", "user@", "", true},
		{"missing tld", "user@host", "", true},
		{"embedded space", "us er@x.com", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeEmail(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrBadRequest))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"valid", "9876543210", "+919876543210", false},
		{"trims whitespace", " 6123456789 ", "+916123456789", false},
		{"empty", "", "", true},
		{"too short", "987654321", "", true},
		{"too long", "98765432101", "", true},
		{"bad leading digit", "1234567890", "", true},
		{"already prefixed", "+919876543210", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrBadRequest))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
