package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saksham-w/askme/internal/models"
)

func TestIssueCode_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := issueCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, c := range code {
			require.True(t, c >= '0' && c <= '9', "code %q contains non-digit", code)
		}
		require.GreaterOrEqual(t, code, "100000")
		require.LessOrEqual(t, code, "999999")
	}
}

func TestCodeValid(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	user := &models.User{
		VerifyCode:       "123456",
		VerifyCodeExpiry: now.Add(time.Hour),
	}

	tests := []struct {
		name      string
		submitted string
		at        time.Time
		want      bool
	}{
		{"matching code before expiry", "123456", now, true},
		{"matching code just before expiry", "123456", now.Add(time.Hour - time.Second), true},
		{"matching code at expiry", "123456", now.Add(time.Hour), false},
		{"matching code after expiry", "123456", now.Add(2 * time.Hour), false},
		{"wrong code before expiry", "654321", now, false},
		{"empty code", "", now, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, codeValid(user, tt.submitted, tt.at))
		})
	}
}
