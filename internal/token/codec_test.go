package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweetshop/internal/domain"
	"sweetshop/pkg/logger"
)

const testSecret = "test-secret-key"

func newTestCodec(t *testing.T) *Codec {
	c, err := NewCodec(testSecret, logger.NewNop())
	require.NoError(t, err)
	return c
}

func TestNewCodec_EmptySecret(t *testing.T) {
	c, err := NewCodec("", logger.NewNop())
	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestCodec_MintAndVerify(t *testing.T) {
	c := newTestCodec(t)

	tokenString, err := c.Mint("subject-123", domain.RoleUser)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	cred := c.Verify(tokenString)
	require.NotNil(t, cred)
	assert.Equal(t, "subject-123", cred.SubjectID)
	assert.Equal(t, domain.RoleUser, cred.Role)
	assert.False(t, cred.IsAdmin())
}

func TestCodec_MintAdminRole(t *testing.T) {
	c := newTestCodec(t)

	tokenString, err := c.Mint("admin-1", domain.RoleAdmin)
	require.NoError(t, err)

	cred := c.Verify(tokenString)
	require.NotNil(t, cred)
	assert.True(t, cred.IsAdmin())
}

func TestCodec_MintValidation(t *testing.T) {
	c := newTestCodec(t)

	tests := []struct {
		name      string
		subjectID string
		role      domain.Role
	}{
		{
			name:      "Empty subject",
			subjectID: "",
			role:      domain.RoleUser,
		},
		{
			name:      "Empty role",
			subjectID: "subject-123",
			role:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenString, err := c.Mint(tt.subjectID, tt.role)
			assert.Error(t, err)
			assert.Empty(t, tokenString)
		})
	}
}

func TestCodec_VerifyRejections(t *testing.T) {
	c := newTestCodec(t)

	validToken, err := c.Mint("subject-123", domain.RoleUser)
	require.NoError(t, err)

	other, err := NewCodec("a-different-secret", logger.NewNop())
	require.NoError(t, err)
	foreignToken, err := other.Mint("subject-123", domain.RoleUser)
	require.NoError(t, err)

	// Flip a character inside the signature segment.
	tampered := validToken[:len(validToken)-2] + flipChar(validToken[len(validToken)-2:])

	unknownRole, err := c.Mint("subject-123", domain.Role("SUPERUSER"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "Empty string",
			token: "",
		},
		{
			name:  "Garbage",
			token: "not-a-token",
		},
		{
			name:  "Wrong secret",
			token: foreignToken,
		},
		{
			name:  "Tampered signature",
			token: tampered,
		},
		{
			name:  "Unknown role claim",
			token: unknownRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, c.Verify(tt.token))
		})
	}
}

func TestCodec_ExpiryBoundary(t *testing.T) {
	c := newTestCodec(t)

	mintedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return mintedAt }

	tokenString, err := c.Mint("subject-123", domain.RoleUser)
	require.NoError(t, err)

	tests := []struct {
		name  string
		at    time.Time
		valid bool
	}{
		{
			name:  "Immediately after mint",
			at:    mintedAt.Add(time.Second),
			valid: true,
		},
		{
			name:  "Just inside seven days",
			at:    mintedAt.Add(TTL - time.Hour),
			valid: true,
		},
		{
			name:  "Just past seven days",
			at:    mintedAt.Add(TTL + time.Minute),
			valid: false,
		},
		{
			name:  "Long expired",
			at:    mintedAt.Add(30 * 24 * time.Hour),
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.now = func() time.Time { return tt.at }
			cred := c.Verify(tokenString)
			if tt.valid {
				assert.NotNil(t, cred)
			} else {
				assert.Nil(t, cred)
			}
		})
	}
}

func flipChar(s string) string {
	if strings.HasPrefix(s, "A") {
		return "B" + s[1:]
	}
	return "A" + s[1:]
}
