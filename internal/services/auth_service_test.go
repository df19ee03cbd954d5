package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"translinka-backend/internal/domain"
)

func newAuth() *AuthService {
	return NewAuthService(NewMemoryUserStore(), "test-secret", time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	auth := newAuth()

	user, token, err := auth.Register("Alice Uwimana", "Alice@Example.com", "0780000001", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEmpty(t, token)

	logged, token2, err := auth.Login("alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.NotEmpty(t, token2)
}

func TestRegister_Validation(t *testing.T) {
	auth := newAuth()

	_, _, err := auth.Register("", "alice@example.com", "", "s3cret-pass")
	assert.True(t, domain.IsValidation(err))

	_, _, err = auth.Register("Alice", "not-an-email", "", "s3cret-pass")
	assert.True(t, domain.IsValidation(err))

	_, _, err = auth.Register("Alice", "alice@example.com", "", "short")
	assert.True(t, domain.IsValidation(err))

	_, _, err = auth.Register("Alice", "alice@example.com", "nope", "s3cret-pass")
	assert.True(t, domain.IsValidation(err))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	auth := newAuth()

	_, _, err := auth.Register("Alice", "alice@example.com", "", "s3cret-pass")
	require.NoError(t, err)

	_, _, err = auth.Register("Alice Again", "ALICE@example.com", "", "another-pass")
	assert.True(t, domain.IsConflict(err))
}

func TestLogin_BadCredentials(t *testing.T) {
	auth := newAuth()

	_, _, err := auth.Register("Alice", "alice@example.com", "", "s3cret-pass")
	require.NoError(t, err)

	// Wrong password and unknown email fail the same way.
	_, _, err = auth.Login("alice@example.com", "wrong-pass")
	assert.True(t, domain.IsValidation(err))

	_, _, err = auth.Login("nobody@example.com", "s3cret-pass")
	assert.True(t, domain.IsValidation(err))
}

func TestParseToken(t *testing.T) {
	auth := newAuth()

	user, token, err := auth.Register("Alice", "alice@example.com", "", "s3cret-pass")
	require.NoError(t, err)

	userID, role, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, domain.RoleUser, role)

	_, _, err = auth.ParseToken("garbage")
	assert.True(t, domain.IsValidation(err))

	// A token signed with a different secret is rejected.
	other := NewAuthService(NewMemoryUserStore(), "other-secret", time.Hour)
	_, _, err = other.ParseToken(token)
	assert.True(t, domain.IsValidation(err))
}

func TestParseToken_Expired(t *testing.T) {
	auth := NewAuthService(NewMemoryUserStore(), "test-secret", -time.Minute)

	_, token, err := auth.Register("Alice", "alice@example.com", "", "s3cret-pass")
	require.NoError(t, err)

	_, _, err = auth.ParseToken(token)
	assert.True(t, domain.IsValidation(err))
}
