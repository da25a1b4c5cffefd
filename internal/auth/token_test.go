package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret")

	tok, err := m.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestTokenExpiryBoundary(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	m := NewTokenManager("test-secret")
	m.now = func() time.Time { return issued }

	tok, err := m.Issue("user-123")
	require.NoError(t, err)

	// One second before expiry the token still verifies.
	m.now = func() time.Time { return issued.Add(SessionTTL - time.Second) }
	userID, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)

	// One second after expiry it fails with the expiry sentinel.
	m.now = func() time.Time { return issued.Add(SessionTTL + time.Second) }
	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenWrongSecret(t *testing.T) {
	tok, err := NewTokenManager("right-secret").Issue("user-123")
	require.NoError(t, err)

	_, err = NewTokenManager("wrong-secret").Verify(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenGarbage(t *testing.T) {
	m := NewTokenManager("test-secret")

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		_, err := m.Verify(tok)
		assert.ErrorIs(t, err, ErrTokenInvalid, "token %q", tok)
	}
}

func TestTokenMissingUserID(t *testing.T) {
	m := NewTokenManager("test-secret")

	tok, err := m.Issue("")
	require.NoError(t, err)

	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
