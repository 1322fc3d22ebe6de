package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// TestTokenRoundtrip issues a token and verifies its subject.
func TestTokenRoundtrip(t *testing.T) {
	t.Parallel()

	manager := NewTokenManager("secret", time.Hour)

	token, err := manager.Issue("admin")
	require.NoError(t, err)

	subject, err := manager.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "admin", subject)
}

// TestVerify_Rejections covers tampered, foreign and expired tokens.
func TestVerify_Rejections(t *testing.T) {
	t.Parallel()

	manager := NewTokenManager("secret", time.Hour)

	_, err := manager.Verify("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)

	foreign, err := NewTokenManager("other-secret", time.Hour).Issue("admin")
	require.NoError(t, err)

	_, err = manager.Verify(foreign)
	require.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewTokenManager("secret", -time.Minute).Issue("admin")
	require.NoError(t, err)

	_, err = manager.Verify(expired)
	require.ErrorIs(t, err, ErrInvalidToken)
}

// TestCredentials_Check covers plaintext and bcrypt password comparison.
func TestCredentials_Check(t *testing.T) {
	t.Parallel()

	plain := Credentials{Username: "admin", Password: "password"}
	require.True(t, plain.Check("admin", "password"))
	require.False(t, plain.Check("admin", "wrong"))
	require.False(t, plain.Check("root", "password"))

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)

	hashed := Credentials{Username: "admin", Password: string(hash)}
	require.True(t, hashed.Check("admin", "password"))
	require.False(t, hashed.Check("admin", "wrong"))
}
