package security

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidToken is returned when a token fails signature or claim checks.
	ErrInvalidToken = errors.New("invalid token")
	// errUnexpectedSigningMethod guards against algorithm substitution.
	errUnexpectedSigningMethod = errors.New("unexpected signing method")
)

// TokenManager issues and verifies admin session tokens (HS256 JWT).
type TokenManager struct {
	// secret signs and verifies tokens.
	secret []byte
	// ttl is the token lifetime.
	ttl time.Duration
}

// NewTokenManager creates a manager with the provided signing secret and token lifetime.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue returns a signed token whose subject is the provided username.
func (m *TokenManager) Issue(username string) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify validates the token and returns its subject.
func (m *TokenManager) Verify(tokenString string) (string, error) {
	claims := new(jwt.RegisteredClaims)

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errUnexpectedSigningMethod
		}

		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

// Credentials verifies the single admin account.
type Credentials struct {
	// Username is the admin account name.
	Username string
	// Password is either a bcrypt hash (prefix "$2") or a plaintext secret.
	Password string
}

// Check reports whether the supplied username and password match the account.
// Plaintext comparison runs in constant time.
func (c Credentials) Check(username, password string) bool {
	if subtle.ConstantTimeCompare([]byte(c.Username), []byte(username)) != 1 {
		return false
	}

	if strings.HasPrefix(c.Password, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(c.Password), []byte(password)) == nil
	}

	return subtle.ConstantTimeCompare([]byte(c.Password), []byte(password)) == 1
}
