package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoangnqjl/MaroMart/internal/errs"
)

func signHS256(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestVerifyHS256(t *testing.T) {
	v, err := NewJWTVerifier("HS256", "test-secret", "")
	require.NoError(t, err)

	token := signHS256(t, "test-secret", jwt.MapClaims{
		"sub":  "user-1",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	id, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.Subject)
	assert.Equal(t, "admin", id.Role)
}

func TestVerifyLegacyUserIDClaim(t *testing.T) {
	v, err := NewJWTVerifier("HS256", "test-secret", "")
	require.NoError(t, err)

	token := signHS256(t, "test-secret", jwt.MapClaims{
		"user_id": "user-2",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	id, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-2", id.Subject)
}

func TestVerifyRejections(t *testing.T) {
	v, err := NewJWTVerifier("HS256", "test-secret", "")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", signHS256(t, "other-secret", jwt.MapClaims{"sub": "u"})},
		{"expired", signHS256(t, "test-secret", jwt.MapClaims{
			"sub": "u", "exp": time.Now().Add(-time.Hour).Unix(),
		})},
		{"missing subject", signHS256(t, "test-secret", jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		})},
		{"garbage", "not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			assert.ErrorIs(t, err, errs.ErrInvalidCredential)
		})
	}
}

func TestNewJWTVerifierConfigErrors(t *testing.T) {
	_, err := NewJWTVerifier("HS256", "", "")
	assert.Error(t, err)

	_, err = NewJWTVerifier("ES512", "x", "")
	assert.Error(t, err)
}
