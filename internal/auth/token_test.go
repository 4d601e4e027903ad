package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/parts-inventory/internal/models"
)

func TestGenerateVerifyRoundTrip(t *testing.T) {
	tokens := NewTokenManager("test-secret", "parts-inventory", time.Hour)

	signed, err := tokens.Generate(models.User{ID: 42, Username: "alice"})
	require.NoError(t, err)

	userID, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestVerifyRejects(t *testing.T) {
	tokens := NewTokenManager("test-secret", "parts-inventory", time.Hour)
	now := time.Now()

	sign := func(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}

	valid := func() jwt.MapClaims {
		return jwt.MapClaims{
			"iss": "parts-inventory",
			"sub": "7",
			"iat": now.Unix(),
			"exp": now.Add(time.Hour).Unix(),
		}
	}

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{name: "garbage", token: func(*testing.T) string { return "not-a-jwt" }},
		{name: "wrong secret", token: func(t *testing.T) string {
			return sign(t, jwt.SigningMethodHS256, []byte("other-secret"), valid())
		}},
		{name: "expired", token: func(t *testing.T) string {
			c := valid()
			c["exp"] = now.Add(-time.Minute).Unix()
			return sign(t, jwt.SigningMethodHS256, []byte("test-secret"), c)
		}},
		{name: "no expiry", token: func(t *testing.T) string {
			c := valid()
			delete(c, "exp")
			return sign(t, jwt.SigningMethodHS256, []byte("test-secret"), c)
		}},
		{name: "wrong issuer", token: func(t *testing.T) string {
			c := valid()
			c["iss"] = "someone-else"
			return sign(t, jwt.SigningMethodHS256, []byte("test-secret"), c)
		}},
		{name: "non numeric subject", token: func(t *testing.T) string {
			c := valid()
			c["sub"] = "alice"
			return sign(t, jwt.SigningMethodHS256, []byte("test-secret"), c)
		}},
		{name: "missing subject", token: func(t *testing.T) string {
			c := valid()
			delete(c, "sub")
			return sign(t, jwt.SigningMethodHS256, []byte("test-secret"), c)
		}},
		{name: "unexpected algorithm", token: func(t *testing.T) string {
			return sign(t, jwt.SigningMethodHS512, []byte("test-secret"), valid())
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.Verify(tt.token(t))
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
