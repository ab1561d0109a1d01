//go:build unit

package jwt_test

import (
	"testing"
	"time"

	upjwt "availability-engine/internal/pkg/jwt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("upstream-secret"))
	require.NoError(t, err)
	return token
}

func TestExpiresAt(t *testing.T) {
	t.Run("reads exp claim", func(t *testing.T) {
		exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
		token := sign(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})

		actual, err := upjwt.ExpiresAt(token)

		require.NoError(t, err)
		assert.True(t, exp.Equal(actual))
	})

	t.Run("missing exp claim", func(t *testing.T) {
		token := sign(t, jwt.RegisteredClaims{Subject: "account"})

		_, err := upjwt.ExpiresAt(token)

		require.ErrorIs(t, err, upjwt.ErrNoExpiry)
	})

	t.Run("opaque token", func(t *testing.T) {
		_, err := upjwt.ExpiresAt("not-a-jwt")

		require.ErrorIs(t, err, upjwt.ErrInvalidToken)
	})
}
