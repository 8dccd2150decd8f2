package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, secret string, claims UserClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateUserJWT(t *testing.T) {
	const secret = "test-secret"

	signed := signTestToken(t, secret, UserClaims{
		UserID:   "user-123",
		Username: "trader_joe",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := ValidateUserJWT(signed, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "trader_joe", claims.Username)
}

func TestValidateUserJWTWrongSecret(t *testing.T) {
	signed := signTestToken(t, "secret-a", UserClaims{UserID: "u"})

	_, err := ValidateUserJWT(signed, "secret-b")
	assert.Error(t, err)
}

func TestValidateUserJWTExpired(t *testing.T) {
	signed := signTestToken(t, "s", UserClaims{
		UserID: "u",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	_, err := ValidateUserJWT(signed, "s")
	assert.Error(t, err)
}

func TestValidateUserJWTRejectsNonHMAC(t *testing.T) {
	// alg=none style tokens must not pass.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, UserClaims{UserID: "u"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateUserJWT(signed, "s")
	assert.Error(t, err)
}
