package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret")

func TestSignAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	token, err := SignAccessToken(7, "a@x.com", "admin", testSecret, 0)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := AccessClaimsFromToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "7", claims.Subject)
	assert.Nil(t, claims.ExpiresAt, "zero ttl must not set exp")
}

func TestSignAccessToken_WithTTL(t *testing.T) {
	t.Parallel()

	token, err := SignAccessToken(1, "a@x.com", "user", testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(token, testSecret)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestAccessClaimsFromToken_Rejects(t *testing.T) {
	t.Parallel()

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		UserID: 1,
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString(testSecret)
	require.NoError(t, err)

	wrongSecret, err := SignAccessToken(1, "a@x.com", "user", []byte("other"), 0)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, AccessClaims{UserID: 1}).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-jwt"},
		{name: "expired", token: expired},
		{name: "wrong secret", token: wrongSecret},
		{name: "wrong algorithm", token: hs512},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			claims, err := AccessClaimsFromToken(tt.token, testSecret)
			require.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}
