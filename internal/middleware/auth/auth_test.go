package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/kaii_store/internal/tokens"
)

var secret = []byte("mw-secret")

func run(t *testing.T, header string, chain func(echo.HandlerFunc) echo.HandlerFunc) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	c := e.NewContext(req, httptest.NewRecorder())
	err := chain(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	return c, err
}

func assertHTTPCode(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, code, he.Code)
}

func TestRequireAuth(t *testing.T) {
	a := NewAuthenticator(secret)
	valid, err := tokens.SignAccessToken(3, "u@x.com", "user", secret, 0)
	require.NoError(t, err)
	foreign, err := tokens.SignAccessToken(3, "u@x.com", "user", []byte("other"), 0)
	require.NoError(t, err)

	t.Run("missing header", func(t *testing.T) {
		_, err := run(t, "", a.RequireAuth)
		assertHTTPCode(t, err, http.StatusUnauthorized)
	})

	t.Run("scheme without token", func(t *testing.T) {
		_, err := run(t, "Bearer", a.RequireAuth)
		assertHTTPCode(t, err, http.StatusUnauthorized)
	})

	t.Run("bad signature", func(t *testing.T) {
		_, err := run(t, "Bearer "+foreign, a.RequireAuth)
		assertHTTPCode(t, err, http.StatusForbidden)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := run(t, "Bearer abc.def.ghi", a.RequireAuth)
		assertHTTPCode(t, err, http.StatusForbidden)
	})

	t.Run("valid", func(t *testing.T) {
		c, err := run(t, "Bearer "+valid, a.RequireAuth)
		require.NoError(t, err)
		assert.Equal(t, uint(3), UserID(c))
		assert.Equal(t, "user", Role(c))
		assert.Equal(t, "u@x.com", c.Get(CtxEmail))
	})
}

func TestRequireAuth_TokenWithoutUser(t *testing.T) {
	a := NewAuthenticator(secret)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokens.AccessClaims{Role: "admin"}).SignedString(secret)
	require.NoError(t, err)

	_, err = run(t, "Bearer "+tok, a.RequireAuth)
	assertHTTPCode(t, err, http.StatusForbidden)
}

func TestRequireAdmin(t *testing.T) {
	a := NewAuthenticator(secret)
	chain := func(next echo.HandlerFunc) echo.HandlerFunc { return a.RequireAuth(a.RequireAdmin(next)) }

	user, err := tokens.SignAccessToken(3, "u@x.com", "user", secret, 0)
	require.NoError(t, err)
	admin, err := tokens.SignAccessToken(1, "admin@kaii.com", "admin", secret, 0)
	require.NoError(t, err)

	_, err = run(t, "Bearer "+user, chain)
	assertHTTPCode(t, err, http.StatusForbidden)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "admin only", he.Message)

	c, err := run(t, "Bearer "+admin, chain)
	require.NoError(t, err)
	assert.Equal(t, uint(1), UserID(c))
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("  Bearer   abc "))
	assert.Equal(t, "", bearerToken("Bearer"))
	assert.Equal(t, "", bearerToken(""))
}
