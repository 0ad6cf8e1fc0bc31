package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kaii_store/internal/logging"
	"github.com/Skotchmaster/kaii_store/internal/models"
	"github.com/Skotchmaster/kaii_store/internal/tokens"
)

const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
	CtxRole   = "role"
)

type Authenticator struct {
	JWTSecret []byte
}

func NewAuthenticator(secret []byte) *Authenticator {
	return &Authenticator{JWTSecret: secret}
}

// RequireAuth accepts "Authorization: Bearer <token>". A missing token is 401,
// a token that fails verification is 403.
func (a *Authenticator) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(raw, a.JWTSecret)
		if err != nil || claims == nil || claims.UserID == 0 {
			logging.FromContext(c.Request().Context()).Warn("auth_rejected", "reason", "invalid_token", "error", err)
			return echo.NewHTTPError(http.StatusForbidden, "invalid or expired token")
		}

		setUserContext(c, claims)
		return next(c)
	}
}

// RequireAdmin must run after RequireAuth.
func (a *Authenticator) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if Role(c) != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin only")
		}
		return next(c)
	}
}

// bearerToken returns the part after the first space, like the split the
// storefront client expects.
func bearerToken(header string) string {
	_, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set(CtxUserID, claims.UserID)
	c.Set(CtxEmail, claims.Email)
	c.Set(CtxRole, claims.Role)

	l := logging.FromContext(c.Request().Context()).With("user_id", claims.UserID)
	c.SetRequest(c.Request().WithContext(logging.IntoContext(c.Request().Context(), l)))
}

func UserID(c echo.Context) uint {
	id, _ := c.Get(CtxUserID).(uint)
	return id
}

func Role(c echo.Context) string {
	role, _ := c.Get(CtxRole).(string)
	return role
}
