package middleware

import (
	"net/http"

	"shopadmin/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TokenCookieName is the HTTP-only cookie the session token travels in.
const TokenCookieName = "token"

type AuthMiddleware struct {
	Tokens *utils.TokenManager
}

// Authenticate is the first stage of the gate: a missing token is
// unauthenticated (401), a present but invalid or expired one is forbidden
// (403). On success the decoded claims are attached to the request context.
func (m AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.Tokens == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "access denied, no token provided")
		}
		cookie, err := c.Cookie(TokenCookieName)
		if err != nil || cookie.Value == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "access denied, no token provided")
		}
		claims, err := m.Tokens.Parse(cookie.Value)
		if err != nil {
			return echo.NewHTTPError(http.StatusForbidden, "invalid token")
		}
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			return echo.NewHTTPError(http.StatusForbidden, "invalid token")
		}
		SetAuthContext(c, userID, claims.Email, claims.Role)
		return next(c)
	}
}
