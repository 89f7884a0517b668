package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopadmin/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateRequest(t *testing.T, cookie string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestAuthenticate_MissingToken(t *testing.T) {
	manager := utils.TokenManager{Secret: []byte("test-secret")}
	gate := AuthMiddleware{Tokens: &manager}

	c, _ := newGateRequest(t, "")
	err := gate.Authenticate(okHandler)(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	manager := utils.TokenManager{Secret: []byte("test-secret")}
	gate := AuthMiddleware{Tokens: &manager}

	c, _ := newGateRequest(t, "garbage")
	err := gate.Authenticate(okHandler)(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	userID := uuid.New()
	issuer := utils.TokenManager{Secret: []byte("test-secret"), TokenTTL: -time.Minute}
	token, _, err := issuer.Issue(userID.String(), "a@x.com", "user")
	require.NoError(t, err)

	verifier := utils.TokenManager{Secret: []byte("test-secret")}
	gate := AuthMiddleware{Tokens: &verifier}

	c, _ := newGateRequest(t, token)
	gateErr := gate.Authenticate(okHandler)(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, gateErr, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}

func TestAuthenticate_ValidTokenAttachesClaims(t *testing.T) {
	userID := uuid.New()
	manager := utils.TokenManager{Secret: []byte("test-secret")}
	token, _, err := manager.Issue(userID.String(), "a@x.com", "admin")
	require.NoError(t, err)

	gate := AuthMiddleware{Tokens: &manager}
	c, rec := newGateRequest(t, token)
	require.NoError(t, gate.Authenticate(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	gotID, ok := UserIDFromContext(c)
	require.True(t, ok)
	assert.Equal(t, userID, gotID)

	email, ok := EmailFromContext(c)
	require.True(t, ok)
	assert.Equal(t, "a@x.com", email)

	role, ok := RoleFromContext(c)
	require.True(t, ok)
	assert.Equal(t, "admin", role)
}

func TestRequireAdmin(t *testing.T) {
	e := echo.New()

	run := func(role string, set bool) error {
		req := httptest.NewRequest(http.MethodPost, "/admin", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		if set {
			SetAuthContext(c, uuid.New(), "a@x.com", role)
		}
		return RequireAdmin(okHandler)(c)
	}

	var httpErr *echo.HTTPError

	err := run("user", true)
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)

	err = run("", false)
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)

	assert.NoError(t, run("admin", true))
}
