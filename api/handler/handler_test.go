package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"shopadmin/api/middleware"
	"shopadmin/internal/dto"
	"shopadmin/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, url string, body any, cookies []*http.Cookie) *http.Response {
	t.Helper()
	return doJSON(t, http.MethodPost, url, body, cookies)
}

func doJSON(t *testing.T, method, url string, body any, cookies []*http.Cookie) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func tokenCookie(resp *http.Response) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.TokenCookieName {
			return cookie
		}
	}
	return nil
}

func signup(t *testing.T, serverURL, name, email, password, role string) (*http.Cookie, dto.AuthResponse) {
	t.Helper()
	body := map[string]string{"name": name, "email": email, "password": password}
	if role != "" {
		body["role"] = role
	}
	resp := postJSON(t, serverURL+"/auth/signup", body, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	cookie := tokenCookie(resp)
	require.NotNil(t, cookie)
	var auth dto.AuthResponse
	decodeBody(t, resp, &auth)
	return cookie, auth
}

func TestSignup(t *testing.T) {
	server, _, tokens := testutil.NewServer(t)

	resp := postJSON(t, server.URL+"/auth/signup", map[string]string{
		"name":     "Ada",
		"email":    "a@x.com",
		"password": "secret1",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	cookie := tokenCookie(resp)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 24*60*60, cookie.MaxAge)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotContains(t, strings.ToLower(string(raw)), "password")

	var auth dto.AuthResponse
	require.NoError(t, json.Unmarshal(raw, &auth))
	assert.Equal(t, "user", auth.User.Role)
	assert.Equal(t, "a@x.com", auth.User.Email)

	claims, err := tokens.Parse(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, auth.User.ID, claims.UserID)
	assert.Equal(t, "user", claims.Role)
}

func TestSignup_MissingFields(t *testing.T) {
	server, _, _ := testutil.NewServer(t)

	resp := postJSON(t, server.URL+"/auth/signup", map[string]string{"email": "a@x.com"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	assert.Contains(t, body, "error")
}

func TestSignup_DuplicateEmail(t *testing.T) {
	server, _, _ := testutil.NewServer(t)

	signup(t, server.URL, "Ada", "a@x.com", "secret1", "")

	resp := postJSON(t, server.URL+"/auth/signup", map[string]string{
		"name":     "Bob",
		"email":    "a@x.com",
		"password": "other12",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	assert.Contains(t, body["error"], "already exists")
}

func TestLoginFlow(t *testing.T) {
	server, _, _ := testutil.NewServer(t)
	signup(t, server.URL, "Ada", "a@x.com", "secret1", "")

	resp := postJSON(t, server.URL+"/auth/login", map[string]string{
		"email":    "a@x.com",
		"password": "secret1",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, tokenCookie(resp))

	var auth dto.AuthResponse
	decodeBody(t, resp, &auth)
	assert.NotNil(t, auth.User.LastLogin)

	// Wrong password gets the same generic message as an unknown email.
	wrong := postJSON(t, server.URL+"/auth/login", map[string]string{
		"email":    "a@x.com",
		"password": "wrong-password",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, wrong.StatusCode)
	var wrongBody map[string]string
	decodeBody(t, wrong, &wrongBody)

	missing := postJSON(t, server.URL+"/auth/login", map[string]string{
		"email":    "nobody@x.com",
		"password": "secret1",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, missing.StatusCode)
	var missingBody map[string]string
	decodeBody(t, missing, &missingBody)

	assert.Equal(t, wrongBody["error"], missingBody["error"])
}

func TestLogoutClearsCookie(t *testing.T) {
	server, _, _ := testutil.NewServer(t)
	cookie, _ := signup(t, server.URL, "Ada", "a@x.com", "secret1", "")

	resp := postJSON(t, server.URL+"/auth/logout", nil, []*http.Cookie{cookie})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	cleared := tokenCookie(resp)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestVerify(t *testing.T) {
	server, _, _ := testutil.NewServer(t)
	cookie, auth := signup(t, server.URL, "Ada", "a@x.com", "secret1", "")

	resp := doJSON(t, http.MethodGet, server.URL+"/auth/verify", nil, []*http.Cookie{cookie})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var verified dto.AuthResponse
	decodeBody(t, resp, &verified)
	assert.Equal(t, auth.User.ID, verified.User.ID)

	// Delete the user behind the still-valid token.
	adminCookie, _ := signup(t, server.URL, "Root", "root@x.com", "secret1", "admin")
	del := doJSON(t, http.MethodDelete, server.URL+"/users/"+auth.User.ID, nil, []*http.Cookie{adminCookie})
	require.Equal(t, http.StatusOK, del.StatusCode)
	del.Body.Close()

	gone := doJSON(t, http.MethodGet, server.URL+"/auth/verify", nil, []*http.Cookie{cookie})
	assert.Equal(t, http.StatusUnauthorized, gone.StatusCode)
	gone.Body.Close()
}

func TestStatus(t *testing.T) {
	server, _, _ := testutil.NewServer(t)
	cookie, _ := signup(t, server.URL, "Ada", "a@x.com", "secret1", "")

	resp := doJSON(t, http.MethodGet, server.URL+"/auth/status", nil, []*http.Cookie{cookie})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var status dto.StatusResponse
	decodeBody(t, resp, &status)
	assert.True(t, status.Authenticated)

	unauth := doJSON(t, http.MethodGet, server.URL+"/auth/status", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, unauth.StatusCode)
	unauth.Body.Close()
}

func TestAdminGate(t *testing.T) {
	server, _, _ := testutil.NewServer(t)
	userCookie, _ := signup(t, server.URL, "Ada", "a@x.com", "secret1", "")

	product := map[string]any{"name": "Widget", "price": 1.0, "stock": 1}

	// No token at all: unauthenticated.
	resp := postJSON(t, server.URL+"/products", product, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Valid token, wrong role: forbidden.
	resp = postJSON(t, server.URL+"/products", product, []*http.Cookie{userCookie})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	adminCookie, _ := signup(t, server.URL, "Root", "root@x.com", "secret1", "admin")
	resp = postJSON(t, server.URL+"/products", product, []*http.Cookie{adminCookie})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func TestUserListPagination(t *testing.T) {
	server, _, _ := testutil.NewServer(t)
	adminCookie, _ := signup(t, server.URL, "Root", "root@x.com", "secret1", "admin")

	for i := 0; i < 24; i++ {
		resp := postJSON(t, server.URL+"/users", map[string]string{
			"name":  fmt.Sprintf("User %d", i),
			"email": fmt.Sprintf("user%d@x.com", i),
		}, []*http.Cookie{adminCookie})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	// 24 created plus the admin itself.
	resp := doJSON(t, http.MethodGet, server.URL+"/users?page=2&limit=10", nil, []*http.Cookie{adminCookie})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list dto.UserListResponse
	decodeBody(t, resp, &list)
	assert.Len(t, list.Items, 10)
	assert.Equal(t, 2, list.Pagination.Page)
	assert.Equal(t, 10, list.Pagination.Limit)
	assert.EqualValues(t, 25, list.Pagination.Total)
	assert.Equal(t, 3, list.Pagination.Pages)
}

func TestProductCRUD(t *testing.T) {
	server, _, _ := testutil.NewServer(t)
	adminCookie, _ := signup(t, server.URL, "Root", "root@x.com", "secret1", "admin")
	cookies := []*http.Cookie{adminCookie}

	resp := postJSON(t, server.URL+"/products", map[string]any{
		"name":        "Widget",
		"description": "A widget",
		"price":       9.99,
		"stock":       3,
	}, cookies)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.ProductResponse
	decodeBody(t, resp, &created)

	resp = doJSON(t, http.MethodPut, server.URL+"/products/"+created.ID, map[string]any{"price": 12.5}, cookies)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated dto.ProductResponse
	decodeBody(t, resp, &updated)
	assert.Equal(t, 12.5, updated.Price)

	resp = doJSON(t, http.MethodGet, server.URL+"/products", nil, cookies)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.ProductListResponse
	decodeBody(t, resp, &list)
	require.Len(t, list.Items, 1)

	resp = doJSON(t, http.MethodDelete, server.URL+"/products/"+created.ID, nil, cookies)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodDelete, server.URL+"/products/"+created.ID, nil, cookies)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestProfile(t *testing.T) {
	server, _, _ := testutil.NewServer(t)
	cookie, auth := signup(t, server.URL, "Ada", "a@x.com", "secret1", "")
	cookies := []*http.Cookie{cookie}

	resp := doJSON(t, http.MethodGet, server.URL+"/users/profile", nil, cookies)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var profile dto.UserResponse
	decodeBody(t, resp, &profile)
	assert.Equal(t, auth.User.ID, profile.ID)

	resp = doJSON(t, http.MethodPut, server.URL+"/users/profile", map[string]any{"phone": "+15550100"}, cookies)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &profile)
	require.NotNil(t, profile.Phone)
	assert.Equal(t, "+15550100", *profile.Phone)
}

func TestHealth(t *testing.T) {
	server, _, _ := testutil.NewServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
