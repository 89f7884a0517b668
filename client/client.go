// Package client is a Go consumer of the shopadmin API. It owns the session
// cookie, attaches it to every call, and treats any 401/403 as the end of
// the session.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"shopadmin/internal/dto"
)

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsAuthError reports whether err means the session is no longer valid.
func IsAuthError(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden)
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu           sync.Mutex
	loggedIn     bool
	onSessionEnd func()
}

// New builds a client for the given base URL. The onSessionEnd callback
// fires once per session when a call or the monitor detects that the token
// is gone, invalid, or expired.
func New(baseURL string, onSessionEnd func()) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 15 * time.Second,
		},
		onSessionEnd: onSessionEnd,
	}, nil
}

func (c *Client) LoggedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loggedIn
}

func (c *Client) Signup(ctx context.Context, req dto.SignupRequest) (*dto.UserResponse, error) {
	var resp dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", req, &resp); err != nil {
		return nil, err
	}
	c.beginSession()
	return &resp.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*dto.UserResponse, error) {
	var resp dto.AuthResponse
	req := dto.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	c.beginSession()
	return &resp.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	c.endSession()
	return err
}

func (c *Client) Verify(ctx context.Context) (*dto.UserResponse, error) {
	var resp dto.AuthResponse
	if err := c.do(ctx, http.MethodGet, "/auth/verify", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) Status(ctx context.Context) (bool, error) {
	var resp dto.StatusResponse
	if err := c.do(ctx, http.MethodGet, "/auth/status", nil, &resp); err != nil {
		return false, err
	}
	return resp.Authenticated, nil
}

func (c *Client) ListUsers(ctx context.Context, page, limit int) (*dto.UserListResponse, error) {
	var resp dto.UserListResponse
	path := fmt.Sprintf("/users?page=%d&limit=%d", page, limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	var resp dto.UserResponse
	if err := c.do(ctx, http.MethodPost, "/users", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	var resp dto.UserResponse
	if err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Profile(ctx context.Context) (*dto.UserResponse, error) {
	var resp dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/users/profile", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	var resp dto.UserResponse
	if err := c.do(ctx, http.MethodPut, "/users/profile", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UploadProfilePicture(ctx context.Context, imageDataURL string) (*dto.UserResponse, error) {
	var resp dto.UserResponse
	req := dto.UploadPictureRequest{Image: imageDataURL}
	if err := c.do(ctx, http.MethodPost, "/users/profile/upload-picture", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListProducts(ctx context.Context, page, limit int) (*dto.ProductListResponse, error) {
	var resp dto.ProductListResponse
	path := fmt.Sprintf("/products?page=%d&limit=%d", page, limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	var resp dto.ProductResponse
	if err := c.do(ctx, http.MethodPost, "/products", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var resp dto.ProductResponse
	if err := c.do(ctx, http.MethodPut, "/products/"+url.PathEscape(id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusUnauthorized || response.StatusCode == http.StatusForbidden {
		c.endSession()
	}
	if response.StatusCode >= 400 {
		var body errorBody
		_ = json.NewDecoder(response.Body).Decode(&body)
		message := body.Error
		if message == "" {
			message = body.Message
		}
		if message == "" {
			message = http.StatusText(response.StatusCode)
		}
		return &APIError{StatusCode: response.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(out)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) beginSession() {
	c.mu.Lock()
	c.loggedIn = true
	c.mu.Unlock()
}

// endSession flips to logged out and fires the callback at most once per
// session, no matter how many calls observe the same failure.
func (c *Client) endSession() {
	c.mu.Lock()
	wasLoggedIn := c.loggedIn
	c.loggedIn = false
	callback := c.onSessionEnd
	c.mu.Unlock()

	if jar, err := cookiejar.New(nil); err == nil {
		c.httpClient.Jar = jar
	}
	if wasLoggedIn && callback != nil {
		callback()
	}
}
