package handler

import (
	"errors"
	"net/http"
	"time"

	"shopadmin/api/middleware"
	"shopadmin/internal/dto"
	"shopadmin/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	Service       *service.AuthService
	Validate      *validator.Validate
	CookieDomain  string
	SecureCookies bool
}

func NewAuthHandler(svc *service.AuthService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{
		Service:       svc,
		Validate:      validate,
		SecureCookies: true,
	}
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req dto.SignupRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeValidationError(c, err)
	}
	input := service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Age:      req.Age,
		Gender:   req.Gender,
		Phone:    req.Phone,
	}
	result, err := h.Service.Signup(c.Request().Context(), input, stringPtr(c.RealIP()))
	if err != nil {
		return writeServiceError(c, err)
	}
	h.setTokenCookie(c, result.Token, result.ExpiresIn)
	return c.JSON(http.StatusCreated, dto.AuthResponse{
		Message: "User created successfully",
		User:    dto.UserResponseFromEntity(result.User),
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeValidationError(c, err)
	}
	input := service.LoginInput{Email: req.Email, Password: req.Password}
	result, err := h.Service.Login(c.Request().Context(), input, stringPtr(c.RealIP()))
	if err != nil {
		return writeServiceError(c, err)
	}
	h.setTokenCookie(c, result.Token, result.ExpiresIn)
	return c.JSON(http.StatusOK, dto.AuthResponse{
		Message: "Login successful",
		User:    dto.UserResponseFromEntity(result.User),
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if userID, ok := middleware.UserIDFromContext(c); ok {
		h.Service.Logout(c.Request().Context(), &userID, stringPtr(c.RealIP()))
	} else {
		h.Service.Logout(c.Request().Context(), nil, stringPtr(c.RealIP()))
	}
	h.clearTokenCookie(c)
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// Verify confirms the session token still maps to a live user. A token for
// a deleted user clears the cookie so the client stops retrying.
func (h *AuthHandler) Verify(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("access denied, no token provided"))
	}
	user, err := h.Service.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			h.clearTokenCookie(c)
			return writeError(c, http.StatusUnauthorized, errors.New("user not found, please login again"))
		}
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.AuthResponse{User: dto.UserResponseFromEntity(user)})
}

func (h *AuthHandler) Status(c echo.Context) error {
	if _, ok := middleware.UserIDFromContext(c); !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("access denied, no token provided"))
	}
	return c.JSON(http.StatusOK, dto.StatusResponse{Authenticated: true})
}

func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req dto.VerifyEmailRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeValidationError(c, err)
	}
	if err := h.Service.VerifyEmail(c.Request().Context(), req.Token); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Email verified successfully"})
}

func (h *AuthHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}

func (h *AuthHandler) setTokenCookie(c echo.Context, token string, expiresIn time.Duration) {
	if token == "" {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   int(expiresIn.Seconds()),
		Expires:  time.Now().Add(expiresIn),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearTokenCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
