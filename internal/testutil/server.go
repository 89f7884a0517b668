package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"shopadmin/api/handler"
	apiMiddleware "shopadmin/api/middleware"
	"shopadmin/api/routes"
	"shopadmin/internal/service"
	"shopadmin/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// ServerOption tweaks the wiring of a test server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	tokenTTL time.Duration
}

// WithTokenTTL shortens the session token lifetime, useful for expiry tests.
func WithTokenTTL(ttl time.Duration) ServerOption {
	return func(cfg *serverConfig) {
		cfg.tokenTTL = ttl
	}
}

// NewServer stands up the full HTTP surface over in-memory fakes. The
// returned server is closed automatically when the test ends.
func NewServer(t *testing.T, opts ...ServerOption) (*httptest.Server, *FakeStore, utils.TokenManager) {
	t.Helper()

	cfg := serverConfig{tokenTTL: 24 * time.Hour}
	for _, opt := range opts {
		opt(&cfg)
	}

	store := NewFakeStore()
	images := NewFakeImageStore()
	tokens := utils.TokenManager{Secret: []byte("test-secret"), Issuer: "shopadmin-test", TokenTTL: cfg.tokenTTL}
	validate := validator.New()
	clock := service.RealClock{}

	authService := service.NewAuthService(
		store.Accounts(),
		store.Users(),
		store.Credentials(),
		store.Verifications(),
		store.Audit(),
		nil,
		service.BcryptPasswordHasher{Cost: bcrypt.MinCost},
		tokens,
		clock,
	)
	userService := service.NewUserService(store.Users(), images, clock)
	productService := service.NewProductService(store.Products(), images, clock)

	authHandler := handler.NewAuthHandler(authService, validate)
	authHandler.SecureCookies = false
	userHandler := handler.NewUserHandler(userService, validate)
	productHandler := handler.NewProductHandler(productService, validate)
	healthHandler := handler.NewHealthHandler(nil)

	app := echo.New()
	router := routes.NewRouter(app, authHandler, userHandler, productHandler, healthHandler, apiMiddleware.AuthMiddleware{Tokens: &tokens})
	// Every test request comes from the same loopback IP.
	router.SignupRate = apiMiddleware.NewRateLimiter(1000, 1000, time.Minute)
	router.LoginRate = apiMiddleware.NewRateLimiter(1000, 1000, time.Minute)
	router.RegisterRoutes()

	server := httptest.NewServer(app)
	t.Cleanup(server.Close)
	return server, store, tokens
}
