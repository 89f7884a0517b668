package routes

import (
	"time"

	"shopadmin/api/handler"
	"shopadmin/api/middleware"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type Router struct {
	Echo           *echo.Echo
	Auth           *handler.AuthHandler
	Users          *handler.UserHandler
	Products       *handler.ProductHandler
	Health         *handler.HealthHandler
	AuthMiddleware middleware.AuthMiddleware
	SignupRate     *middleware.RateLimiter
	LoginRate      *middleware.RateLimiter
}

func NewRouter(
	e *echo.Echo,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	productHandler *handler.ProductHandler,
	healthHandler *handler.HealthHandler,
	authMiddleware middleware.AuthMiddleware,
) *Router {
	return &Router{
		Echo:           e,
		Auth:           authHandler,
		Users:          userHandler,
		Products:       productHandler,
		Health:         healthHandler,
		AuthMiddleware: authMiddleware,
		SignupRate:     middleware.NewRateLimiter(rate.Limit(5), 10, 5*time.Minute),
		LoginRate:      middleware.NewRateLimiter(rate.Limit(2), 4, 10*time.Minute),
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo
	authenticate := r.AuthMiddleware.Authenticate

	e.GET("/health", r.Health.Health)

	e.POST("/auth/signup", r.Auth.Signup, r.SignupRate.Middleware())
	e.POST("/auth/login", r.Auth.Login, r.LoginRate.Middleware())
	e.POST("/auth/logout", r.Auth.Logout)
	e.POST("/auth/verify-email", r.Auth.VerifyEmail, r.SignupRate.Middleware())
	e.GET("/auth/verify", r.Auth.Verify, authenticate)
	e.GET("/auth/status", r.Auth.Status, authenticate)

	e.GET("/users", r.Users.List, authenticate)
	e.POST("/users", r.Users.Create, authenticate, middleware.RequireAdmin)
	e.PUT("/users/:id", r.Users.Update, authenticate, middleware.RequireAdmin)
	e.DELETE("/users/:id", r.Users.Delete, authenticate, middleware.RequireAdmin)

	e.GET("/users/profile", r.Users.Profile, authenticate)
	e.PUT("/users/profile", r.Users.UpdateProfile, authenticate)
	e.POST("/users/profile/upload-picture", r.Users.UploadPicture, authenticate)

	e.GET("/products", r.Products.List, authenticate)
	e.POST("/products", r.Products.Create, authenticate, middleware.RequireAdmin)
	e.PUT("/products/:id", r.Products.Update, authenticate, middleware.RequireAdmin)
	e.DELETE("/products/:id", r.Products.Delete, authenticate, middleware.RequireAdmin)
}
