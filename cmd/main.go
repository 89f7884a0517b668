package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopadmin/api/handler"
	apiMiddleware "shopadmin/api/middleware"
	"shopadmin/api/routes"
	"shopadmin/config"
	"shopadmin/internal/objstore"
	"shopadmin/internal/repository"
	"shopadmin/internal/service"
	"shopadmin/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	db, err := config.ConnectDB(cfg)
	if err != nil {
		logger.WithError(err).Fatal("database connection failed")
	}
	defer func() {
		if err := config.CloseDB(db); err != nil {
			logger.WithError(err).Warn("closing database")
		}
	}()

	validate := validator.New()

	tokenManager := utils.TokenManager{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		TokenTTL: cfg.TokenTTL,
	}

	var imageStore service.ImageStore
	if cfg.MinIOEndpoint != "" {
		store, err := objstore.New(objstore.Config{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
			PublicURL: cfg.MinIOPublicURL,
		})
		if err != nil {
			logger.WithError(err).Fatal("object store init failed")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := store.EnsureBucket(ctx); err != nil {
			cancel()
			logger.WithError(err).Fatal("object store bucket check failed")
		}
		cancel()
		imageStore = store
	} else {
		logger.Warn("MINIO_ENDPOINT not set, image uploads disabled")
	}

	var emailSender service.EmailSender
	if sender := service.NewResendEmailSender(cfg.ResendAPIKey, cfg.EmailFrom, cfg.AppBaseURL); sender != nil {
		emailSender = sender
	} else {
		logger.Warn("RESEND_API_KEY not set, verification emails disabled")
	}

	accountRepo := repository.NewAccountRepository(db)
	userRepo := repository.NewUserRepository(db)
	credentialRepo := repository.NewCredentialRepository(db)
	verificationRepo := repository.NewVerificationTokenRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	productRepo := repository.NewProductRepository(db)

	passwordHasher := service.BcryptPasswordHasher{}
	clock := service.RealClock{}

	authService := service.NewAuthService(
		accountRepo,
		userRepo,
		credentialRepo,
		verificationRepo,
		auditRepo,
		emailSender,
		passwordHasher,
		tokenManager,
		clock,
	)
	userService := service.NewUserService(userRepo, imageStore, clock)
	productService := service.NewProductService(productRepo, imageStore, clock)

	authHandler := handler.NewAuthHandler(authService, validate)
	authHandler.CookieDomain = cfg.CookieDomain
	authHandler.SecureCookies = cfg.SecureCookies
	userHandler := handler.NewUserHandler(userService, validate)
	productHandler := handler.NewProductHandler(productService, validate)
	healthHandler := handler.NewHealthHandler(db)

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.AppBaseURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	authMiddleware := apiMiddleware.AuthMiddleware{Tokens: &tokenManager}
	router := routes.NewRouter(app, authHandler, userHandler, productHandler, healthHandler, authMiddleware)
	router.RegisterRoutes()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("server started")
		if err := app.StartServer(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("shutdown")
	}
	logger.Info("server stopped")
}
