package config

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string
	DatabaseURL string

	JWTSecret []byte
	JWTIssuer string
	TokenTTL  time.Duration

	CookieDomain  string
	SecureCookies bool

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool
	MinIOPublicURL string

	ResendAPIKey string
	EmailFrom    string
	AppBaseURL   string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %s", err)
	}

	cfg := &Config{
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      []byte(os.Getenv("JWT_SECRET")),
		JWTIssuer:      os.Getenv("JWT_ISSUER"),
		TokenTTL:       24 * time.Hour,
		CookieDomain:   os.Getenv("COOKIE_DOMAIN"),
		SecureCookies:  os.Getenv("COOKIE_SECURE") != "false",
		MinIOEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinIOAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinIOSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinIOBucket:    getEnv("MINIO_BUCKET", "shopadmin"),
		MinIOUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		MinIOPublicURL: os.Getenv("MINIO_PUBLIC_URL"),
		ResendAPIKey:   os.Getenv("RESEND_API_KEY"),
		EmailFrom:      os.Getenv("EMAIL_FROM"),
		AppBaseURL:     getEnv("APP_BASE_URL", "http://localhost:5173"),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if len(cfg.JWTSecret) == 0 {
		return nil, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
