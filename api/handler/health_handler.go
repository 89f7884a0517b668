package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type HealthHandler struct {
	DB *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{DB: db}
}

func (h *HealthHandler) Health(c echo.Context) error {
	body := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if h.DB != nil {
		sqlDB, err := h.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request().Context())
		}
		if err != nil {
			body["status"] = "unhealthy"
			body["database"] = "disconnected"
			return c.JSON(http.StatusServiceUnavailable, body)
		}
		body["database"] = "connected"
	}
	return c.JSON(http.StatusOK, body)
}
