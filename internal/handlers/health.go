package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// HealthHandler reports whether both stores are reachable.
type HealthHandler struct {
	postgres *gorm.DB
	mongo    *mongo.Client
}

func NewHealthHandler(pg *gorm.DB, mg *mongo.Client) *HealthHandler {
	return &HealthHandler{postgres: pg, mongo: mg}
}

func (h *HealthHandler) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{"postgres": "ok", "mongo": "ok"}
	status := http.StatusOK

	if sqlDB, err := h.postgres.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		checks["postgres"] = "unavailable"
		status = http.StatusServiceUnavailable
	}
	if h.mongo != nil {
		if err := h.mongo.Ping(ctx, nil); err != nil {
			checks["mongo"] = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "degraded"
	}
	return c.JSON(status, echo.Map{
		"status":  overall,
		"service": "connectin-api",
		"checks":  checks,
	})
}
