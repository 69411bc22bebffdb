package handler

import (
	"context"
	"net/http"
	"time"

	"sweetshop/internal/container"
	"sweetshop/pkg/database"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	container *container.Container
	db        *database.PostgresDB
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(c *container.Container, db *database.PostgresDB) *HealthHandler {
	return &HealthHandler{
		container: c,
		db:        db,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Service   string            `json:"service"`
	Checks    map[string]string `json:"checks"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{
		"database": "ok",
		"redis":    "ok",
	}
	status := "healthy"
	statusCode := http.StatusOK

	if err := h.db.Health(ctx); err != nil {
		log.WithError(err).Warn("Database health check failed")
		checks["database"] = "unavailable"
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	if err := h.container.GetRedisClient().Health(ctx); err != nil {
		log.WithError(err).Warn("Redis health check failed")
		checks["redis"] = "unavailable"
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Service:   "sweetshop",
		Checks:    checks,
	}, log)
}
