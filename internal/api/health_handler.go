package api

import (
	"context"
	"net/http"
	"time"

	"blogapi/pkg/logger"
)

// Database is the view of the connection manager the health checks need.
type Database interface {
	Ping(ctx context.Context) error
	GetStats() map[string]interface{}
}

type HealthHandler struct {
	db      Database
	version string
	logger  logger.Logger
}

type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Services  map[string]interface{} `json:"services"`
	Version   string                 `json:"version"`
}

func NewHealthHandler(db Database, version string, logger logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:      db,
		version: version,
		logger:  logger,
	}
}

func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	database := h.checkDatabaseHealth(r.Context())

	status := "healthy"
	if database["status"] != "healthy" {
		status = "degraded"
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Services:  map[string]interface{}{"database": database},
		Version:   h.version,
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, response)
}

func (h *HealthHandler) checkDatabaseHealth(ctx context.Context) map[string]interface{} {
	if err := h.db.Ping(ctx); err != nil {
		h.logger.WarnContext(ctx, "Database health check failed", map[string]interface{}{"error": err.Error()})
		return map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		}
	}

	stats := h.db.GetStats()
	stats["status"] = "healthy"
	return stats
}

func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now().UTC(),
	})
}

func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"timestamp": time.Now().UTC(),
	}

	if err := h.db.Ping(r.Context()); err != nil {
		response["status"] = "not_ready"
		response["issues"] = []string{"database: " + err.Error()}
		writeJSON(w, http.StatusServiceUnavailable, response)
		return
	}

	response["status"] = "ready"
	writeJSON(w, http.StatusOK, response)
}

func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("GET /health/live", h.LivenessCheck)
	mux.HandleFunc("GET /health/ready", h.ReadinessCheck)
}
