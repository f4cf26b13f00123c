package api

import (
	"net/http"

	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

type AuditLogHandler struct {
	service domain.AuditLogService
	logger  logger.Logger
}

func NewAuditLogHandler(service domain.AuditLogService, logger logger.Logger) *AuditLogHandler {
	return &AuditLogHandler{
		service: service,
		logger:  logger,
	}
}

func (h *AuditLogHandler) GetAllLogs(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 0)
	if err != nil {
		writeError(w, err)
		return
	}

	pageSize, err := queryInt(r, "page_size", 0)
	if err != nil {
		writeError(w, err)
		return
	}

	logs, err := h.service.GetAllLogs(r.Context(), actorOf(r), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, logs)
}

func (h *AuditLogHandler) GetEntityLogs(w http.ResponseWriter, r *http.Request) {
	entityID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	entityType := domain.EntityType(r.PathValue("entity"))

	logs, err := h.service.GetEntityLogs(r.Context(), actorOf(r), entityType, entityID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, logs)
}

func (h *AuditLogHandler) RegisterRoutes(mux *http.ServeMux, auth Wrapper) {
	mux.Handle("GET /audit-logs", auth(http.HandlerFunc(h.GetAllLogs)))
	mux.Handle("GET /audit-logs/{entity}/{id}", auth(http.HandlerFunc(h.GetEntityLogs)))
}
