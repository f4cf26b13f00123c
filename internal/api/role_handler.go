package api

import (
	"context"
	"net/http"

	"blogapi/internal/authz"
	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

type RoleHandler struct {
	service domain.RoleService
	logger  logger.Logger
}

func NewRoleHandler(service domain.RoleService, logger logger.Logger) *RoleHandler {
	return &RoleHandler{
		service: service,
		logger:  logger,
	}
}

func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.List(r.Context(), actorOf(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, roles)
}

func (h *RoleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.RoleInput
	if err := decodeJSON(r, &in); err != nil {
		logBadRequest(r, h.logger, err)
		writeError(w, err)
		return
	}

	role, err := h.service.Create(r.Context(), actorOf(r), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, role)
}

func (h *RoleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var in domain.RoleInput
	if err := decodeJSON(r, &in); err != nil {
		logBadRequest(r, h.logger, err)
		writeError(w, err)
		return
	}

	role, err := h.service.Update(r.Context(), actorOf(r), id, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, role)
}

func (h *RoleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), actorOf(r), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "role deleted"})
}

func (h *RoleHandler) Assign(w http.ResponseWriter, r *http.Request) {
	h.assignment(w, r, h.service.Assign)
}

func (h *RoleHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	h.assignment(w, r, h.service.Revoke)
}

type assignFunc func(ctx context.Context, actor authz.Actor, in domain.RoleAssignmentInput) (*domain.User, error)

func (h *RoleHandler) assignment(w http.ResponseWriter, r *http.Request, apply assignFunc) {
	var in domain.RoleAssignmentInput
	if err := decodeJSON(r, &in); err != nil {
		logBadRequest(r, h.logger, err)
		writeError(w, err)
		return
	}

	user, err := apply(r.Context(), actorOf(r), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *RoleHandler) RegisterRoutes(mux *http.ServeMux, auth Wrapper) {
	mux.Handle("GET /roles", auth(http.HandlerFunc(h.List)))
	mux.Handle("POST /roles", auth(http.HandlerFunc(h.Create)))
	mux.Handle("PATCH /roles/{id}", auth(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /roles/{id}", auth(http.HandlerFunc(h.Delete)))
	mux.Handle("POST /roles/assign", auth(http.HandlerFunc(h.Assign)))
	mux.Handle("POST /roles/revoke", auth(http.HandlerFunc(h.Revoke)))
}
