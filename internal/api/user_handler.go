package api

import (
	"net/http"

	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

type UserHandler struct {
	service domain.UserService
	logger  logger.Logger
}

func NewUserHandler(service domain.UserService, logger logger.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger,
	}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in domain.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		logBadRequest(r, h.logger, err)
		writeError(w, err)
		return
	}

	res, err := h.service.Register(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, res)
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in domain.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		logBadRequest(r, h.logger, err)
		writeError(w, err)
		return
	}

	res, err := h.service.Login(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context(), actorOf(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.Get(r.Context(), actorOf(r), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var in domain.UpdateUserInput
	if err := decodeJSON(r, &in); err != nil {
		logBadRequest(r, h.logger, err)
		writeError(w, err)
		return
	}

	user, err := h.service.Update(r.Context(), actorOf(r), id, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), actorOf(r), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "user deleted"})
}

func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, auth Wrapper) {
	mux.HandleFunc("POST /auth/register", h.Register)
	mux.HandleFunc("POST /auth/login", h.Login)

	mux.Handle("GET /users", auth(http.HandlerFunc(h.List)))
	mux.Handle("GET /users/{id}", auth(http.HandlerFunc(h.Get)))
	mux.Handle("PATCH /users/{id}", auth(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /users/{id}", auth(http.HandlerFunc(h.Delete)))
}
