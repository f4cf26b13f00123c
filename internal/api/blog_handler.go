package api

import (
	"net/http"

	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

type BlogHandler struct {
	service domain.BlogService
	logger  logger.Logger
}

func NewBlogHandler(service domain.BlogService, logger logger.Logger) *BlogHandler {
	return &BlogHandler{
		service: service,
		logger:  logger,
	}
}

func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.CreateBlogInput
	if err := decodeJSON(r, &in); err != nil {
		logBadRequest(r, h.logger, err)
		writeError(w, err)
		return
	}

	blog, err := h.service.Create(r.Context(), actorOf(r), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, blog)
}

func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	blog, err := h.service.Get(r.Context(), actorOf(r), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, blog)
}

func (h *BlogHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	status := domain.BlogStatus(r.PathValue("status"))

	blogs, err := h.service.ListByStatus(r.Context(), actorOf(r), status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, blogs)
}

func (h *BlogHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	blogs, err := h.service.ListByUser(r.Context(), actorOf(r), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, blogs)
}

func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var in domain.UpdateBlogInput
	if err := decodeJSON(r, &in); err != nil {
		logBadRequest(r, h.logger, err)
		writeError(w, err)
		return
	}

	blog, err := h.service.Update(r.Context(), actorOf(r), id, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, blog)
}

func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), actorOf(r), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "blog deleted"})
}

func (h *BlogHandler) RegisterRoutes(mux *http.ServeMux, auth Wrapper) {
	mux.Handle("POST /blogs", auth(http.HandlerFunc(h.Create)))
	mux.Handle("GET /blogs/{id}", auth(http.HandlerFunc(h.Get)))
	mux.Handle("PATCH /blogs/{id}", auth(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /blogs/{id}", auth(http.HandlerFunc(h.Delete)))
	mux.Handle("GET /blogs/status/{status}", auth(http.HandlerFunc(h.ListByStatus)))
	mux.Handle("GET /blogs/user/{id}", auth(http.HandlerFunc(h.ListByUser)))
}
