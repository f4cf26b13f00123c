package api

import (
	"net/http"

	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

type CommentHandler struct {
	service domain.CommentService
	logger  logger.Logger
}

func NewCommentHandler(service domain.CommentService, logger logger.Logger) *CommentHandler {
	return &CommentHandler{
		service: service,
		logger:  logger,
	}
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	blogID, err := pathID(r, "blogID")
	if err != nil {
		writeError(w, err)
		return
	}

	var in domain.CommentInput
	if err := decodeJSON(r, &in); err != nil {
		logBadRequest(r, h.logger, err)
		writeError(w, err)
		return
	}

	comment, err := h.service.Create(r.Context(), actorOf(r), blogID, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

func (h *CommentHandler) ListByBlog(w http.ResponseWriter, r *http.Request) {
	blogID, err := pathID(r, "blogID")
	if err != nil {
		writeError(w, err)
		return
	}

	comments, err := h.service.ListByBlog(r.Context(), actorOf(r), blogID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comments)
}

func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var in domain.CommentInput
	if err := decodeJSON(r, &in); err != nil {
		logBadRequest(r, h.logger, err)
		writeError(w, err)
		return
	}

	comment, err := h.service.Update(r.Context(), actorOf(r), id, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comment)
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), actorOf(r), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "comment deleted"})
}

func (h *CommentHandler) RegisterRoutes(mux *http.ServeMux, auth Wrapper) {
	mux.Handle("POST /comments/blogs/{blogID}", auth(http.HandlerFunc(h.Create)))
	mux.Handle("GET /comments/blogs/{blogID}", auth(http.HandlerFunc(h.ListByBlog)))
	mux.Handle("PATCH /comments/{id}", auth(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /comments/{id}", auth(http.HandlerFunc(h.Delete)))
}
