package api

import (
	"net/http"

	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

type CategoryHandler struct {
	service domain.CategoryService
	logger  logger.Logger
}

func NewCategoryHandler(service domain.CategoryService, logger logger.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		logger:  logger,
	}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context(), actorOf(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	category, err := h.service.Get(r.Context(), actorOf(r), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.CategoryInput
	if err := decodeJSON(r, &in); err != nil {
		logBadRequest(r, h.logger, err)
		writeError(w, err)
		return
	}

	category, err := h.service.Create(r.Context(), actorOf(r), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var in domain.CategoryInput
	if err := decodeJSON(r, &in); err != nil {
		logBadRequest(r, h.logger, err)
		writeError(w, err)
		return
	}

	category, err := h.service.Update(r.Context(), actorOf(r), id, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), actorOf(r), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "category deleted"})
}

func (h *CategoryHandler) AttachBlog(w http.ResponseWriter, r *http.Request) {
	categoryID, blogID, err := linkIDs(r)
	if err != nil {
		writeError(w, err)
		return
	}

	category, err := h.service.AttachBlog(r.Context(), actorOf(r), categoryID, blogID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) DetachBlog(w http.ResponseWriter, r *http.Request) {
	categoryID, blogID, err := linkIDs(r)
	if err != nil {
		writeError(w, err)
		return
	}

	category, err := h.service.DetachBlog(r.Context(), actorOf(r), categoryID, blogID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, category)
}

func linkIDs(r *http.Request) (int64, int64, error) {
	categoryID, err := pathID(r, "id")
	if err != nil {
		return 0, 0, err
	}
	blogID, err := pathID(r, "blogID")
	if err != nil {
		return 0, 0, err
	}
	return categoryID, blogID, nil
}

func (h *CategoryHandler) RegisterRoutes(mux *http.ServeMux, auth Wrapper) {
	mux.Handle("GET /categories", auth(http.HandlerFunc(h.List)))
	mux.Handle("GET /categories/{id}", auth(http.HandlerFunc(h.Get)))
	mux.Handle("POST /categories", auth(http.HandlerFunc(h.Create)))
	mux.Handle("PATCH /categories/{id}", auth(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /categories/{id}", auth(http.HandlerFunc(h.Delete)))
	mux.Handle("POST /categories/{id}/blogs/{blogID}", auth(http.HandlerFunc(h.AttachBlog)))
	mux.Handle("DELETE /categories/{id}/blogs/{blogID}", auth(http.HandlerFunc(h.DetachBlog)))
}
