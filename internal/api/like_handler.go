package api

import (
	"net/http"

	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

type LikeHandler struct {
	service domain.LikeService
	logger  logger.Logger
}

type LikeCountResponse struct {
	BlogID int64 `json:"blog_id"`
	Likes  int64 `json:"likes"`
}

func NewLikeHandler(service domain.LikeService, logger logger.Logger) *LikeHandler {
	return &LikeHandler{
		service: service,
		logger:  logger,
	}
}

func (h *LikeHandler) decode(r *http.Request) (int64, error) {
	var in domain.LikeInput
	if err := decodeJSON(r, &in); err != nil {
		return 0, err
	}
	if in.BlogID <= 0 {
		return 0, domain.NewFieldError("blog_id", "is required")
	}
	return in.BlogID, nil
}

func (h *LikeHandler) Add(w http.ResponseWriter, r *http.Request) {
	blogID, err := h.decode(r)
	if err != nil {
		logBadRequest(r, h.logger, err)
		writeError(w, err)
		return
	}

	like, err := h.service.Add(r.Context(), actorOf(r), blogID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, like)
}

func (h *LikeHandler) Remove(w http.ResponseWriter, r *http.Request) {
	blogID, err := h.decode(r)
	if err != nil {
		logBadRequest(r, h.logger, err)
		writeError(w, err)
		return
	}

	if err := h.service.Remove(r.Context(), actorOf(r), blogID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "like removed"})
}

func (h *LikeHandler) Count(w http.ResponseWriter, r *http.Request) {
	blogID, err := pathID(r, "blogID")
	if err != nil {
		writeError(w, err)
		return
	}

	count, err := h.service.Count(r.Context(), actorOf(r), blogID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, LikeCountResponse{BlogID: blogID, Likes: count})
}

func (h *LikeHandler) Likers(w http.ResponseWriter, r *http.Request) {
	blogID, err := pathID(r, "blogID")
	if err != nil {
		writeError(w, err)
		return
	}

	users, err := h.service.Likers(r.Context(), actorOf(r), blogID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *LikeHandler) LikedBlogs(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.service.LikedBlogs(r.Context(), actorOf(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, blogs)
}

func (h *LikeHandler) RegisterRoutes(mux *http.ServeMux, auth Wrapper) {
	mux.Handle("POST /likes", auth(http.HandlerFunc(h.Add)))
	mux.Handle("DELETE /likes", auth(http.HandlerFunc(h.Remove)))
	mux.Handle("GET /likes/count/blog/{blogID}", auth(http.HandlerFunc(h.Count)))
	mux.Handle("GET /likes/users/blog/{blogID}", auth(http.HandlerFunc(h.Likers)))
	mux.Handle("GET /likes/blogs/user", auth(http.HandlerFunc(h.LikedBlogs)))
}
