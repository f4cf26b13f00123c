package api

import (
	"errors"
	"net/http"
	"strconv"

	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

// MaxUploadSize bounds a multipart media upload.
const MaxUploadSize = 32 << 20

type MediaHandler struct {
	service domain.MediaService
	logger  logger.Logger
}

func NewMediaHandler(service domain.MediaService, logger logger.Logger) *MediaHandler {
	return &MediaHandler{
		service: service,
		logger:  logger,
	}
}

func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		msg := "must be a multipart form"
		if errors.As(err, &tooLarge) {
			msg = "upload exceeds the size limit"
		}
		fieldErr := domain.NewFieldError("file", msg)
		logBadRequest(r, h.logger, err)
		writeError(w, fieldErr)
		return
	}
	defer r.MultipartForm.RemoveAll()

	in := domain.UploadMediaInput{}
	if raw := r.FormValue("blog_id"); raw != "" {
		blogID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, domain.NewFieldError("blog_id", "must be an integer"))
			return
		}
		in.BlogID = blogID
	}

	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		in.Filename = header.Filename
		in.Content = file
	case !errors.Is(err, http.ErrMissingFile):
		logBadRequest(r, h.logger, err)
		writeError(w, domain.NewFieldError("file", "could not be read"))
		return
	}

	media, err := h.service.Upload(r.Context(), actorOf(r), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, media)
}

func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	media, err := h.service.Get(r.Context(), actorOf(r), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, media)
}

func (h *MediaHandler) ListByBlog(w http.ResponseWriter, r *http.Request) {
	blogID, err := pathID(r, "blogID")
	if err != nil {
		writeError(w, err)
		return
	}

	media, err := h.service.ListByBlog(r.Context(), actorOf(r), blogID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, media)
}

func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), actorOf(r), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "media deleted"})
}

func (h *MediaHandler) RegisterRoutes(mux *http.ServeMux, auth Wrapper) {
	mux.Handle("POST /media/upload", auth(http.HandlerFunc(h.Upload)))
	mux.Handle("GET /media/{id}", auth(http.HandlerFunc(h.Get)))
	mux.Handle("GET /media/blog/{blogID}", auth(http.HandlerFunc(h.ListByBlog)))
	mux.Handle("DELETE /media/{id}", auth(http.HandlerFunc(h.Delete)))
}
