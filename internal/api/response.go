package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"blogapi/internal/api/middleware"
	"blogapi/internal/authz"
	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Kind    domain.Kind       `json:"kind"`
	Message string            `json:"message"`
	Reason  string            `json:"reason,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError renders err as an ErrorResponse. Store failures never expose
// their cause.
func writeError(w http.ResponseWriter, err error) {
	de := domain.AsError(err)

	body := ErrorBody{
		Kind:    de.Kind,
		Message: de.Message,
		Reason:  de.Reason,
		Fields:  de.Fields,
	}
	if de.Kind == domain.KindStoreFailure {
		body.Message = "internal server error"
	}

	writeJSON(w, statusFor(de.Kind), ErrorResponse{Error: body})
}

// decodeJSON reads the request body into dst. An empty body leaves dst
// untouched so validation reports the missing fields.
func decodeJSON(r *http.Request, dst interface{}) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return domain.NewFieldError("body", "must be a valid JSON object")
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewFieldError(name, "must be a positive integer")
	}
	return id, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewFieldError(name, "must be an integer")
	}
	return n, nil
}

func actorOf(r *http.Request) authz.Actor {
	return middleware.ActorFrom(r.Context())
}

func logBadRequest(r *http.Request, log logger.Logger, err error) {
	log.DebugContext(r.Context(), "Request rejected", map[string]interface{}{
		"method": r.Method,
		"path":   r.URL.Path,
		"error":  err.Error(),
	})
}
