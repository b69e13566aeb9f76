package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/grokwords/internal/enrich"
	"github.com/kalambet/grokwords/internal/library"
)

const maxRequestBodySize = 1 << 20 // 1MB

// SettingsSaver persists learner settings changed through the API.
type SettingsSaver interface {
	SaveSettings(s library.Settings) error
}

type Deps struct {
	Library  *library.Library
	Settings SettingsSaver // optional; if nil, settings changes are not persisted
	PageSize int
}

// NewHandler returns the local JSON API over the library.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)

	r.Get("/words", handleListWords(deps))
	r.Get("/words/{id}", handleGetWord(deps))
	r.Post("/words/{id}/grok", handleGrok(deps))
	r.Post("/words/{id}/understood", handleUnderstood(deps))
	r.Post("/words/{id}/image", handleImage(deps))
	r.Get("/words/{id}/share", handleShare(deps))

	r.Get("/review", handleSchedule(deps))
	r.Post("/review/select", handleSelect(deps))
	r.Post("/review/reveal/{id}", handleReveal(deps))

	r.Get("/settings", handleGetSettings(deps))
	r.Put("/settings", handlePutSettings(deps))

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}

// libraryError maps library and provider errors onto HTTP responses.
func libraryError(w http.ResponseWriter, err error) {
	var failure *enrich.Failure
	switch {
	case errors.Is(err, library.ErrWordNotFound), errors.Is(err, library.ErrNoCohort):
		httpError(w, http.StatusNotFound, "not_found", "%v", err)
	case errors.Is(err, library.ErrBadCheckpoint):
		httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
	case errors.Is(err, library.ErrMissingAPIKey), errors.Is(err, library.ErrNoExample):
		httpError(w, http.StatusPreconditionFailed, "precondition_failed", "%v", err)
	case errors.Is(err, library.ErrNotGrokked), errors.Is(err, library.ErrAlreadyGrokked),
		errors.Is(err, library.ErrNotSelectable), errors.Is(err, library.ErrNoSelection),
		errors.Is(err, library.ErrNotInSelection):
		httpError(w, http.StatusConflict, "conflict", "%v", err)
	case errors.As(err, &failure), errors.Is(err, enrich.ErrUnexpectedFormat),
		errors.Is(err, enrich.ErrEmptyContent), errors.Is(err, enrich.ErrNoImage):
		slog.Error("provider request failed", "error", err)
		httpError(w, http.StatusBadGateway, "api_error", "%v", err)
	default:
		slog.Error("request failed", "error", err)
		httpError(w, http.StatusInternalServerError, "api_error", "%v", err)
	}
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}
