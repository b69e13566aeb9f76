package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/grokwords/internal/library"
	"github.com/kalambet/grokwords/internal/review"
)

type scheduleResponse struct {
	Cohorts []review.Cohort      `json:"cohorts"`
	Session library.SessionState `json:"session"`
}

type selectRequest struct {
	Date string `json:"date"`
	Day  *int   `json:"day"`
}

func handleSchedule(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, scheduleResponse{
			Cohorts: deps.Library.Schedule(),
			Session: deps.Library.Session(),
		})
	}
}

func handleSelect(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req selectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Date == "" || req.Day == nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "date and day are required")
			return
		}

		st, err := deps.Library.Select(req.Date, *req.Day)
		if err != nil {
			libraryError(w, err)
			return
		}
		writeJSON(w, st)
	}
}

func handleReveal(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := deps.Library.Reveal(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			libraryError(w, err)
			return
		}
		writeJSON(w, st)
	}
}
