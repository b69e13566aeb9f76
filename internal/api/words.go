package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/grokwords/internal/browse"
)

const maxPageSize = 1000

func handleListWords(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		level, err := browse.ParseLevel(q.Get("level"))
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}
		status, err := browse.ParseStatus(q.Get("status"))
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}

		f := browse.Filter{
			Level:      level,
			Status:     status,
			Search:     q.Get("q"),
			ReviewDate: q.Get("date"),
		}
		page := parseIntParam(r, "page", 1, 0)
		size := parseIntParam(r, "page_size", deps.PageSize, maxPageSize)

		writeJSON(w, browse.Paginate(deps.Library.Words(), f, page, size))
	}
}

func handleGetWord(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		word, err := deps.Library.Word(chi.URLParam(r, "id"))
		if err != nil {
			libraryError(w, err)
			return
		}
		writeJSON(w, word)
	}
}

func handleGrok(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		word, err := deps.Library.Grok(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			libraryError(w, err)
			return
		}
		writeJSON(w, word)
	}
}

func handleUnderstood(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		word, err := deps.Library.MarkUnderstood(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			libraryError(w, err)
			return
		}
		writeJSON(w, word)
	}
}

func handleImage(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		word, err := deps.Library.GenerateImage(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			libraryError(w, err)
			return
		}
		writeJSON(w, word)
	}
}

func handleShare(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		url, err := deps.Library.Share(id)
		if err != nil {
			libraryError(w, err)
			return
		}
		word, _ := deps.Library.Word(id)
		writeJSON(w, map[string]string{"url": url, "image_url": word.ImageURL})
	}
}
