package api

import (
	"encoding/json"
	"net/http"

	"github.com/kalambet/grokwords/internal/library"
)

type settingsResponse struct {
	NativeLanguage string  `json:"native_language"`
	Reward         float64 `json:"reward"`
	HasAPIKey      bool    `json:"has_api_key"`
}

type settingsRequest struct {
	NativeLanguage string  `json:"native_language"`
	APIKey         *string `json:"api_key"`
}

func settingsView(s library.Settings) settingsResponse {
	return settingsResponse{
		NativeLanguage: s.NativeLanguage,
		Reward:         s.Reward,
		HasAPIKey:      s.APIKey != "",
	}
}

func handleGetSettings(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, settingsView(deps.Library.Settings()))
	}
}

func handlePutSettings(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req settingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		s := deps.Library.Settings()
		if req.NativeLanguage != "" {
			s.NativeLanguage = req.NativeLanguage
		}
		if req.APIKey != nil {
			s.APIKey = *req.APIKey
		}

		if deps.Settings != nil {
			if err := deps.Settings.SaveSettings(s); err != nil {
				httpError(w, http.StatusInternalServerError, "api_error", "saving settings: %v", err)
				return
			}
		}
		deps.Library.SetSettings(s)
		writeJSON(w, settingsView(deps.Library.Settings()))
	}
}
