package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError is returned for non-2xx provider responses.
type APIError struct {
	Status int
	Body   string
	Reason string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider returned HTTP %d: %s", e.Status, e.Reason)
}

// ExtractReason picks a human-readable reason from an error body. A JSON body
// yields its "error" field (a string, or an object's "message"). Any other
// body is split into sentences and the second one is used when present.
func ExtractReason(body string) string {
	var parsed struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err == nil {
		if r := reasonFromJSON(parsed.Error); r != "" {
			return r
		}
		return body
	}

	var sentences []string
	for _, s := range strings.Split(body, ".") {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) >= 2 {
		return sentences[1]
	}
	return body
}

func reasonFromJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}
	return string(raw)
}
