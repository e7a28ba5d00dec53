// internal/handler/respond.go
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	appErrors "github.com/unclebandit/crm-backend/internal/errors"
)

// ErrorBody is one entry of the "errors" array in a failed response.
type ErrorBody struct {
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

// Envelope is the shape of every API response.
type Envelope struct {
	Data   map[string]any `json:"data,omitempty"`
	Errors []ErrorBody    `json:"errors,omitempty"`
}

// WriteData answers with {"data": {op: payload}}.
func WriteData(w http.ResponseWriter, status int, op string, payload any) {
	writeJSON(w, status, Envelope{Data: map[string]any{op: payload}})
}

// WriteError maps err to a status code and answers with {"errors": [...]}.
// Errors that carry no Kind are infrastructure failures; their text is
// logged but not exposed.
func WriteError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	body := ErrorBody{Message: err.Error(), Kind: string(appErrors.KindOf(err))}
	if status == http.StatusInternalServerError {
		log.Println("❌ Internal error:", err)
		body.Message = "internal server error"
	}
	writeJSON(w, status, Envelope{Errors: []ErrorBody{body}})
}

// WriteBadRequest reports a malformed request body or parameter.
func WriteBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, Envelope{Errors: []ErrorBody{{Message: msg}}})
}

func StatusFor(err error) int {
	var e *appErrors.Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case appErrors.KindDuplicateEmail:
		return http.StatusConflict
	case appErrors.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("⚠️ Failed to encode response:", err)
	}
}
