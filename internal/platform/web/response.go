// Package web holds the HTTP plumbing shared by the storefront and auth
// services: the JSON envelope, request metrics and the logging middleware.
package web

import (
	"encoding/json"
	"net/http"

	"github.com/tair/lumina-storefront/pkg/logger"
)

// Response is the envelope every JSON endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to encode response")
	}
}

// RespondData sends a successful envelope carrying data.
func RespondData(w http.ResponseWriter, status int, data interface{}) {
	RespondJSON(w, status, Response{Success: true, Data: data})
}

// RespondMessage sends a successful envelope with a message and optional data.
func RespondMessage(w http.ResponseWriter, status int, message string, data interface{}) {
	RespondJSON(w, status, Response{Success: true, Message: message, Data: data})
}

// RespondError sends a failed envelope.
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, Response{Success: false, Error: message})
}

// DecodeJSON decodes the request body into v, answering 400 on failure.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
