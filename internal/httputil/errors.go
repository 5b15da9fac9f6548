package httputil

import (
	"encoding/json"
	"net/http"
)

// APIError is the client-facing error body. Details is only populated for
// generation failures, where it carries the terminal provider's message.
type APIError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func WriteError(w http.ResponseWriter, requestID string, statusCode int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	if requestID != "" {
		w.Header().Set("X-Request-ID", requestID)
	}
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(APIError{
		Error:   message,
		Details: details,
	})
}

func WriteBadRequestError(w http.ResponseWriter, requestID, message string) {
	WriteError(w, requestID, http.StatusBadRequest, message, "")
}

// WriteGenerateFailure reports a whole-chain failure: the terminal
// provider's error message rides in details.
func WriteGenerateFailure(w http.ResponseWriter, requestID, details string) {
	WriteError(w, requestID, http.StatusInternalServerError, "Failed to generate report", details)
}

func WriteRateLimitError(w http.ResponseWriter, requestID, message string) {
	WriteError(w, requestID, http.StatusTooManyRequests, message, "")
}

func WriteInternalError(w http.ResponseWriter, requestID, message string) {
	WriteError(w, requestID, http.StatusInternalServerError, message, "")
}
