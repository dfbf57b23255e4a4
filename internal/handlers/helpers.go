package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// maxClientErrorLength bounds how much of an error string is echoed back
// to clients. Long errors tend to be wrapped driver messages, which are
// for the logs, not the response.
const maxClientErrorLength = 200

// respondJSON writes data inside the standard success envelope.
func respondJSON(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, map[string]any{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// respondJSONError writes the standard error envelope, truncating the
// message before it reaches the client.
func respondJSONError(w http.ResponseWriter, status int, errorType, message string) {
	writeEnvelope(w, status, map[string]any{
		"success":   false,
		"error":     errorType,
		"message":   truncateClientError(message),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func truncateClientError(message string) string {
	if len(message) > maxClientErrorLength {
		return message[:maxClientErrorLength] + "..."
	}
	return message
}

func writeEnvelope(w http.ResponseWriter, status int, envelope map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
