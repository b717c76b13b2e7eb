package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// respondJSON writes v as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// respondError writes a JSON error envelope.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondValidation writes a 422 with the full problem list.
func respondValidation(w http.ResponseWriter, problems []string) {
	respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"valid":    false,
		"problems": problems,
	})
}

// methodNotAllowed rejects the request, advertising the allowed method.
func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	respondError(w, http.StatusMethodNotAllowed, "method not allowed")
}
