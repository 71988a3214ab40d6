package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// JSONErrorResponse is the standard error body for every API route.
type JSONErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, logger zerolog.Logger, status int, message string) {
	if err := writeJSON(w, status, JSONErrorResponse{Message: message, Code: status}); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON error response")
		http.Error(w, message, status)
	}
}
