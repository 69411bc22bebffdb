package handler

import (
	"encoding/json"
	"net/http"

	"sweetshop/internal/middleware"
	"sweetshop/pkg/errors"
	"sweetshop/pkg/logger"
)

// writeJSON writes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}, log *logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, appErr *errors.AppError, log *logger.Logger) {
	middleware.WriteErrorResponse(w, appErr, log)
}
