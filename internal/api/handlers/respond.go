package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/pharmafind/backend/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps domain error types to HTTP status codes.
// Unavailable and internal errors hide their detail from the client.
func respondWithAppError(w http.ResponseWriter, err error) {
	message := err.Error()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeValidation:
		respondWithError(w, http.StatusBadRequest, message)
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, message)
	case apperrors.ErrorTypeConflict:
		respondWithError(w, http.StatusConflict, message)
	case apperrors.ErrorTypeUnavailable:
		respondWithError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
	default:
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
