package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"launchtracker/internal/domain"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Success responses wrap their payload in {"data": ..., "success": true};
// errors carry {"error", "message", "statusCode"} plus per-field details for
// validation failures.

type dataResponse struct {
	Data    any  `json:"data"`
	Success bool `json:"success"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error      string              `json:"error"`
	Message    string              `json:"message"`
	StatusCode int                 `json:"statusCode"`
	Details    []domain.FieldError `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, dataResponse{Data: data, Success: true})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Success: true, Message: msg})
}

func writeError(w http.ResponseWriter, status int, name, msg string) {
	writeJSON(w, status, errorResponse{Error: name, Message: msg, StatusCode: status})
}

// decodeJSON parses a request body, rejecting malformed JSON as a 400.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &domain.ErrValidation{Message: "Invalid JSON body"}
	}
	return nil
}

// pathID parses a numeric chi URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.ErrValidation{Message: "Invalid id in URL"}
	}
	return id, nil
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var validation *domain.ErrValidation
	var unauthorized *domain.ErrUnauthorized
	var forbidden *domain.ErrForbidden
	var notFound *domain.ErrNotFound
	var conflict *domain.ErrConflict

	switch {
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:      "ValidationError",
			Message:    validation.Message,
			StatusCode: http.StatusBadRequest,
			Details:    validation.Fields,
		})
	case errors.As(err, &unauthorized):
		logger.Debug("unauthorized", zap.String("error", err.Error()))
		writeError(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.As(err, &forbidden):
		logger.Warn("forbidden access", zap.String("error", err.Error()))
		writeError(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, "AppError", err.Error())
	// Uniqueness conflicts (duplicate email, duplicate contact) are client
	// errors in this API's status vocabulary, not 409s.
	case errors.As(err, &conflict):
		logger.Debug("conflict", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, "AppError", err.Error())
	default:
		logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "InternalServerError", "An unexpected error occurred")
	}
}
