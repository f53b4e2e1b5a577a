// internal/api/handler/handler.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"transferbook/internal/util"
)

// DefaultTimeout bounds request handling time at the router level.
const DefaultTimeout = 30 * time.Second

// actorHeader carries the acting user's ID, set by the upstream auth layer.
const actorHeader = "X-Actor-ID"

// respondWithJSON sends a JSON response.
func respondWithJSON(logger *slog.Logger, w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError maps service errors to HTTP statuses.
func respondWithError(logger *slog.Logger, w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrNotFound),
		util.IsError(err, util.ErrUserNotFound),
		util.IsError(err, util.ErrTransferNotFound),
		util.IsError(err, util.ErrPaymentNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	case util.IsError(err, util.ErrNotAdmin):
		statusCode = http.StatusForbidden
		message = "Admin role required"
	case util.IsError(err, util.ErrInvalidTransition):
		statusCode = http.StatusConflict
		message = "Invalid transfer status transition"
	case util.IsError(err, util.ErrSettingsConflict):
		statusCode = http.StatusConflict
		message = "Settings were modified concurrently"
	case util.IsError(err, util.ErrDebtThresholdExceeded):
		statusCode = http.StatusUnprocessableEntity
		message = "Debt threshold exceeded"
	case util.IsError(err, util.ErrInsufficientFloat):
		statusCode = http.StatusUnprocessableEntity
		message = "Insufficient main balance"
	default:
		logger.Error("Unhandled service error", "error", err)
	}

	respondWithJSON(logger, w, statusCode, map[string]string{"error": message})
}

// actorID extracts the acting user's ID from the request headers.
func actorID(r *http.Request) (int64, error) {
	raw := r.Header.Get(actorHeader)
	if raw == "" {
		return 0, util.ErrNotAdmin
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, util.ErrInvalidInput
	}
	return id, nil
}

// pathID parses a path parameter as an int64.
func pathID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, util.ErrInvalidInput
	}
	return id, nil
}

// pagination parses limit/offset query parameters with defaults.
func pagination(r *http.Request) (limit, offset int) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	offset, err = strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
