package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/services"
	"github.com/desertthunder/setlist/internal/shared"
)

// errorBody is the JSON error payload returned by all API endpoints.
type errorBody struct {
	Detail string `json:"detail"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// errorStatus maps the application error taxonomy onto HTTP status codes.
// Upstream failures mirror the provider's status when it is a meaningful
// client-facing code, else 502.
func errorStatus(err error) int {
	var upstream *services.UpstreamError
	if errors.As(err, &upstream) {
		if upstream.Status >= 400 && upstream.Status < 500 {
			return upstream.Status
		}
		return http.StatusBadGateway
	}

	switch {
	case errors.Is(err, shared.ErrUnauthenticated), errors.Is(err, shared.ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrInvalidInput), errors.Is(err, shared.ErrMissingArgument):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, shared.ErrUpstream), errors.Is(err, shared.ErrExchange), errors.Is(err, shared.ErrRefresh):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError surfaces a failure as a structured JSON error with a status
// from the taxonomy. Errors are never swallowed on the way up, only logged.
func respondError(w http.ResponseWriter, logger *log.Logger, err error) {
	status := errorStatus(err)

	if status >= 500 {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Debug("request rejected", "status", status, "error", err)
	}

	respondJSON(w, status, errorBody{Detail: err.Error()})
}
