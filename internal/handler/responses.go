package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/osse101/reelflow/internal/domain"
	"github.com/osse101/reelflow/internal/session"
)

// Standard response types for consistent API responses

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// IntentResponse reports whether an intent was taken and the view after it.
type IntentResponse struct {
	Accepted bool         `json:"accepted"`
	Message  string       `json:"message"`
	View     session.View `json:"view"`
}

// HistoryResponse lists recent rounds, newest first.
type HistoryResponse struct {
	Rounds []domain.RoundRecord `json:"rounds"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// headers are already sent
		slog.Error(LogMsgEncodeFailed, "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(LogMsgWriteFailed, "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// mapServiceErrorToUserMessage maps session errors to HTTP responses users can act upon.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrSessionClosed):
		return http.StatusServiceUnavailable, ErrMsgSessionClosedError
	case errors.Is(err, domain.ErrSessionLoading):
		return http.StatusServiceUnavailable, ErrMsgSessionLoadingErr
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrMsgTimeoutError
	case errors.Is(err, domain.ErrInvalidBet):
		return http.StatusBadRequest, ErrMsgInvalidBetError
	case errors.Is(err, domain.ErrUnknownFeature):
		return http.StatusBadRequest, ErrMsgUnknownFeatureErr
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
