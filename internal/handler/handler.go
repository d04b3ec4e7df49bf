package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"decant-store/internal/middleware"
	"decant-store/internal/model"
	"decant-store/internal/session"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeDomainError maps a domain error onto the right HTTP status. Unknown
// errors become an opaque 500.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal error", logger)
		return
	}

	status := http.StatusInternalServerError
	switch domainErr.Code {
	case model.ErrCodeNotAuthenticated:
		status = http.StatusUnauthorized
	case model.ErrCodeInvalidCredentials:
		status = http.StatusUnauthorized
	case model.ErrCodeDuplicateUser:
		status = http.StatusConflict
	case model.ErrCodeProductNotFound, model.ErrCodeLineNotFound:
		status = http.StatusNotFound
	case model.ErrCodeEmptyCart, model.ErrCodeInvalidQuantity,
		model.ErrCodeMissingField, model.ErrCodeInvalidJSON:
		status = http.StatusBadRequest
	case model.ErrCodeMailNotConfigured:
		status = http.StatusServiceUnavailable
	}

	logger.Warn().Str("code", domainErr.Code).Int("status", status).Msg(domainErr.Message)
	writeJSON(w, status, model.ErrorResponse{Error: domainErr.Code, Message: domainErr.Message})
}

// sessionFor resolves the request's session token. The session gate has
// already vetted protected routes; this re-resolution keeps handlers honest
// on unprotected ones too.
func sessionFor(r *http.Request, manager *session.Manager) (*session.Session, bool) {
	token := r.Header.Get(middleware.SessionTokenHeader)
	if token == "" {
		return nil, false
	}
	return manager.Get(token)
}
