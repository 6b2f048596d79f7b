package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/brightbeginnings/daycare/internal/auth"
	"github.com/brightbeginnings/daycare/internal/employees"
	"github.com/brightbeginnings/daycare/internal/remix"
	"github.com/brightbeginnings/daycare/internal/storage"
)

// httpStatusFromError maps domain errors to HTTP status codes.
func httpStatusFromError(err error) int {
	switch {
	case storage.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, remix.ErrBaseNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrExists),
		errors.Is(err, employees.ErrAlreadyClockedIn),
		errors.Is(err, employees.ErrNotClockedIn),
		errors.Is(err, employees.ErrAlreadyDecided),
		errors.Is(err, employees.ErrNoAllocation),
		errors.Is(err, employees.ErrPINInUse):
		return http.StatusConflict
	case errors.Is(err, employees.ErrInactive), errors.Is(err, employees.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidPIN),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns the message shown to clients. Server errors are
// replaced by a fixed message so internals do not leak.
func publicMessage(err error, status int) string {
	switch {
	case errors.Is(err, remix.ErrBaseNotFound):
		return remix.ErrBaseNotFound.Error()
	case errors.Is(err, remix.ErrNotConfigured):
		return remix.ErrNotConfigured.Error()
	case errors.Is(err, remix.ErrUpstream):
		return remix.ErrUpstream.Error()
	case errors.Is(err, auth.ErrInvalidCredentials):
		return auth.ErrInvalidCredentials.Error()
	case errors.Is(err, auth.ErrInvalidPIN):
		return auth.ErrInvalidPIN.Error()
	case errors.Is(err, storage.ErrNotFound):
		return "Not found"
	case status >= 500:
		return "Internal server error"
	default:
		return err.Error()
	}
}

// writeError logs and writes err with its mapped status.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatusFromError(err)
	level := slog.LevelWarn
	if status >= 500 {
		level = slog.LevelError
	}
	s.logger.Log(r.Context(), level, "Request error",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"error", err,
	)
	writeErrorMessage(w, status, publicMessage(err, status))
}
