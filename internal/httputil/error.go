package httputil

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/palmithor/scorebrawl/internal/apperror"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error writes err as a JSON error, choosing the status from its apperror kind.
// Errors without a kind are internal and their message is not exposed.
func Error(w http.ResponseWriter, msg string, err error) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}

	switch apperror.KindOf(err) {
	case apperror.KindNotFound:
		NotFound(w, msg, err)
	case apperror.KindForbidden:
		Forbidden(w, msg, err)
	case apperror.KindBadRequest:
		BadRequest(w, msg, err)
	case apperror.KindConflict:
		Conflict(w, msg, err)
	default:
		InternalServerError(w, msg, err)
	}
}

func InternalServerError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	writeError(w, http.StatusInternalServerError, "INTERNAL", "Internal Server Error")
}

func BadRequest(w http.ResponseWriter, msg string, err error) {
	logWarn("bad request", msg, err)
	writeError(w, http.StatusBadRequest, string(apperror.KindBadRequest), msg)
}

func NotFound(w http.ResponseWriter, msg string, err error) {
	logWarn("not found", msg, err)
	writeError(w, http.StatusNotFound, string(apperror.KindNotFound), msg)
}

func Forbidden(w http.ResponseWriter, msg string, err error) {
	logWarn("forbidden", msg, err)
	writeError(w, http.StatusForbidden, string(apperror.KindForbidden), msg)
}

func Conflict(w http.ResponseWriter, msg string, err error) {
	logWarn("conflict", msg, err)
	writeError(w, http.StatusConflict, string(apperror.KindConflict), msg)
}

func Unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
}

func TooManyRequests(w http.ResponseWriter) {
	writeError(w, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", http.StatusText(http.StatusTooManyRequests))
}

func logWarn(what, msg string, err error) {
	if err != nil {
		slog.Warn(what, "message", msg, "error", err)
	} else {
		slog.Warn(what, "message", msg)
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	JSON(w, status, errorBody{Code: code, Message: msg})
}
