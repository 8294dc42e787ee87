package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/palmithor/scorebrawl/internal/apperror"
)

const maxBodyBytes = 1 << 20

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// DecodeJSON decodes a request body into v. Malformed bodies are BAD_REQUEST errors.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperror.Wrap(apperror.KindBadRequest, "invalid request body", err)
	}
	return nil
}
