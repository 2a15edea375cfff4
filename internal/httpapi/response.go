package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/schoolattendance/backend/internal/logger"
	"github.com/schoolattendance/backend/pkg/apperr"
	authsvc "github.com/schoolattendance/backend/pkg/auth"
)

const maxBodyBytes = 1 << 20

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return apperr.Invalid("", fmt.Sprintf("invalid request body: %v", err))
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return apperr.Invalid("", "invalid request body: trailing data")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Error: message})
}

// writeAppError maps the error taxonomy onto HTTP statuses. Storage and
// unexpected errors are logged and answered with a generic message.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *apperr.ValidationError
		af *apperr.AuthFailure
	)
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.As(err, &af):
		writeError(w, http.StatusUnauthorized, af.Message)
	case errors.Is(err, authsvc.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, authsvc.ErrInvalidToken.Error())
	default:
		logger.LogErrorWithContext("Request failed", err, map[string]any{
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": middleware.GetReqID(r.Context()),
		})
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
