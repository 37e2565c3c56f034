// Package apierror renders domain failures as structured JSON error bodies.
// Every error response, including unanticipated ones, carries the same shape
// so clients never see a bare transport-level failure.
package apierror

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Error kinds used across the API surface.
const (
	KindValidation       = "validation_error"
	KindUnauthorized     = "unauthorized"
	KindNotFound         = "not_found"
	KindEndpointNotFound = "endpoint_not_found"
	KindInternal         = "internal_error"
)

type Response struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
	Error     string `json:"error"`
	Status    int    `json:"status"`
}

// Write renders the error body and logs it from the request-scoped logger:
// client errors at warn, server errors at error.
func Write(w http.ResponseWriter, r *http.Request, status int, kind, message string, err error) {
	logger := zerolog.Ctx(r.Context())
	event := logger.Warn()
	if status >= 500 {
		event = logger.Error()
	}
	event.
		Err(err).
		Int("status", status).
		Str("kind", kind).
		Str("path", r.URL.Path).
		Str("method", r.Method).
		Msg(message)

	body := Response{
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      r.URL.Path,
		Error:     kind,
		Status:    status,
	}

	payload, marshalErr := json.Marshal(body)
	if marshalErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"Internal Server Error","error":"internal_error","status":500}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}
