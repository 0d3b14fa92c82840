package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sagarc03/filekeep"
)

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// MessageResponse is the body of operations that return no resource.
type MessageResponse struct {
	Message string `json:"message"`
}

// statusByKind is the single mapping from error kind to HTTP status.
var statusByKind = map[filekeep.Kind]int{
	filekeep.KindAuth:       http.StatusUnauthorized,
	filekeep.KindValidation: http.StatusBadRequest,
	filekeep.KindNotFound:   http.StatusNotFound,
	filekeep.KindPermission: http.StatusForbidden,
	filekeep.KindInternal:   http.StatusInternalServerError,
}

// StatusForKind returns the HTTP status for an error kind.
// Unknown kinds map to 500.
func StatusForKind(k filekeep.Kind) int {
	if status, ok := statusByKind[k]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errCode,
		Message: message,
	}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// HandleError classifies err and writes the matching error response.
// Internal errors are logged with full detail and answered with a generic message.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		WriteError(w, StatusForKind(filekeep.KindValidation), string(filekeep.KindValidation), "File exceeds the maximum upload size")
		return
	}

	kind := filekeep.KindOf(err)

	switch kind {
	case filekeep.KindValidation:
		slog.DebugContext(r.Context(), "request rejected", "error", err)
		WriteError(w, StatusForKind(kind), string(kind), err.Error())
	case filekeep.KindAuth:
		slog.DebugContext(r.Context(), "request unauthenticated", "error", err)
		WriteError(w, StatusForKind(kind), string(kind), "Missing or invalid credentials")
	case filekeep.KindNotFound:
		WriteError(w, StatusForKind(kind), string(kind), "File not found")
	case filekeep.KindPermission:
		WriteError(w, StatusForKind(kind), string(kind), "Not allowed to access this file")
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		WriteError(w, StatusForKind(kind), string(filekeep.KindInternal), "Internal server error")
	}
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}
