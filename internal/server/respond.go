package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/eventvms/vms/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps service errors onto status codes. Anything not
// in the taxonomy is a server fault: logged in full, reported without
// internal detail.
func writeServiceError(w http.ResponseWriter, err error) {
	var conflict *service.ConflictError
	switch {
	case errors.Is(err, service.ErrMissingFields):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrStallNotFound), errors.Is(err, service.ErrVisitorNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidAccessCode):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &conflict):
		writeError(w, http.StatusForbidden, conflict.Error())
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "unexpected server error")
	}
}
