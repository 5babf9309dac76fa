package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/edvin/signalstart/internal/core"
	"github.com/edvin/signalstart/internal/stub"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// WriteServiceError maps coordinator and registry errors to HTTP statuses.
func WriteServiceError(w http.ResponseWriter, err error) {
	WriteError(w, StatusFor(err), err.Error())
}

func StatusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidInvocation),
		errors.Is(err, core.ErrIdentityMismatch),
		errors.Is(err, stub.ErrUnknownSignal):
		return http.StatusBadRequest
	case errors.Is(err, stub.ErrUnknownWorkflow):
		return http.StatusNotFound
	case errors.Is(err, core.ErrAlreadyCompleted):
		return http.StatusConflict
	case errors.Is(err, core.ErrBackendUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
