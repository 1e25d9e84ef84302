package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/prachar-hq/apiserver/internal/apperr"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeAppError maps a service error onto its HTTP status. Internal detail
// never reaches the caller; only the caller-safe message does.
func writeAppError(w http.ResponseWriter, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		writeError(w, http.StatusBadRequest, apperr.Message(err))
	case apperr.KindAuthentication:
		writeError(w, http.StatusUnauthorized, apperr.Message(err))
	case apperr.KindAuthorization:
		writeError(w, http.StatusForbidden, apperr.Message(err))
	case apperr.KindNotFound:
		writeError(w, http.StatusNotFound, apperr.Message(err))
	default:
		writeError(w, http.StatusInternalServerError, apperr.Message(err))
	}
}
