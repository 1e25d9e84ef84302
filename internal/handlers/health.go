package handlers

import (
	"context"
	"net/http"
)

// Pinger checks connectivity to the document store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports store connectivity. Unlike every other endpoint, the
// underlying error message is surfaced: the health check is for operators,
// not untrusted callers.
func Health(pinger Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := pinger.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status: "error",
				Error:  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
