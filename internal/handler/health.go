package handler

import (
	"context"
	"encoding/json"
	"net/http"
)

// HealthHandler returns a health check endpoint. check reports whether the
// record store is reachable.
func HealthHandler(backend string, check func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := check(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{
				"status":  "unhealthy",
				"backend": backend,
				"error":   err.Error(),
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "healthy",
			"backend": backend,
		})
	}
}
