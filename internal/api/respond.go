package api

import (
	"net/http"

	"github.com/goccy/go-json"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

func indexHandler(withProperties bool) http.HandlerFunc {
	routes := []string{
		"GET /healthz",
		"GET /readyz",
		"GET /metrics",
		"GET /api/v1/satellites?search=&type=",
		"GET /api/v1/satellites/types",
		"GET /api/v1/satellites/{name}",
		"GET /api/v1/bodies?type=",
		"GET /api/v1/bodies/{name}",
		"GET /api/v1/cache/stats",
	}
	if withProperties {
		routes = append(routes,
			"GET /api/v1/properties",
			"POST /api/v1/properties",
			"DELETE /api/v1/properties/{id}",
		)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "satellite-tracker",
			"routes":  routes,
		})
	}
}
