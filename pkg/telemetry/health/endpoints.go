package health

import (
	"encoding/json"
	"net/http"
)

// LivenessHandler serves the liveness probe. Always 200.
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, r, c.Liveness(r.Context()), http.StatusOK)
	}
}

// ReadinessHandler serves the readiness probe: 200 when every registered
// component check passes, 503 otherwise.
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := c.Readiness(r.Context())
		code := http.StatusOK
		if status.Status == "unhealthy" {
			code = http.StatusServiceUnavailable
		}
		writeStatus(w, r, status, code)
	}
}

// RegisterEndpoints mounts /health and /ready on the mux.
func (c *Checker) RegisterEndpoints(mux *http.ServeMux) {
	mux.HandleFunc("/health", c.LivenessHandler())
	mux.HandleFunc("/ready", c.ReadinessHandler())
}

func writeStatus(w http.ResponseWriter, r *http.Request, status Status, code int) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if r.Method != http.MethodHead {
		_ = json.NewEncoder(w).Encode(status)
	}
}
