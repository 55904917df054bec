package metrics

import (
	"encoding/json"
	"net/http"

	"vision-infra/internal/logging"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter returns a router exposing Prometheus metrics and health probes.
// ready reports readiness for /readyz; nil means always ready.
func NewRouter(ready func() bool) *mux.Router {
	r := mux.NewRouter()

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", livenessHandler).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/livez", livenessHandler).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/readyz", readinessHandler(ready)).Methods(http.MethodGet)

	return r
}

func livenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{"status": "alive"})
	}
}

func readinessHandler(ready func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if ready == nil || ready() {
			w.WriteHeader(http.StatusOK)
			writeJSON(w, map[string]string{"status": "ready"})
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		writeJSON(w, map[string]string{"status": "not_ready"})
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn("failed to encode JSON response: %v", err)
	}
}
