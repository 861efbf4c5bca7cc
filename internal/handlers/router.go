package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"blueprint/internal/metrics"
	"blueprint/internal/workspace"
)

// NewRouter wires every endpoint behind the CORS middleware. Metrics are
// registered on reg and served from /metrics. ws may be nil.
func NewRouter(reg *prometheus.Registry, ws *workspace.Workspace, corsOrigin string) http.Handler {
	d := &Design{Metrics: metrics.New(reg), Workspace: ws}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", HealthHandler)
	mux.HandleFunc("/validate", d.ValidateHandler)
	mux.HandleFunc("/render", d.RenderHandler)
	mux.HandleFunc("/project", d.ProjectHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return Cors(corsOrigin)(mux)
}

// Cors allows browser clients from origin ("*" when empty) and answers
// preflight requests directly.
func Cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "3600")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
