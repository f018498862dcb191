// cmd/worker-manager/server.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// readinessCheck probes one dependency.
type readinessCheck func(ctx context.Context) error

type healthServer struct {
	checks  map[string]readinessCheck
	workers func() []string
	timeout time.Duration
}

func newRouter(hs *healthServer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/health", hs.health)
	r.Get("/ready", hs.ready)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

func (hs *healthServer) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (hs *healthServer) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), hs.timeout)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(hs.checks))
	for name, check := range hs.checks {
		if err := check(ctx); err != nil {
			deps[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	var workers []string
	if hs.workers != nil {
		workers = hs.workers()
		sort.Strings(workers)
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	writeJSON(w, status, map[string]interface{}{
		"status":       state,
		"dependencies": deps,
		"workers":      workers,
		"time":         time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
