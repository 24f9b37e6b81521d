// Package router provides HTTP routing configuration for the alerts read
// API. It sets up routes and applies middleware like CORS.
package router

import (
	"net/http"

	"secmon/internal/handlers"
)

// Router wraps the HTTP mux and provides route configuration.
type Router struct {
	mux      *http.ServeMux
	handlers *handlers.Handlers
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *handlers.Handlers) *Router {
	r := &Router{
		mux:      http.NewServeMux(),
		handlers: h,
	}
	r.setupRoutes()
	return r
}

// setupRoutes configures all HTTP routes for the API.
func (r *Router) setupRoutes() {
	// Alert read endpoints. The API is read-only: alerts are written by the
	// engine and their lifecycle is managed by external operator tooling.
	// Method gating lives in the handlers.
	r.mux.HandleFunc("/api/v1/alerts", r.handlers.ListAlerts)
	r.mux.HandleFunc("/api/v1/alerts/count", r.handlers.CountAlerts)

	// Health check endpoint
	r.mux.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// Handler returns the HTTP handler with middleware applied.
func (r *Router) Handler() http.Handler {
	return corsMiddleware(metricsMiddleware(r.handlers.Metrics())(r.mux))
}
