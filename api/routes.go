package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes registers the essay API, health checks and metrics.
func setupRoutes(r chi.Router, handlers *routeHandlers) {
	r.Get("/api/essays", handlers.essayHandler.getAllEssays())
	r.Post("/api/essays", handlers.essayHandler.createEssay())
	r.Get("/api/essays/{essayID}", handlers.essayHandler.getEssay())
	r.Put("/api/essays/{essayID}", handlers.essayHandler.updateEssay())
	r.Delete("/api/essays/{essayID}", handlers.essayHandler.deleteEssay())

	r.Get("/health/live", handlers.healthHandler.live())
	r.Get("/health/ready", handlers.healthHandler.ready())
	r.Handle("/metrics", promhttp.Handler())
}
