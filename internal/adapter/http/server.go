// Package http serves the heatmap, risk, geocode, and statistics JSON API
// alongside health, readiness, and metrics endpoints.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/parkwise-risk-service/internal/domain"
	"github.com/couchcryptid/parkwise-risk-service/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Service is the query surface the API exposes. *service.Service implements it.
type Service interface {
	ReadinessChecker
	Heatmap(ctx context.Context, day, hour string) (service.HeatmapResult, error)
	Nearest(ctx context.Context, q service.NearestQuery) (service.NearestResult, error)
	Geocode(address string) (service.GeocodeResult, error)
	Statistics(ctx context.Context) (domain.Statistics, error)
	LocationDetails(ctx context.Context, location string) (domain.LocationDetails, error)
}

// Server exposes the API plus /healthz, /readyz, and /metrics.
type Server struct {
	httpServer *http.Server
	svc        Service
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the API and operational routes.
func NewServer(addr string, svc Service, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      withRequestID(withCORS(accessLog(logger, mux))),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		svc:    svc,
		logger: logger,
	}

	mux.HandleFunc("GET /api/heatmap-data", s.handleHeatmap)
	mux.HandleFunc("GET /api/heatmap-data.geojson", s.handleHeatmapGeoJSON)
	mux.HandleFunc("GET /api/geocode", s.handleGeocode)
	mux.HandleFunc("GET /api/nearest-violations", s.handleNearest)
	mux.HandleFunc("GET /api/statistics", s.handleStatistics)
	mux.HandleFunc("GET /api/location-details/{location}", s.handleLocationDetails)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(svc))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
