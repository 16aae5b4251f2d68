package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ADITYAK333/satellite-tracker/internal/bodies"
	"github.com/ADITYAK333/satellite-tracker/internal/cache"
	"github.com/ADITYAK333/satellite-tracker/internal/health"
	"github.com/ADITYAK333/satellite-tracker/internal/httputil"
	"github.com/ADITYAK333/satellite-tracker/internal/metrics"
	"github.com/ADITYAK333/satellite-tracker/internal/property"
	"github.com/ADITYAK333/satellite-tracker/internal/tracker"
)

// Tracker is the frame source behind the satellite and bodies routes.
type Tracker interface {
	Refresh(ctx context.Context) (tracker.Frame, error)
	Bodies(ctx context.Context) ([]bodies.Body, bool)
	Ready() bool
	CacheStats() map[string]cache.Stats
}

// Config holds listener settings.
type Config struct {
	Addr       string
	TrustProxy bool // read client IPs from X-Forwarded-For / X-Real-IP
}

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a configured HTTP server. A nil repo leaves the property
// routes unregistered.
func NewServer(cfg Config, t Tracker, repo property.Repository, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.HandleFunc("GET /readyz", health.Readyz(t.Ready))
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /{$}", indexHandler(repo != nil))

	mux.HandleFunc("GET /api/v1/satellites", satellitesHandler(logger, t))
	mux.HandleFunc("GET /api/v1/satellites/types", satelliteTypesHandler(logger, t))
	mux.HandleFunc("GET /api/v1/satellites/{name}", satelliteHandler(logger, t))
	mux.HandleFunc("GET /api/v1/bodies", bodiesHandler(t))
	mux.HandleFunc("GET /api/v1/bodies/{name}", bodyHandler(t))
	mux.HandleFunc("GET /api/v1/cache/stats", cacheStatsHandler(t))

	if repo != nil {
		mux.HandleFunc("GET /api/v1/properties", listPropertiesHandler(repo))
		mux.HandleFunc("POST /api/v1/properties", addPropertyHandler(repo))
		mux.HandleFunc("DELETE /api/v1/properties/{id}", deletePropertyHandler(repo))
	}

	// Build middleware chain: metrics -> logging -> mux.
	var handler http.Handler = mux
	handler = loggingMiddleware(logger, cfg.TrustProxy)(handler)
	handler = metrics.Middleware(handler)

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			// A cold refresh waits on every category timeout in turn.
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		logger: logger,
	}
}

// Handler returns the full middleware chain, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// HTTPServer returns the underlying *http.Server for external control (e.g. shutdown).
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// probePath returns true for health/readiness probe paths that should not log at INFO.
func probePath(path string) bool {
	return path == "/healthz" || path == "/readyz"
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *slog.Logger, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			level := slog.LevelInfo
			if probePath(r.URL.Path) {
				level = slog.LevelDebug
			}

			logger.Log(r.Context(), level, "request",
				"component", "api",
				"method", r.Method,
				"path", r.URL.Path,
				"status", strconv.Itoa(sr.statusCode),
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_ip", httputil.ClientIP(r, trustProxy),
			)
		})
	}
}
