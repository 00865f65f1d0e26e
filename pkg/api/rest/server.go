package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kgraph/kgraph/pkg/api/rest/middleware"
	"github.com/kgraph/kgraph/pkg/config"
	"github.com/kgraph/kgraph/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerConfig holds the REST server configuration
type ServerConfig struct {
	Host        string
	Port        int
	CORSEnabled bool
	CORSOrigins []string
	Auth        middleware.AuthConfig
	RateLimit   middleware.RateLimitConfig
}

// Server represents the REST API server
type Server struct {
	config     ServerConfig
	handler    *Handler
	httpServer *http.Server
	mux        *http.ServeMux
}

// NewServer creates a new REST API server over a freshly constructed
// in-memory graph Service.
func NewServer(serverCfg ServerConfig, appCfg *config.Config, metrics *observability.Metrics, logger *observability.Logger) *Server {
	svc := NewService(appCfg, metrics, logger)
	handler := NewHandler(svc)

	server := &Server{
		config:  serverCfg,
		handler: handler,
		mux:     http.NewServeMux(),
	}
	server.setupRoutes()

	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", serverCfg.Host, serverCfg.Port),
		Handler:      server.withMiddleware(server.mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server
}

const graphPrefix = "/v1/graphs/"

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/v1/health", s.handler.HealthCheck)
	s.mux.Handle("/metrics", promhttp.Handler())
	s.mux.HandleFunc(graphPrefix, s.routeGraphs)
}

// routeGraphs dispatches every /v1/graphs/{id}/{action}[/{itemID}] request.
func (s *Server) routeGraphs(w http.ResponseWriter, r *http.Request) {
	graphID, rest, ok := splitGraphPath(r.URL.Path, graphPrefix)
	if !ok {
		writeError(w, "Invalid URL format, expected /v1/graphs/{id}/{action}", http.StatusBadRequest)
		return
	}

	action, itemID, _ := splitGraphPath("/"+rest, "/")

	switch action {
	case "build":
		s.handler.Build(w, r, graphID)
	case "search":
		s.handler.Search(w, r, graphID)
	case "items":
		if itemID == "" {
			s.handler.AddItem(w, r, graphID)
		} else {
			s.handler.RemoveItem(w, r, graphID, itemID)
		}
	case "export":
		s.handler.Export(w, r, graphID)
	default:
		http.NotFound(w, r)
	}
}

// withMiddleware wraps the handler with all middleware
func (s *Server) withMiddleware(handler http.Handler) http.Handler {
	// Apply middleware in reverse order (last one wraps first)

	// 4. Authentication (innermost, runs last)
	handler = middleware.AuthMiddleware(s.config.Auth)(handler)

	// 3. Rate limiting
	rateLimiter := middleware.NewRateLimiter(s.config.RateLimit)
	handler = middleware.RateLimitMiddleware(rateLimiter)(handler)

	// 2. CORS middleware
	if s.config.CORSEnabled {
		handler = corsMiddleware(s.config.CORSOrigins)(handler)
	}

	// 1. Logging middleware (outermost)
	handler = loggingMiddleware(handler)

	return handler
}

// Start starts the REST API server
func (s *Server) Start() error {
	observability.Infof("Starting REST API server on %s:%d", s.config.Host, s.config.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	observability.Info("Shutting down REST API server...")
	return s.httpServer.Shutdown(ctx)
}

// loggingMiddleware logs all HTTP requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		observability.Infof("%s %s %d %v", r.Method, r.URL.Path, wrapped.statusCode, duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// corsMiddleware adds CORS headers
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowed := false
			if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
				allowed = true
				origin = "*"
			} else {
				for _, allowedOrigin := range allowedOrigins {
					if allowedOrigin == origin {
						allowed = true
						break
					}
				}
			}

			if allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.Header().Set("Access-Control-Max-Age", "3600")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
