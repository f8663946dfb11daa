// Package http provides the API server, routing and shared middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/jfwood/barbican/internal/metrics"
	secretshttp "github.com/jfwood/barbican/internal/secrets/http"
)

// ServerOptions configures optional middleware for the API server.
type ServerOptions struct {
	// CORSEnabled turns on CORS handling for browser clients.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins.
	CORSAllowOrigins string

	// RateLimitEnabled turns on per-tenant rate limiting on write endpoints.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the sustained request rate per tenant.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst capacity per tenant.
	RateLimitBurst int

	// MeterProvider enables HTTP metrics collection when non-nil.
	MeterProvider otelmetric.MeterProvider
	// MetricsNamespace is the namespace for HTTP metric names.
	MetricsNamespace string
}

// Server represents the API HTTP server.
type Server struct {
	db     *sql.DB
	server *http.Server
	logger *slog.Logger
}

// NewServer creates the API server and registers all routes.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
	opts ServerOptions,
	secretHandler *secretshttp.SecretHandler,
	orderHandler *secretshttp.OrderHandler,
	verificationHandler *secretshttp.VerificationHandler,
) *Server {
	s := &Server{
		db:     db,
		logger: logger,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(logger))

	if opts.MeterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(opts.MeterProvider, opts.MetricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(opts.CORSEnabled, opts.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	// Health and readiness endpoints
	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	// Rate limiting applies to write endpoints only, reads stay unthrottled.
	var writeLimit gin.HandlerFunc
	if opts.RateLimitEnabled {
		writeLimit = WriteRateLimitMiddleware(opts.RateLimitRequestsPerSec, opts.RateLimitBurst, logger)
	}
	write := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		if writeLimit == nil {
			return []gin.HandlerFunc{handler}
		}
		return []gin.HandlerFunc{writeLimit, handler}
	}

	v1 := router.Group("/v1/:keystone_id")
	{
		v1.POST("/secrets", write(secretHandler.CreateHandler)...)
		v1.GET("/secrets", secretHandler.ListHandler)
		v1.GET("/secrets/:secret_id", secretHandler.GetHandler)
		v1.PUT("/secrets/:secret_id", write(secretHandler.PutPayloadHandler)...)
		v1.DELETE("/secrets/:secret_id", write(secretHandler.DeleteHandler)...)

		v1.POST("/orders", write(orderHandler.CreateHandler)...)
		v1.GET("/orders", orderHandler.ListHandler)
		v1.GET("/orders/:order_id", orderHandler.GetHandler)
		v1.DELETE("/orders/:order_id", write(orderHandler.DeleteHandler)...)

		v1.POST("/verifications", write(verificationHandler.CreateHandler)...)
		v1.GET("/verifications/:verification_id", verificationHandler.GetHandler)
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports readiness to serve traffic, including database
// connectivity.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"database": "ok"}

	if s.db == nil {
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// Start starts the API HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the API HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
