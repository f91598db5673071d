package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/ChitDraw_Go/internal/handler"
	"github.com/osse101/ChitDraw_Go/internal/logger"
	"github.com/osse101/ChitDraw_Go/internal/metrics"
	"github.com/osse101/ChitDraw_Go/internal/raffle"
	"github.com/osse101/ChitDraw_Go/internal/sse"
)

// Config holds the HTTP surface settings
type Config struct {
	Port                   int
	TrustedProxies         []string
	MaxRequestBodyBytes    int64
	AdminMaxFailedAttempts int
	AdminLockoutWindow     time.Duration
	SSEKeepaliveInterval   time.Duration
}

// Dependencies are the components the routes call into
type Dependencies struct {
	Raffle    raffle.Service
	Projector handler.Projector
	Store     handler.Pinger
	Hub       *sse.Hub
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(cfg Config, deps Dependencies) *Server {
	maxBody := cfg.MaxRequestBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxRequestBodyBytes
	}

	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector(DefaultRequestLimit, DefaultRateWindow)
	lockout := NewAdminLockout(cfg.AdminMaxFailedAttempts, cfg.AdminLockoutWindow)

	r.Use(SecurityHeadersMiddleware())
	r.Use(loggingMiddleware)
	r.Use(SecurityLoggingMiddleware(cfg.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(maxBody))
	r.Use(metrics.Middleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(deps.Store))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		participantHandler := handler.NewParticipantHandler(deps.Raffle)
		r.Route("/participant", func(r chi.Router) {
			r.Post("/login", participantHandler.HandleLogin)
			r.Post("/draw", participantHandler.HandleDraw)
		})

		r.Get("/leaderboard", handler.HandleGetLeaderboard(deps.Projector))
		r.Get("/status", handler.HandleGetStatus(deps.Projector))
		r.Get("/stream", sse.Handler(deps.Hub, cfg.SSEKeepaliveInterval))

		adminHandler := handler.NewAdminHandler(deps.Raffle)
		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminAuthMiddleware(deps.Raffle, lockout, cfg.TrustedProxies, detector))

			r.Post("/auth", adminHandler.HandleAuth)

			r.Route("/participants", func(r chi.Router) {
				r.Get("/", adminHandler.HandleListParticipants)
				r.Post("/", adminHandler.HandleRegisterParticipant)
				r.Delete("/{id}", adminHandler.HandleDeleteParticipant)
			})

			r.Route("/raffle", func(r chi.Router) {
				r.Get("/", adminHandler.HandleGetPool)
				r.Post("/start", adminHandler.HandleStart)
				r.Post("/reset", adminHandler.HandleReset)
			})

			r.Put("/secret", adminHandler.HandleSetSecret)
		})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: ReadHeaderTimeout,
		// No WriteTimeout: /api/v1/stream responses stay open
	}
	// Closing the hub ends open streams so Shutdown does not wait on them
	httpServer.RegisterOnShutdown(deps.Hub.Stop)

	return &Server{httpServer: httpServer}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Flush keeps the event stream working through the wrapper
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func isQuietPath(path string) bool {
	for _, p := range QuietPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		if isQuietPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAdminCode) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
