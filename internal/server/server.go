// Package server wires the HTTP control API: routes, middleware and lifecycle.
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

	"github.com/osse101/reelflow/internal/gameserver"
	"github.com/osse101/reelflow/internal/handler"
	"github.com/osse101/reelflow/internal/logger"
	"github.com/osse101/reelflow/internal/metrics"
	"github.com/osse101/reelflow/internal/sse"
)

// Session is what the API needs from the running game session.
type Session interface {
	handler.SessionService
	handler.HealthChecker
	ID() string
}

// Options configures NewServer.
type Options struct {
	Port           int
	APIKey         string
	TrustedProxies []string
	Profile        string

	Session Session
	History handler.HistoryReader
	Hub     *sse.Hub

	// Simulator is served under /sim when set, guarded by SimulatorAPIKey.
	Simulator       *gameserver.Simulator
	SimulatorAPIKey string
}

type Server struct {
	httpServer *http.Server
	router     chi.Router
}

// NewServer creates a new Server instance
func NewServer(opts Options) *Server {
	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(opts.APIKey, opts.TrustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(opts.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get(PathHealthz, handler.HandleHealthz())
	r.Get(PathReadyz, handler.HandleReadyz(opts.Session))
	r.Get(PathVersion, handler.HandleVersion(opts.Profile))
	r.Handle(PathMetrics, promhttp.Handler())

	sessionHandler := handler.NewSessionHandler(opts.Session, opts.History)
	r.Route(PathAPI, func(r chi.Router) {
		if opts.Hub != nil {
			r.Get("/events", sse.Handler(opts.Hub))
		}

		r.Route("/session", func(r chi.Router) {
			r.Use(sessionContext(opts.Session))

			r.Get("/state", sessionHandler.HandleGetState)
			r.Get("/history", sessionHandler.HandleGetHistory)
			r.Post("/spin", sessionHandler.HandleSpin)
			r.Post("/force-stop", sessionHandler.HandleForceStop)
			r.Post("/bet", sessionHandler.HandleBetChange)
			r.Post("/buy-feature", sessionHandler.HandleBuyFeature)
			r.Post("/speed", sessionHandler.HandleSpeedChange)
			r.Post("/popup/close", sessionHandler.HandlePopupClose)
			r.Post("/history/show", sessionHandler.HandleHistoryShow)

			r.Route("/autoplay", func(r chi.Router) {
				r.Post("/start", sessionHandler.HandleAutoplayStart)
				r.Post("/stop", sessionHandler.HandleAutoplayStop)
			})

			r.Route("/free-round", func(r chi.Router) {
				r.Post("/accept", sessionHandler.HandleFreeRoundAccept)
				r.Post("/decline", sessionHandler.HandleFreeRoundDecline)
			})

			r.Route("/error", func(r chi.Router) {
				r.Post("/dismiss", sessionHandler.HandleErrorDismiss)
				r.Post("/restore", sessionHandler.HandleErrorRestore)
			})
		})
	})

	if opts.Simulator != nil {
		r.Mount(PathSimulator, gameserver.Handler(opts.Simulator, opts.SimulatorAPIKey))
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           r,
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
		router: r,
	}
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// sessionContext scopes request logs to the session.
func sessionContext(sess Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logger.WithSessionID(r.Context(), sess.ID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
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

// Flush keeps event streams working through the wrapper.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for probes and scraping
		if strings.HasPrefix(r.URL.Path, PathHealthz) ||
			strings.HasPrefix(r.URL.Path, PathReadyz) ||
			strings.HasPrefix(r.URL.Path, PathMetrics) {
			next.ServeHTTP(w, r)
			return
		}

		ctx := logger.WithRequestID(r.Context(), logger.GenerateID())
		r = r.WithContext(ctx)
		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
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
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	slog.Default().Info(LogMsgServerStopping)
	return s.httpServer.Shutdown(ctx)
}
