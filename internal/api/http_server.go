package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dlr1251/chimeneasluque/internal/chat"
	"github.com/dlr1251/chimeneasluque/internal/domain"
	"github.com/dlr1251/chimeneasluque/internal/gallery"
	"github.com/dlr1251/chimeneasluque/internal/metrics"
	"github.com/dlr1251/chimeneasluque/internal/service"

	"github.com/rs/zerolog"
)

// Config carries the HTTP surface settings.
type Config struct {
	Port              int
	ChatRateLimit     int
	ChatRateWindow    time.Duration
	ExportDownloadsAs string
}

// HTTPServer exposes the storefront API: reservations, availability,
// chat, gallery and the xlsx export.
type HTTPServer struct {
	cfg          Config
	reservations *service.ReservationService
	chatSvc      *chat.Service
	gallery      *gallery.Service
	limiter      domain.RateLimitRepository
	logger       *zerolog.Logger
	server       *http.Server
}

func NewHTTPServer(
	cfg Config,
	reservations *service.ReservationService,
	chatSvc *chat.Service,
	gallerySvc *gallery.Service,
	limiter domain.RateLimitRepository,
	logger *zerolog.Logger,
) *HTTPServer {
	if cfg.ExportDownloadsAs == "" {
		cfg.ExportDownloadsAs = "reservas.xlsx"
	}

	srv := &HTTPServer{
		cfg:          cfg,
		reservations: reservations,
		chatSvc:      chatSvc,
		gallery:      gallerySvc,
		limiter:      limiter,
		logger:       logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", srv.handleHealth)
	mux.HandleFunc("/api/reservations", srv.handleReservations)
	mux.HandleFunc("/api/reservations/slots", srv.handleSlots)
	mux.HandleFunc("/api/reservations/export", srv.handleExport)
	mux.HandleFunc("/api/chat", srv.handleChat)
	mux.HandleFunc("/api/images", srv.handleImages)

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.loggingMiddleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return srv
}

// Handler returns the full middleware-wrapped handler, used by tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		metrics.IncHTTP(r.URL.Path)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// clientIP prefers the first X-Forwarded-For hop so rate limiting works
// behind the reverse proxy; falls back to the socket peer.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}
