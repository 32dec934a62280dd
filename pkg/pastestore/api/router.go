package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pasteshare/pasteshare/internal/api/handlers"
	"github.com/pasteshare/pasteshare/internal/id"
	"github.com/pasteshare/pasteshare/internal/logger"
	"github.com/pasteshare/pasteshare/pkg/metrics"
	"github.com/pasteshare/pasteshare/pkg/pastestore/store"
	"github.com/pasteshare/pasteshare/pkg/upload"
)

// NewRouter creates and configures the chi router with all middleware and routes.
//
// The router is configured with:
//   - Request ID middleware for request tracking
//   - Real IP extraction for proper client identification
//   - Custom request logging using the internal logger
//   - Panic recovery to prevent server crashes
//   - Request timeout to prevent hung requests
//
// Routes:
//   - GET /health - Liveness probe
//   - GET /health/ready - Readiness probe
//   - GET /metrics - Prometheus scrape endpoint
//   - POST /api/pastes - Create a paste (JSON or multipart)
//   - GET /api/pastes/recent - Recent public pastes
//   - GET /api/pastes/check-url/{url} - Custom URL availability
//   - GET /api/pastes/{identifier} - Fetch a paste
//   - PUT /api/pastes/{identifier} - Update a paste
//   - DELETE /api/pastes/{identifier} - Delete a paste
//   - POST /api/pastes/{identifier}/verify - Password gate
//   - GET /api/pastes/{identifier}/qr - Share URL QR code
//   - GET /raw/{identifier} - Plain text body
//   - GET /files/{id} - Attachment download
func NewRouter(pasteStore store.Store, uploads upload.Storage, m *metrics.PasteMetrics, cfg ServerConfig) http.Handler {
	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(httpMetrics(m))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	healthHandler := handlers.NewHealthHandler(pasteStore)
	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})

	r.Method("GET", "/metrics", metrics.Handler())

	pasteHandler := handlers.NewPasteHandler(pasteStore, uploads, id.New(cfg.IDLength), m, cfg.BaseURL)
	fileHandler := handlers.NewFileHandler(pasteStore, uploads)

	r.Route("/api/pastes", func(r chi.Router) {
		r.Post("/", pasteHandler.Create)
		r.Get("/recent", pasteHandler.Recent)
		r.Get("/check-url/{url}", pasteHandler.CheckURL)
		r.Get("/{identifier}", pasteHandler.Get)
		r.Put("/{identifier}", pasteHandler.Update)
		r.Delete("/{identifier}", pasteHandler.Delete)
		r.Post("/{identifier}/verify", pasteHandler.Verify)
		r.Get("/{identifier}/qr", pasteHandler.QR)
	})

	r.Get("/raw/{identifier}", pasteHandler.Raw)
	r.Get("/files/{id}", fileHandler.Download)

	return r
}

// isHealthPath reports whether the path belongs to a health probe.
func isHealthPath(path string) bool {
	return path == "/health" || strings.HasPrefix(path, "/health/")
}

// requestLogger is a custom middleware that logs requests using the internal logger.
//
// It logs:
//   - Request start (DEBUG level): method, path, remote addr
//   - Request completion (INFO level): method, path, status, duration
//   - Healthcheck requests are logged at DEBUG level to reduce noise
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		logger.Debug("API request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		// Wrap response writer to capture status code
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)

		logArgs := []any{
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", duration.String(),
		}

		// Log healthcheck requests at DEBUG to avoid polluting logs in k8s
		if isHealthPath(r.URL.Path) {
			logger.Debug("API request completed", logArgs...)
		} else {
			logger.Info("API request completed", logArgs...)
		}
	})
}

// httpMetrics records request counts and latency per route pattern. The chi
// route pattern keeps the label cardinality bounded.
func httpMetrics(m *metrics.PasteMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			m.RecordHTTPRequest(r.Method, route, strconv.Itoa(ww.Status()), time.Since(start))
		})
	}
}
