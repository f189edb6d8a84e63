package main

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nostr-search/internal/metrics"
	"nostr-search/internal/search"
	"nostr-search/templates"
)

// Request body size limits
const (
	maxBodySize = 32 * 1024 // 32KB
)

type server struct {
	searcher search.Searcher
	sessions *sessionStore
	gatherer prometheus.Gatherer
	metrics  *metrics.Metrics
	logger   *slog.Logger
	page     *template.Template
}

func newServer(a *app) *server {
	return newServerWith(a.search, a.cfg.PageStep, a.registry, a.metrics, a.logger)
}

func newServerWith(searcher search.Searcher, step int, gatherer prometheus.Gatherer, m *metrics.Metrics, logger *slog.Logger) *server {
	return &server{
		searcher: searcher,
		sessions: newSessionStore(searcher, step, m),
		gatherer: gatherer,
		metrics:  m,
		logger:   logger,
		page:     template.Must(template.New("search").Funcs(templateFuncs).Parse(templates.GetSearchTemplates())),
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogging(s.logger, s.metrics))
	r.Use(securityHeaders)
	r.Use(limitBody(maxBodySize))

	r.Get("/", s.handleIndex)
	r.Get("/search", s.handleSearch)
	r.Get("/search/more", s.handleMore)
	r.Get("/note/{id}/qr.png", s.handleNoteQR)
	r.Get("/static/app.js", handleScript)
	r.Get("/health", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return r
}

// limitBody caps request body size
func limitBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// securityHeaders adds security headers to every response
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Content Security Policy
		// - img-src 'self' data:: QR codes are served from this origin
		// - script-src 'self': only /static/app.js, no inline scripts
		csp := "default-src 'self'; " +
			"img-src 'self' data:; " +
			"style-src 'self' 'unsafe-inline'; " +
			"script-src 'self'"
		w.Header().Set("Content-Security-Policy", csp)

		// Prevent clickjacking
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")

		// Prevent MIME type sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Referrer policy - don't leak full URLs to external sites
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}
