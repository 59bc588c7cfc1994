package api

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/meur/termforge/internal/glossary"
	"github.com/meur/termforge/internal/logging"
	"go.uber.org/zap"
)

// Options tunes the HTTP layer
type Options struct {
	MaxImportBytes int64
	RatePerMinute  int // 0 disables rate limiting
	AllowedOrigins []string
}

// Server holds the HTTP server dependencies
type Server struct {
	editor *glossary.Editor
	audit  AuditLog
	logger *zap.Logger
	opts   Options
	router chi.Router
}

// New creates the HTTP server and subscribes the audit trail to store
// changes. audit may be nil.
func New(editor *glossary.Editor, audit AuditLog, logger *zap.Logger, opts Options) *Server {
	if opts.MaxImportBytes <= 0 {
		opts.MaxImportBytes = 10 << 20
	}
	s := &Server{
		editor: editor,
		audit:  audit,
		logger: logger,
		opts:   opts,
		router: chi.NewRouter(),
	}

	editor.Store().Subscribe(s.recordEvent)

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(logging.Middleware(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(securityHeaders)
	if s.opts.RatePerMinute > 0 {
		s.router.Use(newRateLimiter(s.opts.RatePerMinute).middleware)
	}
}

func (s *Server) setupRoutes() {
	// Pages
	s.router.Get("/", s.handleIndex)
	s.router.Get("/terms/new", s.handleNewTermForm)
	s.router.Get("/terms/{id}/edit", s.handleEditTermForm)
	s.router.Post("/terms", s.handleSubmitTerm)
	s.router.Post("/terms/{id}/delete", s.handleDeleteTermForm)
	s.router.Post("/import", s.handleImportForm)
	s.router.Get("/export", s.handleExport)
	s.router.Post("/validate", s.handleValidateForm)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))

		// Glossary
		r.Get("/glossary", s.handleGetGlossary)
		r.Get("/stats", s.handleGetStats)
		r.Post("/glossary/import", s.handleImport)
		r.Get("/glossary/export", s.handleExport)
		r.Post("/glossary/validate", s.handleValidate)

		// Terms
		r.Get("/terms", s.handleListTerms)
		r.Post("/terms", s.handleCreateTerm)
		r.Get("/terms/{id}", s.handleGetTerm)
		r.Put("/terms/{id}", s.handleUpdateTerm)
		r.Delete("/terms/{id}", s.handleDeleteTerm)

		// Audit trail
		r.Get("/audit", s.handleListAudit)
	})

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// securityHeaders adds basic hardening headers to all responses
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// termID returns the {id} route parameter. chi matches on the raw path
// when the request escapes characters such as "/", so the parameter is
// unescaped in that case.
func termID(r *http.Request) string {
	id := chi.URLParam(r, "id")
	if r.URL.RawPath == "" {
		return id
	}
	if unescaped, err := url.PathUnescape(id); err == nil {
		return unescaped
	}
	return id
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
