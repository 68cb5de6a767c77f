package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/ironledger/internal/ledger"
	"github.com/claude/ironledger/internal/timer"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Options configures the HTTP surface.
type Options struct {
	// APIKey, when set, is required in X-API-Key on every mutating route.
	APIKey string
	// ExtendBy is the default rest extension. Zero means 30s.
	ExtendBy    time.Duration
	CORSOrigins []string
	Clock       timer.Clock
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    *ledger.Store
	rest     *timer.RestTimer
	extendBy time.Duration
	log      *slog.Logger
	apiKey   string
	origins  []string
	router   chi.Router
}

// New creates a new Server with all routes configured. The server owns the
// rest timer; callers drive it with Timer().Run.
func New(store *ledger.Store, opts Options, log *slog.Logger) *Server {
	s := &Server{
		store:    store,
		extendBy: opts.ExtendBy,
		log:      log,
		apiKey:   opts.APIKey,
		origins:  opts.CORSOrigins,
		router:   chi.NewRouter(),
	}
	if s.extendBy <= 0 {
		s.extendBy = 30 * time.Second
	}
	if len(s.origins) == 0 {
		s.origins = []string{"*"}
	}
	s.rest = timer.New(opts.Clock, s.restExpired)
	s.routes()
	return s
}

// Timer returns the rest timer shared by all requests.
func (s *Server) Timer() *timer.RestTimer {
	return s.rest
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) restExpired() {
	s.log.Info("rest timer expired")
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-API-Key"},
		MaxAge:         300,
	}))

	s.router.Route("/api/v1", func(r chi.Router) {
		// Read endpoints (no auth; tsnet or loopback handles access)
		r.Get("/state", s.handleState)
		r.Get("/session", s.handleGetSession)
		r.Get("/timer", s.handleGetTimer)
		r.Get("/history", s.handleHistory)
		r.Get("/history/{id}", s.handleHistorySession)
		r.Get("/history/{id}/summary", s.handleSummary)
		r.Get("/exercises", s.handleExerciseNames)
		r.Get("/exercises/{name}/history", s.handleExerciseHistory)
		r.Get("/records", s.handleRecords)
		r.Get("/templates", s.handleTemplates)

		// Commands (API key required when configured)
		r.Group(func(r chi.Router) {
			if s.apiKey != "" {
				r.Use(APIKeyAuth(s.apiKey))
			}
			r.Post("/session", s.handleStartSession)
			r.Delete("/session", s.handleDiscardSession)
			r.Post("/session/complete", s.handleCompleteSession)
			r.Route("/session/exercises/{exerciseID}", func(r chi.Router) {
				r.Post("/sets", s.handleAddSet)
				r.Patch("/sets/{setID}", s.handleEditSet)
				r.Post("/sets/{setID}/toggle", s.handleToggleSet)
				r.Put("/notes", s.handleExerciseNotes)
			})
			r.Post("/timer/extend", s.handleExtendTimer)
			r.Delete("/timer", s.handleDismissTimer)
			r.Put("/rotation", s.handleSetRotation)
			r.Put("/templates/{type}", s.handleUpdateTemplate)
			r.Post("/reset", s.handleReset)
		})
	})
}
