package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/mimir-aip/eco-ontology-go/pkg/history"
	"github.com/mimir-aip/eco-ontology-go/pkg/metrics"
	"github.com/mimir-aip/eco-ontology-go/pkg/ontology"
	"github.com/mimir-aip/eco-ontology-go/pkg/search"
)

// Pinger checks that the triple store answers
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators of the HTTP layer. Metrics, History, Analyzer
// and Store may be nil.
type Deps struct {
	Services       *ontology.Services
	Search         *search.Service
	Analyzer       search.Analyzer
	History        history.Store
	Metrics        *metrics.Metrics
	Store          Pinger
	Logger         *slog.Logger
	AllowedOrigins []string
}

// Server provides HTTP API endpoints
type Server struct {
	deps   Deps
	port   string
	router chi.Router
	server *http.Server
	logger *slog.Logger
}

// NewServer creates a new API server
func NewServer(deps Deps, port string) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.History == nil {
		deps.History = history.Nop{}
	}

	s := &Server{
		deps:   deps,
		port:   port,
		router: chi.NewRouter(),
		logger: deps.Logger,
	}
	s.registerRoutes()
	return s
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// registerRoutes sets up the HTTP routes
func (s *Server) registerRoutes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(recoverJSON(s.logger))
	r.Use(accessLog(s.logger))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: s.deps.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         3600,
	}).Handler)
	if s.deps.Metrics != nil {
		r.Use(s.deps.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", s.deps.Metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	svc := s.deps.Services
	searchHandler := NewSearchHandler(s.deps.Search, s.deps.Analyzer, s.deps.History, svc.Stats)

	r.Route("/api", func(r chi.Router) {
		NewEventHandler(svc.Events, svc.Locations, svc.Users).Register(r)
		NewCampaignHandler(svc.Campaigns).Register(r)
		NewReservationHandler(svc.Reservations, svc.Certifications, s.deps.Search).Register(r)
		NewVolunteerHandler(svc.Volunteers, svc.Assignments).Register(r)
		NewSponsorHandler(svc.Sponsors).Register(r)
		NewBlogHandler(svc.Blogs, svc.Reviews).Register(r)
		searchHandler.Register(r)
	})
}

// Start listens on the configured port until Shutdown is called
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("starting API server", "addr", addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for the running ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("stopping API server")
	return s.server.Shutdown(ctx)
}

// handleRoot handles GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Eco Platform API is running!"})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleReady handles GET /ready
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store != nil {
		if err := s.deps.Store.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
