package report

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/uiparity/uiparity/internal/config"
	"github.com/uiparity/uiparity/internal/domain"
	"github.com/uiparity/uiparity/internal/observability"
	"github.com/uiparity/uiparity/pkg/httputil"
)

// RunLister lists persisted runs, newest first
type RunLister interface {
	ListRecent(ctx context.Context, limit, offset int) ([]*domain.Run, error)
}

// Server serves generated reports and metrics over HTTP
type Server struct {
	cfg       *config.Config
	generator *Generator
	runs      RunLister
	metrics   *observability.Metrics
	log       *zap.Logger
}

// NewServer creates a report server. runs and metrics may be nil; their
// routes are only registered when present.
func NewServer(cfg *config.Config, generator *Generator, runs RunLister, metrics *observability.Metrics, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{cfg: cfg, generator: generator, runs: runs, metrics: metrics, log: log}
}

// Router builds the HTTP routes
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/runs/latest", s.handleLatestRun)
		if s.runs != nil {
			r.Get("/runs", s.handleListRuns)
		}
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	return r
}

// ListenAndServe runs the server until it fails
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:         s.cfg.ServerAddr(),
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}
	s.log.Info("report server listening", zap.String("addr", srv.Addr))
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLatestRun(w http.ResponseWriter, r *http.Request) {
	report, err := s.generator.Latest()
	if err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, report)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	p := httputil.GetPagination(r, 20, 100)

	runs, err := s.runs.ListRecent(r.Context(), p.PerPage, p.Offset)
	if err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]any{
		"runs":     runs,
		"page":     p.Page,
		"per_page": p.PerPage,
	})
}
