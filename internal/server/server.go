package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Shemantipal/Green-Receipt/internal/common"
	"github.com/Shemantipal/Green-Receipt/internal/export"
	"github.com/Shemantipal/Green-Receipt/internal/history"
	"github.com/Shemantipal/Green-Receipt/internal/pipeline"
)

// Server wires the analysis pipeline and its supporting services behind the
// HTTP boundary.
type Server struct {
	mux      *chi.Mux
	pipeline *pipeline.Pipeline
	store    *history.Store // nil when history is disabled
	exporter *export.Service
	cfg      common.ServerConfig
	logger   *slog.Logger
}

func New(p *pipeline.Pipeline, store *history.Store, exporter *export.Service, cfg common.ServerConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if exporter == nil {
		exporter = export.NewService(logger)
	}
	return &Server{
		mux:      chi.NewRouter(),
		pipeline: p,
		store:    store,
		exporter: exporter,
		cfg:      cfg,
		logger:   logger,
	}
}

// Handler assembles the router.
func (s *Server) Handler() http.Handler {
	r := s.mux

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/analyses", s.handleListAnalyses)
		r.Get("/analyses/{id}", s.handleGetAnalysis)
		r.Get("/analyses/{id}/export", s.handleExportAnalysis)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http.request",
			"req_id", chimiddleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	})
}
