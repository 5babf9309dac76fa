package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/edvin/signalstart/internal/api/handler"
	mw "github.com/edvin/signalstart/internal/api/middleware"
	"github.com/edvin/signalstart/internal/config"
	"github.com/edvin/signalstart/internal/core"
	"github.com/edvin/signalstart/internal/stub"
)

type Server struct {
	router   chi.Router
	logger   zerolog.Logger
	coord    *core.Coordinator
	registry *stub.Registry
	cfg      *config.Config
}

func NewServer(logger zerolog.Logger, coord *core.Coordinator, registry *stub.Registry, cfg *config.Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		logger:   logger,
		coord:    coord,
		registry: registry,
		cfg:      cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
}

func (s *Server) setupRoutes() {
	s.router.Handle("/metrics", promhttp.Handler())
	s.router.Get("/healthz", s.handleHealthz)

	s.router.Route("/api/v1", func(r chi.Router) {
		wf := handler.NewWorkflow(s.coord, s.registry, s.cfg.TaskQueue)
		r.Get("/workflow-types", wf.ListTypes)
		r.Post("/workflows/{workflowID}/signal-with-start", wf.SignalWithStart)
		r.Get("/workflows/{workflowID}/runs/{runID}/result", wf.Result)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
