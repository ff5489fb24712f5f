// Package server wires the REST API on top of chi
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/nutricoach/v1/internal/infrastructure/config"
	"github.com/nutricoach/v1/internal/infrastructure/http/handlers"
	"github.com/nutricoach/v1/internal/infrastructure/http/middleware"
	"github.com/nutricoach/v1/internal/infrastructure/monitoring"
	"github.com/nutricoach/v1/internal/ports/inbound"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

// Server represents the HTTP server
type Server struct {
	config  *config.Config
	logger  *zap.Logger
	router  *chi.Mux
	server  *http.Server
	metrics *monitoring.Metrics

	userService   inbound.UserService
	reportService inbound.HealthReportService
	planService   inbound.MealPlanService
}

// NewServer creates a new HTTP server instance
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	metrics *monitoring.Metrics,
	userService inbound.UserService,
	reportService inbound.HealthReportService,
	planService inbound.MealPlanService,
) *Server {
	s := &Server{
		config:        cfg,
		logger:        logger.Named("http-server"),
		metrics:       metrics,
		userService:   userService,
		reportService: reportService,
		planService:   planService,
	}

	s.router = s.setupRouter()
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           s.router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return s
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(middleware.Recoverer(s.logger))
	r.Use(middleware.Metrics(s.metrics))
	r.Use(chimiddleware.Compress(5))

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		s.setupAPIRoutes(r)
	})

	return r
}

// setupAPIRoutes configures the REST API routes
func (s *Server) setupAPIRoutes(r chi.Router) {
	userHandlers := handlers.NewUserHandlers(s.userService, s.logger)
	reportHandlers := handlers.NewReportHandlers(s.reportService, s.logger)
	planHandlers := handlers.NewMealPlanHandlers(s.planService, s.logger)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandlers.Register)

		r.Route("/{userID}", func(r chi.Router) {
			r.Get("/", userHandlers.GetProfile)
			r.Put("/profile", userHandlers.UpdateProfile)
			r.Put("/medical-conditions", userHandlers.UpdateMedicalConditions)

			r.Post("/reports", reportHandlers.ProcessDocument)
			r.Get("/reports/latest", reportHandlers.LatestReport)

			r.Post("/meal-plan", planHandlers.GeneratePlan)
			r.Get("/meal-plan", planHandlers.CurrentPlan)
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","service":%q,"version":%q}`, s.config.App.Name, s.config.App.Version)
}

// Router exposes the configured router, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		zap.String("address", s.server.Addr),
		zap.String("environment", s.config.App.Environment))

	if err := http2.ConfigureServer(s.server, nil); err != nil {
		s.logger.Error("Failed to configure HTTP/2", zap.Error(err))
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
