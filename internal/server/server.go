// Package server exposes learning-path generation, visualization and the
// adaptive assessment over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/abhisek/pathwise/internal/assessment"
	"github.com/abhisek/pathwise/internal/config"
	"github.com/abhisek/pathwise/internal/pathgen"
	"github.com/abhisek/pathwise/internal/questionsource"
)

// Check is a named readiness probe, e.g. a database or cache ping.
type Check func(ctx context.Context) error

// Deps are the collaborators the server routes requests to.
type Deps struct {
	Registry  *assessment.Registry
	Questions questionsource.Source
	Paths     *pathgen.Generator
	Ready     map[string]Check
	Logger    *slog.Logger

	// NewRand, when set, seeds each new session's tie-break source.
	NewRand func() assessment.Rand
}

// Server represents the HTTP API server.
type Server struct {
	config     config.ServerConfig
	assessment config.AssessmentConfig
	router     *chi.Mux
	registry   *assessment.Registry
	questions  questionsource.Source
	paths      *pathgen.Generator
	ready      map[string]Check
	logger     *slog.Logger
	newRand    func() assessment.Rand
}

// New creates a server and builds its routes.
func New(cfg config.ServerConfig, acfg config.AssessmentConfig, deps Deps) *Server {
	s := &Server{
		config:     cfg,
		assessment: acfg,
		registry:   deps.Registry,
		questions:  deps.Questions,
		paths:      deps.Paths,
		ready:      deps.Ready,
		logger:     deps.Logger,
		newRand:    deps.NewRand,
	}
	if s.registry == nil {
		s.registry = assessment.NewRegistry(acfg.SessionTTL)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.setupRouter()
	return s
}

// Router returns the configured router.
func (s *Server) Router() http.Handler {
	return s.router
}

// Registry returns the live session registry.
func (s *Server) Registry() *assessment.Registry {
	return s.registry
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api/v1", func(r chi.Router) {
		// Long-lived; must not inherit the request timeout.
		r.Get("/assessments/{id}/stream", s.handleAssessmentStream)

		r.Group(func(r chi.Router) {
			if s.config.RequestTimeout > 0 {
				r.Use(middleware.Timeout(s.config.RequestTimeout))
			}

			r.Route("/paths", func(r chi.Router) {
				r.Post("/", s.handleGeneratePath)
				r.Post("/visualize", s.handleVisualize)
				r.Post("/export", s.handleExport)
			})

			r.Route("/assessments", func(r chi.Router) {
				r.Post("/", s.handleCreateAssessment)
				r.Post("/questions", s.handleGenerateQuestions)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetAssessment)
					r.Delete("/", s.handleDeleteAssessment)
					r.Post("/answers", s.handleSubmitAnswer)
					r.Post("/finish", s.handleFinishAssessment)
				})
			})

			r.Route("/quizzes", func(r chi.Router) {
				r.Post("/", s.handleCreateQuiz)
				r.Post("/grade", s.handleGradeQuiz)
			})
		})
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// RunSweeper removes idle sessions every interval until ctx is done.
func (s *Server) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.registry.Sweep(); n > 0 {
				s.logger.Debug("swept idle assessment sessions", "removed", n, "live", s.registry.Len())
			}
		}
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.RunSweeper(sweepCtx, s.assessment.SweepInterval)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
