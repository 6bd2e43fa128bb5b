package rest

import (
	"context"
	core_port "farmboard/internal/core/port"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server - REST API экрана ленты
type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

func NewServer(port string, allowedOrigins []string, handlers *FeedHandler, baseLogger core_port.LoggerPort) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + port,
			Handler:           NewRouter(allowedOrigins, handlers, baseLogger),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: baseLogger,
	}
}

// NewRouter собирает chi-роутер со всеми маршрутами
func NewRouter(allowedOrigins []string, handlers *FeedHandler, baseLogger core_port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Trace-ID"},
		ExposedHeaders: []string{"X-Trace-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", Health)

	r.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", handlers.CreateSession)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Delete("/", handlers.DeleteSession)

			r.Route("/feed", func(r chi.Router) {
				r.Use(handlers.WithSession)
				r.Get("/", handlers.GetFeed)
				r.Post("/focus", handlers.Focus)
				r.Post("/load-more", handlers.LoadMore)
				r.Put("/filters", handlers.ApplyFilters)
				r.Delete("/filters", handlers.ClearFilters)
				r.Post("/stale", handlers.MarkStale)
			})
		})
	})

	return r
}

// Start запускает HTTP-сервер и блокируется до остановки.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", core_port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
