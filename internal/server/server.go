// Package server exposes the pipeline over a JSON HTTP API. Callers identify
// themselves with an opaque X-User-ID header; there is no authentication
// beyond that, the server is meant to sit behind a trusted frontend.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"postforge/internal/config"
	"postforge/internal/generate"
	"postforge/internal/logger"
	"postforge/internal/store"
)

// Server is the HTTP front of the pipeline.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	store      *store.Store
	generator  *generate.Generator
	log        *slog.Logger
}

// New creates the HTTP server around an open store and a wired generator.
func New(st *store.Store, gen *generate.Generator, cfg config.Server) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		store:     st,
		generator: gen,
		log:       logger.Get(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // generation requests fan out several model calls
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-User-ID", "X-Request-ID"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/models", s.handleListModels)
		r.Get("/schemas", s.handleListSchemas)

		// Shared posts are public, no user header required.
		r.Get("/shares/{id}", s.handleGetShare)

		r.Group(func(r chi.Router) {
			r.Use(requireUser)

			r.Get("/profile", s.handleGetProfile)
			r.Post("/profile", s.handleSaveProfile)

			r.Get("/keys", s.handleListKeys)
			r.Post("/keys", s.handleSaveKey)

			r.Get("/links", s.handleListLinks)
			r.Post("/links", s.handleSaveLinks)

			r.Route("/topics", func(r chi.Router) {
				r.Get("/", s.handleListTopics)
				r.Post("/", s.handleGenerateTopics)
				r.Delete("/{id}", s.handleDeleteTopic)
			})

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", s.handleListPosts)
				r.Post("/", s.handleGeneratePosts)
				r.Delete("/{id}", s.handleDeletePost)
			})

			r.Post("/shares", s.handleCreateShare)
		})
	})
}

// Start runs the server until it fails or is shut down.
func (s *Server) Start() error {
	s.log.Info("starting HTTP server", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed to start: %w", err)
	}
	return nil
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// Router exposes the chi router for tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}
