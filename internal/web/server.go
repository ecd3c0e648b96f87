// Package web provides the HTTP API for the Modify music recommender.
package web

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/modifymusic/modify/internal/auth"
	"github.com/modifymusic/modify/internal/catalog"
	"github.com/modifymusic/modify/internal/detect"
	"github.com/modifymusic/modify/internal/prefs"
)

// DefaultAddr is the default server address.
const DefaultAddr = "127.0.0.1:3000"

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr      string
	MusicDir  string // directory served under /music
	UploadDir string // scratch directory for image uploads
	Auth      *auth.Service
	Users     UserStore
	History   HistoryStore
	Catalog   *catalog.Service
	Prefs     *prefs.Service
	Emotion   detect.EmotionDetector
	Vibe      detect.VibeDetector
}

// Server is the HTTP server for the API.
type Server struct {
	router   chi.Router
	server   *http.Server
	handlers *Handlers
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig) *Server {
	handlers := NewHandlers(HandlerDeps{
		Auth:      cfg.Auth,
		Users:     cfg.Users,
		History:   cfg.History,
		Catalog:   cfg.Catalog,
		Prefs:     cfg.Prefs,
		Emotion:   cfg.Emotion,
		Vibe:      cfg.Vibe,
		UploadDir: cfg.UploadDir,
	})

	router := chi.NewRouter()

	s := &Server{
		router:   router,
		handlers: handlers,
	}

	s.setupMiddleware()
	s.setupRoutes(cfg.MusicDir)

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures routes for the API.
func (s *Server) setupRoutes(musicDir string) {
	h := s.handlers

	s.router.Get("/api/health", h.Health)

	s.router.Post("/api/auth/signup", h.Signup)
	s.router.Post("/api/auth/login", h.Login)

	s.router.Get("/api/songs", h.Songs)
	s.router.Post("/api/recommend", h.Recommend)
	s.router.Post("/api/recommend/more", h.RecommendMore)
	s.router.Post("/api/emotion-detect", h.EmotionDetect)
	s.router.Post("/api/vibe-detect", h.VibeDetect)

	// Authenticated routes
	s.router.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Get("/api/auth/verify", h.Verify)
		r.Get("/api/user/profile", h.Profile)
		r.Put("/api/user/preferences", h.UpdatePreferences)
		r.Post("/api/recommendations", h.SaveRecommendation)
		r.Get("/api/recommendations", h.ListRecommendations)
	})

	// Audio files for direct playback
	fileServer := http.FileServer(http.Dir(musicDir))
	s.router.Handle("/music/*", http.StripPrefix("/music/", fileServer))
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	log.Printf("Starting server at http://%s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and handles graceful shutdown on interrupt signals.
func (s *Server) Run() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
		log.Println("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return err
	}

	log.Println("Server stopped")
	return nil
}
