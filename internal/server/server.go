// Package server wires the page site and the chat websocket onto one chi
// router.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ziadkadry99/astroquery/internal/backend"
	"github.com/ziadkadry99/astroquery/internal/logging"
	"github.com/ziadkadry99/astroquery/internal/session"
)

// Config holds server configuration.
type Config struct {
	Port           int
	AllowAll       bool // allow all CORS origins (dev mode)
	RequestTimeout time.Duration
}

// Routes mounts feature routes on the router.
type Routes interface {
	RegisterRoutes(r chi.Router)
}

// TokenSource returns the backend bearer token of a session.
type TokenSource interface {
	Token(ctx context.Context, sessionID string) string
}

// Server serves the site over HTTP.
type Server struct {
	cfg        Config
	site       Routes
	chat       http.Handler
	tokens     TokenSource
	logger     *zap.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server. chat and tokens may be nil.
func New(cfg Config, site Routes, chat http.Handler, tokens TokenSource, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	s := &Server{
		cfg:    cfg,
		site:   site,
		chat:   chat,
		tokens: tokens,
		logger: logger,
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(s.logger))
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "HX-Request", "HX-Current-URL", "HX-Target", "HX-Trigger"},
		ExposedHeaders:   []string{"HX-Trigger", "HX-Redirect"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Group(func(r chi.Router) {
		r.Use(session.Middleware)
		r.Use(s.withToken)

		// The websocket outlives the request timeout.
		if s.chat != nil {
			r.Handle("/ws/chat", s.chat)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(s.cfg.RequestTimeout))
			if s.site != nil {
				s.site.RegisterRoutes(r)
			}
		})
	})

	return r
}

// withToken attaches the session's bearer token to the request context so
// backend calls made on its behalf are authenticated.
func (s *Server) withToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.tokens == nil {
			next.ServeHTTP(w, r)
			return
		}
		ctx := r.Context()
		if tok := s.tokens.Token(ctx, session.FromContext(ctx)); tok != "" {
			r = r.WithContext(backend.WithToken(ctx, tok))
		}
		next.ServeHTTP(w, r)
	})
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// Addr is the listen address.
func (s *Server) Addr() string { return fmt.Sprintf(":%d", s.cfg.Port) }

// Start begins listening on the configured port. It returns
// http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("astroquery listening", zap.String("addr", s.Addr()))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
