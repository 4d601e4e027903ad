package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hongminglow/parts-inventory/internal/auth"
	"github.com/hongminglow/parts-inventory/internal/config"
	"github.com/hongminglow/parts-inventory/internal/http/handlers"
	"github.com/hongminglow/parts-inventory/internal/middleware"
	"github.com/hongminglow/parts-inventory/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store, log *zap.Logger) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           NewHandler(cfg, store, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          zap.NewStdLog(log),
	}

	return &Server{inner: httpServer}
}

// NewHandler builds the routed handler chain: CORS, access log, then the mux.
func NewHandler(cfg config.Config, store storage.Store, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	pinger, _ := store.(handlers.Pinger)
	health := handlers.NewHealthHandler(time.Now(), pinger)
	health.Register(mux)

	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	authn := middleware.NewAuthenticator(tokenManager, auth.NewResolver(store), log)

	parts := handlers.NewPartHandler(store, log)
	parts.Register(mux, authn.Authenticate, middleware.RequireAdmin)

	return middleware.CORS(cfg.CORSOrigins, middleware.Logging(log, mux))
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
