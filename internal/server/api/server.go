// Package api exposes the authentication operations over a JSON HTTP
// endpoint and maps the domain error taxonomy to transport status codes.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/nkarpov/authd/internal/logging"
	"github.com/nkarpov/authd/internal/server/auth"
	"github.com/nkarpov/authd/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

// Server serves the HTTP operation surface.
type Server struct {
	address string
	logger  logging.Logger
	service *services.AuthService
	issuer  *auth.Issuer
}

// NewServer constructs a Server bound to the given address.
func NewServer(address string, logger logging.Logger, service *services.AuthService, issuer *auth.Issuer) *Server {
	return &Server{
		address: address,
		logger:  logger.With("module", "api_server"),
		service: service,
		issuer:  issuer,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/registration", s.handleRegistration)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/logout", s.handleLogout)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/activate/{link}", s.handleActivate)
	mux.Handle("GET /api/users", s.requireAccessToken(http.HandlerFunc(s.handleListAccounts)))
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.address, Handler: s.Handler()}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
