package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"vaultshare/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the echo instance with lifecycle management.
type Server struct {
	address string
	router  *echo.Echo
	logger  logging.Logger
}

func NewServer(address string, router *echo.Echo, l logging.Logger) *Server {
	return &Server{
		address: address,
		router:  router,
		logger:  l.With("module", "http_server"),
	}
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.router.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.router.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
