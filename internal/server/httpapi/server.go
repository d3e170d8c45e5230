// Package httpapi serves the user-management REST API consumed by the
// userdesk client.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/userdesk/internal/logging"
	"github.com/dmitrijs2005/userdesk/internal/server/users"
	"github.com/labstack/echo/v4"
)

const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	address string
	users   *users.Service
	logger  logging.Logger
	echo    *echo.Echo
}

func NewHTTPServer(a string, l logging.Logger, us *users.Service) *HTTPServer {
	s := &HTTPServer{
		address: a,
		logger:  l.With("module", "http_server"),
		users:   us,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler
	s.registerRoutes(e)
	s.echo = e

	return s
}

// Handler exposes the router, e.g. for httptest.
func (s *HTTPServer) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(sctx); err != nil {
			s.logger.Error(ctx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
