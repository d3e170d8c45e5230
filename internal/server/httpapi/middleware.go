package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/userdesk/internal/common"
	"github.com/dmitrijs2005/userdesk/internal/server/users"
	"github.com/labstack/echo/v4"
)

const contextKeyUser = "user"

func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get(common.AuthorizationHeaderName)
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, common.BearerTokenType) {
		return ""
	}
	return strings.TrimSpace(token)
}

func (s *HTTPServer) authenticate(c echo.Context, token string) error {
	user, err := s.users.Authenticate(c.Request().Context(), token)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return detail(c, http.StatusUnauthorized, "Could not validate credentials")
		}
		s.logger.Error(c.Request().Context(), "authenticate failed", "error", err)
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}
	c.Set(contextKeyUser, user)
	return nil
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller in the echo context.
func (s *HTTPServer) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c)
		if token == "" {
			return detail(c, http.StatusUnauthorized, "Not authenticated")
		}
		if err := s.authenticate(c, token); err != nil || c.Response().Committed {
			return err
		}
		return next(c)
	}
}

// OptionalAuth authenticates the caller when a bearer token is sent and lets
// anonymous requests through.
func (s *HTTPServer) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if token := bearerToken(c); token != "" {
			if err := s.authenticate(c, token); err != nil || c.Response().Committed {
				return err
			}
		}
		return next(c)
	}
}

func caller(c echo.Context) *users.User {
	u, _ := c.Get(contextKeyUser).(*users.User)
	return u
}

// requestLogger logs one line per request with its id, status and latency.
// Credentials are never logged.
func (s *HTTPServer) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		req, res := c.Request(), c.Response()
		s.logger.Info(req.Context(), "request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", res.Status,
			"request_id", res.Header().Get(echo.HeaderXRequestID),
			"duration", time.Since(start),
		)
		return nil
	}
}

func detail(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"detail": msg})
}

// errorHandler renders every unhandled error as {"detail": message}.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}

	_ = detail(c, code, msg)
}
