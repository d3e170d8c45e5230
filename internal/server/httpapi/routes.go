package httpapi

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func (s *HTTPServer) registerRoutes(e *echo.Echo) {
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(s.requestLogger)

	// public
	e.POST("/token", s.tokenHandler)
	e.POST("/register", s.registerHandler, s.OptionalAuth)

	// bearer token required
	e.GET("/users/me", s.meHandler, s.RequireAuth)
	e.GET("/users", s.listUsersHandler, s.RequireAuth)
	e.POST("/update", s.updateUserHandler, s.RequireAuth)
	e.DELETE("/delete_user", s.deleteUserHandler, s.RequireAuth)
}
