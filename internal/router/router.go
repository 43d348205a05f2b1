// Package router registers the HTTP routes and their middleware on echo.
package router

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/recipe-catalog/internal/handler"
	"github.com/iliyamo/recipe-catalog/internal/middleware"
)

// Use installs the middleware every request goes through. limiter may be
// nil to disable rate limiting.
func Use(e *echo.Echo, logger *slog.Logger, limiter echo.MiddlewareFunc) {
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.Metrics())
	if limiter != nil {
		e.Use(limiter)
	}
}

// RegisterRoutes registers the unauthenticated operational endpoints.
func RegisterRoutes(e *echo.Echo, checks map[string]handler.Check) {
	e.GET("/healthz", handler.Health(checks))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers registration and session endpoints. Logout reads
// the token from the Authorization header and never fails for unknown ones.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	e.POST("/register", a.Register)
	e.POST("/login", a.Login)
	e.POST("/logout", a.Logout)
}
