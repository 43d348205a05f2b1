package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Check reports whether one backing dependency is reachable.
type Check func(ctx context.Context) error

// Health returns a liveness endpoint. It answers plain "ok" when every
// check passes and 503 naming the first failing dependency otherwise.
func Health(checks map[string]Check) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := requestContext(c)
		defer cancel()
		for name, check := range checks {
			if err := check(ctx); err != nil {
				c.Logger().Warnf("health check %s failed: %v", name, err)
				return c.String(http.StatusServiceUnavailable, name+" unavailable")
			}
		}
		return c.String(http.StatusOK, "ok")
	}
}
