package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/recipe-catalog/internal/model"
	"github.com/iliyamo/recipe-catalog/internal/service"
)

// chefKey is the echo context key holding the resolved *model.Chef.
const chefKey = "chef"

// SessionResolver turns a session token into the chef who owns it.
// service.AuthService implements it.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*model.Chef, error)
}

// TokenFrom reads the session token from the request's Authorization
// header. Both a bare token and "Bearer <token>" are accepted.
func TokenFrom(c echo.Context) string {
	h := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return h
}

// ChefFrom returns the chef stored by RequireSession or AdminGate.
func ChefFrom(c echo.Context) (*model.Chef, bool) {
	chef, ok := c.Get(chefKey).(*model.Chef)
	return chef, ok && chef != nil
}

// RequireSession rejects requests without a valid session token with 401
// and stores the resolved chef in the context otherwise.
func RequireSession(auth SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			chef, err := auth.Resolve(c.Request().Context(), TokenFrom(c))
			if err != nil {
				return sessionError(c, err, "authentication required")
			}
			c.Set(chefKey, chef)
			return next(c)
		}
	}
}

func sessionError(c echo.Context, err error, msg string) error {
	if errors.Is(err, service.ErrUnauthorized) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": msg})
	}
	c.Logger().Errorf("session lookup failed: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session lookup failed"})
}
