package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Intent is a CRUD action an AdminGate can protect.
type Intent string

const (
	IntentRead   Intent = "READ"
	IntentCreate Intent = "CREATE"
	IntentUpdate Intent = "UPDATE"
	IntentDelete Intent = "DELETE"
)

// IntentOf maps an HTTP method to its CRUD intent. Unknown methods map
// to the empty intent, which no gate protects.
func IntentOf(method string) Intent {
	switch method {
	case http.MethodGet, http.MethodHead:
		return IntentRead
	case http.MethodPost:
		return IntentCreate
	case http.MethodPut, http.MethodPatch:
		return IntentUpdate
	case http.MethodDelete:
		return IntentDelete
	}
	return ""
}

// AdminGate lets requests whose method maps to one of the protected
// intents through only when the request's own token belongs to an admin.
// An unknown token gets 401 and a non-admin gets 403, both with
// {"error":"Access denied"}. Other methods pass untouched.
func AdminGate(auth SessionResolver, intents ...Intent) echo.MiddlewareFunc {
	protected := make(map[Intent]bool, len(intents))
	for _, i := range intents {
		protected[i] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !protected[IntentOf(c.Request().Method)] {
				return next(c)
			}
			chef, err := auth.Resolve(c.Request().Context(), TokenFrom(c))
			if err != nil {
				return sessionError(c, err, "Access denied")
			}
			if !chef.Admin {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "Access denied"})
			}
			c.Set(chefKey, chef)
			return next(c)
		}
	}
}
