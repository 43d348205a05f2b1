package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/recipe-catalog/internal/handler"
	"github.com/iliyamo/recipe-catalog/internal/middleware"
)

// RegisterRecipes mounts /recipes. Reads are public, creating needs any
// session, and updates and deletes are admin only.
func RegisterRecipes(e *echo.Echo, h *handler.RecipeHandler, auth middleware.SessionResolver, cache *middleware.ResponseCache) {
	g := e.Group("/recipes",
		middleware.AdminGate(auth, middleware.IntentUpdate, middleware.IntentDelete),
		cache.For("recipes"),
	)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create, middleware.RequireSession(auth))
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// RegisterIngredients mounts /ingredients. Every write is admin only and
// also flushes cached recipes, whose ingredient lines may have changed.
func RegisterIngredients(e *echo.Echo, h *handler.IngredientHandler, auth middleware.SessionResolver, cache *middleware.ResponseCache) {
	g := e.Group("/ingredients",
		middleware.AdminGate(auth, middleware.IntentCreate, middleware.IntentUpdate, middleware.IntentDelete),
		cache.For("ingredients", "recipes"),
	)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// RegisterChefs mounts the admin-only /chefs endpoints. Responses are not
// cached since every read is gated.
func RegisterChefs(e *echo.Echo, h *handler.ChefHandler, auth middleware.SessionResolver, cache *middleware.ResponseCache) {
	g := e.Group("/chefs",
		middleware.AdminGate(auth, middleware.IntentRead, middleware.IntentUpdate, middleware.IntentDelete),
	)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update, invalidates(cache, "recipes"))
	g.DELETE("/:id", h.Delete, invalidates(cache, "recipes"))
}

// invalidates flushes the cached responses of resources after a
// successful write.
func invalidates(cache *middleware.ResponseCache, resources ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := next(c); err != nil {
				return err
			}
			if c.Response().Status < 400 {
				cache.Invalidate(c.Request().Context(), resources...)
			}
			return nil
		}
	}
}
