package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/recipe-catalog/internal/middleware"
	"github.com/iliyamo/recipe-catalog/internal/model"
	"github.com/iliyamo/recipe-catalog/internal/service"
)

// RecipeHandler serves /recipes.
type RecipeHandler struct {
	Recipes *service.RecipeService
}

func NewRecipeHandler(recipes *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{Recipes: recipes}
}

type recipeReq struct {
	Name         string                   `json:"name"`
	Instructions *string                  `json:"instructions"`
	Ingredients  []model.RecipeIngredient `json:"ingredients"`
}

// List handles GET /recipes. With a page parameter it answers a page
// envelope filtered by term; otherwise a plain list filtered by name
// (or term), or by ingredient name when ingredient is given.
func (h *RecipeHandler) List(c echo.Context) error {
	opts, paged, err := pageOptions(c)
	if err != nil {
		return writeError(c, err, "")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if paged {
		page, err := h.Recipes.SearchPage(ctx, c.QueryParam("term"), opts)
		if err != nil {
			return writeError(c, err, "")
		}
		return c.JSON(http.StatusOK, page)
	}

	var recipes []model.Recipe
	if ingredient := c.QueryParam("ingredient"); ingredient != "" {
		recipes, err = h.Recipes.SearchByIngredient(ctx, ingredient)
	} else {
		term := c.QueryParam("name")
		if term == "" {
			term = c.QueryParam("term")
		}
		recipes, err = h.Recipes.Search(ctx, term)
	}
	if err != nil {
		return writeError(c, err, "")
	}
	if len(recipes) == 0 {
		return errorJSON(c, http.StatusNotFound, "No recipes found")
	}
	return c.JSON(http.StatusOK, recipes)
}

// Get handles GET /recipes/:id.
func (h *RecipeHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	r, err := h.Recipes.Find(ctx, id)
	if err != nil {
		return writeError(c, err, "Recipe not found")
	}
	return c.JSON(http.StatusOK, r)
}

// Create handles POST /recipes. The author is always the session's chef.
func (h *RecipeHandler) Create(c echo.Context) error {
	chef, ok := middleware.ChefFrom(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "authentication required")
	}
	var req recipeReq
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return errorJSON(c, http.StatusBadRequest, "name is required")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	r := &model.Recipe{
		Name:         req.Name,
		Instructions: deref(req.Instructions),
		Author:       chef,
		Ingredients:  req.Ingredients,
	}
	if err := h.Recipes.Save(ctx, r); err != nil {
		return writeError(c, err, "Recipe not found")
	}
	return c.JSON(http.StatusCreated, r)
}

// Update handles PUT /recipes/:id. Only a present "instructions" field
// replaces the stored one, even when it is empty; the merged recipe is
// returned.
func (h *RecipeHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}
	var req recipeReq
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	r, err := h.Recipes.Update(ctx, id, req.Instructions)
	if err != nil {
		return writeError(c, err, "Recipe not found.")
	}
	return c.JSON(http.StatusOK, r)
}

// Delete handles DELETE /recipes/:id.
func (h *RecipeHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "Invalid recipe ID format.")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	deleted, err := h.Recipes.Delete(ctx, id)
	if err != nil {
		return writeError(c, err, "Recipe not found.")
	}
	if !deleted {
		return errorJSON(c, http.StatusNotFound, "Recipe not found.")
	}
	return c.String(http.StatusOK, "Recipe deleted successfully.")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
