package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/recipe-catalog/internal/model"
	"github.com/iliyamo/recipe-catalog/internal/service"
)

// IngredientHandler serves the shared ingredient catalog.
type IngredientHandler struct {
	Ingredients *service.IngredientService
}

func NewIngredientHandler(ingredients *service.IngredientService) *IngredientHandler {
	return &IngredientHandler{Ingredients: ingredients}
}

type ingredientReq struct {
	Name string `json:"name"`
}

// List handles GET /ingredients: a page envelope when page is given,
// the full filtered list otherwise.
func (h *IngredientHandler) List(c echo.Context) error {
	opts, paged, err := pageOptions(c)
	if err != nil {
		return writeError(c, err, "")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	term := c.QueryParam("term")
	if paged {
		page, err := h.Ingredients.SearchPage(ctx, term, opts)
		if err != nil {
			return writeError(c, err, "")
		}
		return c.JSON(http.StatusOK, page)
	}
	list, err := h.Ingredients.Search(ctx, term)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(http.StatusOK, list)
}

func (h *IngredientHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	in, err := h.Ingredients.Find(ctx, id)
	if err != nil {
		return writeError(c, err, "Ingredient not found")
	}
	return c.JSON(http.StatusOK, in)
}

func (h *IngredientHandler) Create(c echo.Context) error {
	var req ingredientReq
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return errorJSON(c, http.StatusBadRequest, "name is required")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	in := &model.Ingredient{Name: name}
	if err := h.Ingredients.Save(ctx, in); err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(http.StatusCreated, in)
}

// Update renames an existing ingredient and answers 204.
func (h *IngredientHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}
	var req ingredientReq
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return errorJSON(c, http.StatusBadRequest, "name is required")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := h.Ingredients.Find(ctx, id); err != nil {
		return writeError(c, err, "Ingredient not found")
	}
	if err := h.Ingredients.Save(ctx, &model.Ingredient{ID: id, Name: name}); err != nil {
		return writeError(c, err, "Ingredient not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes the ingredient and every recipe line using it. Unknown
// ids also answer 204.
func (h *IngredientHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Ingredients.Delete(ctx, id); err != nil {
		return writeError(c, err, "")
	}
	return c.NoContent(http.StatusNoContent)
}
