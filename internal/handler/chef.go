package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/recipe-catalog/internal/service"
	"github.com/iliyamo/recipe-catalog/internal/utils"
)

// ChefHandler serves the admin-only /chefs endpoints.
type ChefHandler struct {
	Chefs      *service.ChefService
	BcryptCost int
}

func NewChefHandler(chefs *service.ChefService, bcryptCost int) *ChefHandler {
	return &ChefHandler{Chefs: chefs, BcryptCost: bcryptCost}
}

// chefUpdateReq is a full overwrite except for the password, which is
// kept when left blank.
type chefUpdateReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Admin    bool   `json:"admin"`
}

func (h *ChefHandler) List(c echo.Context) error {
	opts, paged, err := pageOptions(c)
	if err != nil {
		return writeError(c, err, "")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	term := c.QueryParam("term")
	if paged {
		page, err := h.Chefs.SearchPage(ctx, term, opts)
		if err != nil {
			return writeError(c, err, "")
		}
		return c.JSON(http.StatusOK, page)
	}
	list, err := h.Chefs.Search(ctx, term)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(http.StatusOK, list)
}

func (h *ChefHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	chef, err := h.Chefs.Find(ctx, id)
	if err != nil {
		return writeError(c, err, "Chef not found")
	}
	return c.JSON(http.StatusOK, chef)
}

// Update handles PUT /chefs/:id and returns the stored chef.
func (h *ChefHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}
	var req chefUpdateReq
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		return errorJSON(c, http.StatusBadRequest, "username is required")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	chef, err := h.Chefs.Find(ctx, id)
	if err != nil {
		return writeError(c, err, "Chef not found")
	}
	chef.Username = req.Username
	chef.Email = strings.TrimSpace(req.Email)
	chef.Admin = req.Admin
	if req.Password != "" {
		if chef.Password, err = utils.HashPassword(req.Password, h.BcryptCost); err != nil {
			return writeError(c, err, "")
		}
	}
	if err := h.Chefs.Save(ctx, chef); err != nil {
		return writeError(c, err, "Chef not found")
	}
	return c.JSON(http.StatusOK, chef)
}

// Delete answers 204 for unknown ids and 409 while the chef still
// authors recipes.
func (h *ChefHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Chefs.Delete(ctx, id); err != nil {
		return writeError(c, err, "")
	}
	return c.NoContent(http.StatusNoContent)
}
