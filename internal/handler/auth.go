package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/recipe-catalog/internal/middleware"
	"github.com/iliyamo/recipe-catalog/internal/model"
	"github.com/iliyamo/recipe-catalog/internal/service"
)

// AuthHandler serves registration and the session endpoints.
type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// ----- DTOs -----

// registerReq has no admin flag; self-registered chefs are never admins.
type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a chef account and returns it with 201.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return errorJSON(c, http.StatusBadRequest, "username/password required")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	chef := &model.Chef{Username: req.Username, Email: strings.TrimSpace(req.Email), Password: req.Password}
	if err := h.Auth.Register(ctx, chef); err != nil {
		return writeError(c, err, "chef not found")
	}
	return c.JSON(http.StatusCreated, chef)
}

// Login answers "<token> <isAdmin>" as plain text and mirrors the token
// in the Authorization response header.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	token, chef, err := h.Auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		return writeError(c, err, "chef not found")
	}
	c.Response().Header().Set(echo.HeaderAuthorization, token)
	return c.String(http.StatusOK, token+" "+strconv.FormatBool(chef.Admin))
}

// Logout drops the caller's session. Unknown tokens are ignored.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Auth.Logout(ctx, middleware.TokenFrom(c)); err != nil {
		return writeError(c, err, "session not found")
	}
	return c.String(http.StatusOK, "Logout successful")
}
