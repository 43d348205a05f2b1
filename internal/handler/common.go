package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/recipe-catalog/internal/paging"
	"github.com/iliyamo/recipe-catalog/internal/service"
)

// requestTimeout bounds every storage call made on behalf of a request.
const requestTimeout = 5 * time.Second

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"error": msg})
}

// writeError maps a service or paging error to its HTTP status.
// notFound is the message used for ErrNotFound.
func writeError(c echo.Context, err error, notFound string) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return errorJSON(c, http.StatusNotFound, notFound)
	case errors.Is(err, service.ErrDuplicateUsername):
		return errorJSON(c, http.StatusConflict, "Username already exists")
	case errors.Is(err, service.ErrConflict):
		return errorJSON(c, http.StatusConflict, "resource is still referenced")
	case errors.Is(err, service.ErrInvalidCredentials):
		return errorJSON(c, http.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, service.ErrUnauthorized):
		return errorJSON(c, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, service.ErrForbidden):
		return errorJSON(c, http.StatusForbidden, "Access denied")
	case errors.Is(err, service.ErrAuthorRequired),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, paging.ErrInvalidOptions),
		errors.Is(err, paging.ErrInvalidSort):
		return errorJSON(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return errorJSON(c, http.StatusGatewayTimeout, "request timed out")
	}
	c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	return errorJSON(c, http.StatusInternalServerError, "internal error")
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// pageOptions reads page, pageSize, sortBy and sortDirection. The second
// result is false when the request did not ask for a page at all.
func pageOptions(c echo.Context) (paging.Options, bool, error) {
	if c.QueryParam("page") == "" {
		return paging.Options{}, false, nil
	}
	opts := paging.Options{
		PageNumber:    1,
		PageSize:      paging.DefaultPageSize,
		SortBy:        paging.DefaultSortBy,
		SortDirection: paging.DefaultSortDirection,
	}
	var err error
	if opts.PageNumber, err = intParam(c, "page", opts.PageNumber); err != nil {
		return opts, true, err
	}
	if opts.PageSize, err = intParam(c, "pageSize", opts.PageSize); err != nil {
		return opts, true, err
	}
	if v := c.QueryParam("sortBy"); v != "" {
		opts.SortBy = v
	}
	if v := c.QueryParam("sortDirection"); v != "" {
		opts.SortDirection = v
	}
	return opts, true, opts.Validate()
}

func intParam(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", paging.ErrInvalidOptions, name)
	}
	return n, nil
}
