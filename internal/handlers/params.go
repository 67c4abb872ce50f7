package handlers

import (
	"strconv"

	"github.com/anonto42/nano-social/backend/internal/errs"
	"github.com/anonto42/nano-social/backend/internal/middleware"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// pathID parses the :id path parameter. A malformed ID cannot name an
// existing resource and is reported as not found.
func pathID(c echo.Context, resource string) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errs.NotFound(resource)
	}
	return uint(id), nil
}

// listQuery reads the filter, search and ordering query parameters. Only
// the named filters are read; values that are not positive integers are
// ignored.
func listQuery(c echo.Context, filters ...string) repositories.ListQuery {
	q := repositories.ListQuery{
		Filters:  map[string]interface{}{},
		Search:   c.QueryParam("search"),
		Ordering: c.QueryParam("ordering"),
	}
	for _, name := range filters {
		raw := c.QueryParam(name)
		if raw == "" {
			continue
		}
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			q.Filters[name] = uint(id)
		}
	}
	return q
}

// bindAndValidate binds the request body into req and runs the registered
// validator on it.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}

func currentUser(c echo.Context) *models.User {
	return middleware.CurrentUser(c)
}

func detail(msg string) echo.Map {
	return echo.Map{"detail": msg}
}
