// Package listing serves the generic list endpoint: every catalog entity
// is listable at /api/v1/:entity with filters, search, sort and paging
// compiled from the query string.
package listing

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ehr/practice/internal/platform/query"
	"github.com/ehr/practice/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/_entities", h.Entities)
	api.GET("/:entity", h.List)
	api.GET("/:entity/_schema", h.Describe)
}

func (h *Handler) List(c echo.Context) error {
	entity := c.Param("entity")
	params := query.FromValues(c.QueryParams())

	page, err := h.svc.List(c.Request().Context(), entity, params)
	if err != nil {
		return mapError(err)
	}

	resp := pagination.NewResponse(page.Items, page.Total, page.Spec.Page).
		WithLinks(c.Request().URL.Path, c.QueryParams())
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Describe(c echo.Context) error {
	d, err := h.svc.Describe(c.Param("entity"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) Entities(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"entities": h.svc.Entities(),
	})
}

// mapError passes compile errors through for the error handler and turns
// the rest into HTTP errors.
func mapError(err error) error {
	var ce *query.CompileError
	switch {
	case errors.As(err, &ce):
		return ce
	case errors.Is(err, ErrUnknownEntity):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "list query failed").SetInternal(err)
	}
}
