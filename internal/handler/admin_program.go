package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rrijambi/station-backend/internal/model"
	"github.com/rrijambi/station-backend/internal/store"
)

// ListPrograms handles GET /v1/admin/programs.
func (h *AdminHandler) ListPrograms(c echo.Context) error {
	items, err := h.Programs.List(c.Request().Context())
	if err != nil {
		return storeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CreateProgram handles POST /v1/admin/programs.
func (h *AdminHandler) CreateProgram(c echo.Context) error {
	var body model.Program
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	body.Frequency = strings.TrimSpace(body.Frequency)
	if body.Name == "" || body.Frequency == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and frequency are required"})
	}
	created, err := h.Programs.Create(c.Request().Context(), body)
	if err != nil {
		return storeErr(c, err)
	}
	audit(c, "create", store.TablePrograms, created.ID)
	return c.JSON(http.StatusCreated, created)
}

// UpdateProgram handles PUT /v1/admin/programs/:id.
func (h *AdminHandler) UpdateProgram(c echo.Context) error {
	id := c.Param("id")
	var partial store.Row
	if err := c.Bind(&partial); err != nil || len(partial) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	updated, err := h.Programs.Update(c.Request().Context(), id, partial)
	if err != nil {
		return storeErr(c, err)
	}
	audit(c, "update", store.TablePrograms, id)
	return c.JSON(http.StatusOK, updated)
}

// DeleteProgram handles DELETE /v1/admin/programs/:id. Programs carry no
// is_active flag, so deletion is always permanent.
func (h *AdminHandler) DeleteProgram(c echo.Context) error {
	id := c.Param("id")
	if err := h.Programs.Delete(c.Request().Context(), id); err != nil {
		return storeErr(c, err)
	}
	audit(c, "hard_delete", store.TablePrograms, id)
	return c.NoContent(http.StatusNoContent)
}
