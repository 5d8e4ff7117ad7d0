package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rrijambi/station-backend/internal/model"
	"github.com/rrijambi/station-backend/internal/store"
)

// ListSchedules handles GET /v1/admin/schedules. Soft-deleted slots are
// included so the back office can reactivate them.
func (h *AdminHandler) ListSchedules(c echo.Context) error {
	items, err := h.Schedules.ListAll(c.Request().Context())
	if err != nil {
		return storeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CreateSchedule handles POST /v1/admin/schedules.
func (h *AdminHandler) CreateSchedule(c echo.Context) error {
	var body model.Schedule
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Waktu = strings.TrimSpace(body.Waktu)
	body.ProgramName = strings.TrimSpace(body.ProgramName)
	if body.Waktu == "" || body.ProgramName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "waktu and program_name are required"})
	}
	created, err := h.Schedules.Create(c.Request().Context(), body)
	if err != nil {
		return storeErr(c, err)
	}
	audit(c, "create", store.TableSchedules, created.ID)
	return c.JSON(http.StatusCreated, created)
}

// UpdateSchedule handles PUT /v1/admin/schedules/:id with a partial record.
// Sending is_active=true reactivates a soft-deleted slot.
func (h *AdminHandler) UpdateSchedule(c echo.Context) error {
	id := c.Param("id")
	var partial store.Row
	if err := c.Bind(&partial); err != nil || len(partial) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	updated, err := h.Schedules.Update(c.Request().Context(), id, partial)
	if err != nil {
		return storeErr(c, err)
	}
	audit(c, "update", store.TableSchedules, id)
	return c.JSON(http.StatusOK, updated)
}

// DeleteSchedule handles DELETE /v1/admin/schedules/:id. Soft by default;
// ?hard=true removes the row permanently.
func (h *AdminHandler) DeleteSchedule(c echo.Context) error {
	id := c.Param("id")
	hard := c.QueryParam("hard") == "true"
	if err := h.Schedules.Delete(c.Request().Context(), id, hard); err != nil {
		return storeErr(c, err)
	}
	audit(c, deleteAction(hard), store.TableSchedules, id)
	return c.NoContent(http.StatusNoContent)
}
