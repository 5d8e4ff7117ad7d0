package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rrijambi/station-backend/internal/model"
	"github.com/rrijambi/station-backend/internal/store"
)

// ListEvents handles GET /v1/admin/events, including soft-deleted rows.
func (h *AdminHandler) ListEvents(c echo.Context) error {
	items, err := h.Events.ListAll(c.Request().Context())
	if err != nil {
		return storeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CreateEvent handles POST /v1/admin/events. Status defaults to "upcoming";
// the value is free-form and not validated against an enumeration.
func (h *AdminHandler) CreateEvent(c echo.Context) error {
	var body model.Event
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Title = strings.TrimSpace(body.Title)
	body.EventDate = strings.TrimSpace(body.EventDate)
	if body.Title == "" || body.EventDate == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and event_date are required"})
	}
	created, err := h.Events.Create(c.Request().Context(), body)
	if err != nil {
		return storeErr(c, err)
	}
	audit(c, "create", store.TableEvents, created.ID)
	return c.JSON(http.StatusCreated, created)
}

// UpdateEvent handles PUT /v1/admin/events/:id.
func (h *AdminHandler) UpdateEvent(c echo.Context) error {
	id := c.Param("id")
	var partial store.Row
	if err := c.Bind(&partial); err != nil || len(partial) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	updated, err := h.Events.Update(c.Request().Context(), id, partial)
	if err != nil {
		return storeErr(c, err)
	}
	audit(c, "update", store.TableEvents, id)
	return c.JSON(http.StatusOK, updated)
}

// DeleteEvent handles DELETE /v1/admin/events/:id.
func (h *AdminHandler) DeleteEvent(c echo.Context) error {
	id := c.Param("id")
	hard := c.QueryParam("hard") == "true"
	if err := h.Events.Delete(c.Request().Context(), id, hard); err != nil {
		return storeErr(c, err)
	}
	audit(c, deleteAction(hard), store.TableEvents, id)
	return c.NoContent(http.StatusNoContent)
}
