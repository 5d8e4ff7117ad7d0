package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rrijambi/station-backend/internal/model"
	"github.com/rrijambi/station-backend/internal/store"
)

// ListMembers handles GET /v1/admin/organization-members, including
// soft-deleted entries.
func (h *AdminHandler) ListMembers(c echo.Context) error {
	items, err := h.Members.ListAll(c.Request().Context())
	if err != nil {
		return storeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CreateMember handles POST /v1/admin/organization-members. Duplicate
// order_index values are accepted; entries with the same key keep their
// insertion order.
func (h *AdminHandler) CreateMember(c echo.Context) error {
	var body model.OrganizationMember
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	body.Position = strings.TrimSpace(body.Position)
	if body.Name == "" || body.Position == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and position are required"})
	}
	created, err := h.Members.Create(c.Request().Context(), body)
	if err != nil {
		return storeErr(c, err)
	}
	audit(c, "create", store.TableMembers, created.ID)
	return c.JSON(http.StatusCreated, created)
}

// UpdateMember handles PUT /v1/admin/organization-members/:id.
func (h *AdminHandler) UpdateMember(c echo.Context) error {
	id := c.Param("id")
	var partial store.Row
	if err := c.Bind(&partial); err != nil || len(partial) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	updated, err := h.Members.Update(c.Request().Context(), id, partial)
	if err != nil {
		return storeErr(c, err)
	}
	audit(c, "update", store.TableMembers, id)
	return c.JSON(http.StatusOK, updated)
}

// DeleteMember handles DELETE /v1/admin/organization-members/:id.
func (h *AdminHandler) DeleteMember(c echo.Context) error {
	id := c.Param("id")
	hard := c.QueryParam("hard") == "true"
	if err := h.Members.Delete(c.Request().Context(), id, hard); err != nil {
		return storeErr(c, err)
	}
	audit(c, deleteAction(hard), store.TableMembers, id)
	return c.NoContent(http.StatusNoContent)
}
