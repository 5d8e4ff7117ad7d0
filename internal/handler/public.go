package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rrijambi/station-backend/internal/monitor"
	"github.com/rrijambi/station-backend/internal/repository"
)

// PublicHandler serves the unauthenticated reads the promotional site
// renders. Every list is active-only in its documented order; on a store
// failure the site falls back to an empty list with an error banner, so
// these handlers return the classified message in the error body.
type PublicHandler struct {
	Schedules *repository.ScheduleRepo
	Members   *repository.MemberRepo
	Events    *repository.EventRepo
	Programs  *repository.ProgramRepo
	Monitor   *monitor.Monitor
}

func NewPublicHandler(s *repository.ScheduleRepo, m *repository.MemberRepo, e *repository.EventRepo, p *repository.ProgramRepo, mon *monitor.Monitor) *PublicHandler {
	return &PublicHandler{Schedules: s, Members: m, Events: e, Programs: p, Monitor: mon}
}

// GetSchedules handles GET /api/schedules, optionally filtered to one
// program with ?program=<name>.
func (h *PublicHandler) GetSchedules(c echo.Context) error {
	ctx := c.Request().Context()
	if name := c.QueryParam("program"); name != "" {
		items, err := h.Schedules.ListByProgramName(ctx, name)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, items)
	}
	items, err := h.Schedules.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, items)
}

// GetMembers handles GET /api/organization-members.
func (h *PublicHandler) GetMembers(c echo.Context) error {
	items, err := h.Members.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, items)
}

// GetEvents handles GET /api/events; ?featured=true narrows the list to the
// homepage banner events.
func (h *PublicHandler) GetEvents(c echo.Context) error {
	ctx := c.Request().Context()
	if c.QueryParam("featured") == "true" {
		items, err := h.Events.ListFeatured(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, items)
	}
	items, err := h.Events.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, items)
}

// GetPrograms handles GET /api/programs.
func (h *PublicHandler) GetPrograms(c echo.Context) error {
	items, err := h.Programs.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, items)
}

// GetStatus handles GET /api/status with the health monitor's current tag.
// A failed store reports 503 so load balancers can act on it.
func (h *PublicHandler) GetStatus(c echo.Context) error {
	s := h.Monitor.Status()
	code := http.StatusOK
	if s.State == monitor.StateFailed {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, echo.Map{
		"status":     s.State,
		"last_check": s.LastCheck,
		"uptime_ms":  s.Uptime.Milliseconds(),
	})
}
