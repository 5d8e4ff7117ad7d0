package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rrijambi/station-backend/internal/queue"
	"github.com/rrijambi/station-backend/internal/repository"
	"github.com/rrijambi/station-backend/internal/service"
	"github.com/rrijambi/station-backend/internal/store"
)

// AdminHandler bundles the repositories behind the back-office CRUD
// endpoints. Every successful mutation publishes a content audit event;
// publish failures are logged and ignored.
type AdminHandler struct {
	Schedules *repository.ScheduleRepo
	Members   *repository.MemberRepo
	Events    *repository.EventRepo
	Programs  *repository.ProgramRepo
}

func NewAdminHandler(s *repository.ScheduleRepo, m *repository.MemberRepo, e *repository.EventRepo, p *repository.ProgramRepo) *AdminHandler {
	if s == nil || m == nil || e == nil || p == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Schedules: s, Members: m, Events: e, Programs: p}
}

// kindStatus maps a classified store error to its HTTP status.
func kindStatus(err error) int {
	switch store.KindOf(err) {
	case store.KindNotFound:
		return http.StatusNotFound
	case store.KindValidation:
		return http.StatusBadRequest
	case store.KindAuthorization:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func storeErr(c echo.Context, err error) error {
	return c.JSON(kindStatus(err), echo.Map{"error": err.Error()})
}

// actor returns the admin_users id from the session claims set by JWTAuth.
func actor(c echo.Context) string {
	if v, ok := c.Get("user_id").(string); ok {
		return v
	}
	return ""
}

// audit publishes a content change event without blocking the response.
func audit(c echo.Context, action, table, recordID string) {
	ev := queue.ContentChangeEvent{
		Action:   action,
		Table:    table,
		RecordID: recordID,
		Actor:    actor(c),
		At:       time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := service.PublishContentChange(ctx, ev); err != nil {
			log.Printf("audit: publish %s %s failed: %v", action, table, err)
		}
	}()
}

// deleteAction names the audit action for a delete request.
func deleteAction(hard bool) string {
	if hard {
		return "hard_delete"
	}
	return "delete"
}
