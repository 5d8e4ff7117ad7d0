package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/rrijambi/station-backend/internal/config"
	"github.com/rrijambi/station-backend/internal/handler"
	"github.com/rrijambi/station-backend/internal/middleware"
)

// RegisterPublic registers the unauthenticated site endpoints under /api.
// These feed the promotional pages, so the whole group sits behind the
// Redis response cache; with no Redis client the cache is a pass-through.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	g := e.Group("/api")
	g.Use(middleware.ResponseCache(cacheCfg, rdb))
	// Broadcast schedule, optionally narrowed with ?program=<name>.
	g.GET("/schedules", p.GetSchedules)
	// Organization members ordered by their display position.
	g.GET("/organization-members", p.GetMembers)
	// Events, newest first; ?featured=true keeps only the highlighted ones.
	g.GET("/events", p.GetEvents)
	// Radio programs (Pro 1, Pro 2 and so on) with their frequencies.
	g.GET("/programs", p.GetPrograms)
	// Store health as seen by the background monitor. Returns 503 while
	// the store is failed so uptime probes can key off the status code.
	g.GET("/status", p.GetStatus)
}

// RegisterAuth registers the login endpoint under /api. Login is the only
// write on the public surface, so it alone is rate limited.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	e.POST("/api/login", a.Login, middleware.RateLimit(rlCfg, rdb))
}

// RegisterAdmin registers the back-office CRUD and diagnostics endpoints
// under /v1/admin. Every route requires a valid access token carrying the
// ADMIN role.
func RegisterAdmin(e *echo.Echo, ad *handler.AdminHandler, dg *handler.DiagnosticsHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))

	// Schedules: admin listing includes soft-deleted rows so they can be
	// reactivated from the dashboard.
	g.GET("/schedules", ad.ListSchedules)
	g.POST("/schedules", ad.CreateSchedule)
	g.PUT("/schedules/:id", ad.UpdateSchedule)
	g.DELETE("/schedules/:id", ad.DeleteSchedule)

	g.GET("/organization-members", ad.ListMembers)
	g.POST("/organization-members", ad.CreateMember)
	g.PUT("/organization-members/:id", ad.UpdateMember)
	g.DELETE("/organization-members/:id", ad.DeleteMember)

	g.GET("/events", ad.ListEvents)
	g.POST("/events", ad.CreateEvent)
	g.PUT("/events/:id", ad.UpdateEvent)
	g.DELETE("/events/:id", ad.DeleteEvent)

	g.GET("/programs", ad.ListPrograms)
	g.POST("/programs", ad.CreateProgram)
	g.PUT("/programs/:id", ad.UpdateProgram)
	g.DELETE("/programs/:id", ad.DeleteProgram)

	// On-demand six-stage store diagnostics sweep.
	g.GET("/diagnostics", dg.Run)
}
