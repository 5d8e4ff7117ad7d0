package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rrijambi/station-backend/internal/config"
	"github.com/rrijambi/station-backend/internal/diag"
	"github.com/rrijambi/station-backend/internal/store"
)

// DiagnosticsHandler exposes the six-stage store diagnostics sweep to
// back-office admins.
type DiagnosticsHandler struct {
	Cfg   config.Config
	Store store.Store
}

func NewDiagnosticsHandler(cfg config.Config, st store.Store) *DiagnosticsHandler {
	return &DiagnosticsHandler{Cfg: cfg, Store: st}
}

// Run handles GET /v1/admin/diagnostics. The caller's own bearer token is
// fed into the authentication stage so the report reflects the invoking
// session, not a synthetic one.
func (h *DiagnosticsHandler) Run(c echo.Context) error {
	token, _ := c.Get("token").(string)
	report := diag.New(diag.Config{
		Driver:    h.Cfg.StoreDriver,
		Endpoint:  storeEndpoint(h.Cfg),
		APIKey:    h.Cfg.APIKey,
		JWTSecret: h.Cfg.JWTSecret,
		Token:     token,
	}, h.Store).Run(c.Request().Context())
	return c.JSON(http.StatusOK, report)
}

// storeEndpoint describes the active store target for the environment stage.
// The REST driver has a real URL; MySQL gets a tcp:// pseudo-URL and the
// in-memory driver is identified by name.
func storeEndpoint(cfg config.Config) string {
	switch cfg.StoreDriver {
	case "rest":
		return cfg.APIBaseURL
	case "mysql":
		return "tcp://" + cfg.DBHost + ":" + cfg.DBPort
	default:
		return "memory://local"
	}
}
