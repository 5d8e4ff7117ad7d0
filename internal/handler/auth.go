// Package handler contains the HTTP handlers: public content reads, the
// admin login, the back-office CRUD surface, the health status endpoint and
// the diagnostics sweep.
package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rrijambi/station-backend/internal/config"
	"github.com/rrijambi/station-backend/internal/repository"
	"github.com/rrijambi/station-backend/internal/store"
	"github.com/rrijambi/station-backend/internal/utils"
)

// AuthHandler implements the admin login.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.AdminUserRepo
}

func NewAuthHandler(cfg config.Config, users *repository.AdminUserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	Success bool   `json:"success"`
	User    any    `json:"user,omitempty"`
	Token   string `json:"token,omitempty"`
	Expires int64  `json:"expires,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Login verifies the submitted pair against the configured credentials and,
// on a match, loads the admin_users row, checks its stored password hash and
// issues a session token. Any other pair fails with 401 and no session side
// effect.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, loginResp{Error: "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, loginResp{Error: "username/password required"})
	}

	if req.Username != h.Cfg.AdminUsername || req.Password != h.Cfg.AdminPassword {
		return c.JSON(http.StatusUnauthorized, loginResp{Error: "Invalid credentials"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	user, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if store.KindOf(err) == store.KindNotFound {
			return c.JSON(http.StatusUnauthorized, loginResp{Error: "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, loginResp{Error: "login failed"})
	}

	// The account row is the second factor: a hash rotated out from under
	// the configured pair locks the pair out too.
	if user.PasswordHash != "" && !utils.VerifyPassword(user.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, loginResp{Error: "Invalid credentials"})
	}

	role := user.Role
	if role == "" {
		role = "ADMIN"
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, user.ID, user.Username, role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, loginResp{Error: "issue token failed"})
	}
	return c.JSON(http.StatusOK, loginResp{
		Success: true,
		User:    user,
		Token:   access.Token,
		Expires: access.Exp.Unix(),
	})
}
