package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rrijambi/station-backend/internal/config"
	"github.com/rrijambi/station-backend/internal/repository"
	"github.com/rrijambi/station-backend/internal/store"
)

func testConfig() config.Config {
	return config.Config{
		StoreDriver:   "memory",
		JWTSecret:     "auth-test-secret",
		AccessTTLMin:  15,
		BcryptCost:    4,
		AdminUsername: "ADMIN",
		AdminPassword: "ADMINRRI22",
	}
}

func newAuthFixture(t *testing.T) (*AuthHandler, *echo.Echo) {
	t.Helper()
	st := store.NewMem()
	users := repository.NewAdminUserRepo(st)
	cfg := testConfig()
	_, err := users.Create(context.Background(),
		cfg.AdminUsername, "admin@rrijambi.example", "Administrator", "ADMIN",
		cfg.AdminPassword, cfg.BcryptCost)
	require.NoError(t, err)
	return NewAuthHandler(cfg, users), echo.New()
}

func doLogin(t *testing.T, h *AuthHandler, e *echo.Echo, body string) (*httptest.ResponseRecorder, loginResp) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Login(e.NewContext(req, rec)))

	var resp loginResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestLoginAcceptsExactPair(t *testing.T) {
	h, e := newAuthFixture(t)

	rec, resp := doLogin(t, h, e, `{"username":"ADMIN","password":"ADMINRRI22"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Token)
	assert.Greater(t, resp.Expires, time.Now().Unix())

	tok, err := jwt.Parse(resp.Token, func(*jwt.Token) (interface{}, error) {
		return []byte(h.Cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	claims := tok.Claims.(jwt.MapClaims)
	assert.Equal(t, "ADMIN", claims["username"])
	assert.Equal(t, "ADMIN", claims["role"])
}

func TestLoginRejectsWrongPairs(t *testing.T) {
	h, e := newAuthFixture(t)

	tests := []struct {
		name string
		body string
	}{
		{"wrong password", `{"username":"ADMIN","password":"wrong"}`},
		{"wrong username", `{"username":"admin","password":"ADMINRRI22"}`},
		{"swapped pair", `{"username":"ADMINRRI22","password":"ADMIN"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := doLogin(t, h, e, tt.body)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, resp.Success)
			assert.Equal(t, "Invalid credentials", resp.Error)
			assert.Empty(t, resp.Token)
		})
	}
}

func TestLoginRequiresBothFields(t *testing.T) {
	h, e := newAuthFixture(t)

	rec, resp := doLogin(t, h, e, `{"username":"ADMIN"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
}

func TestLoginRejectsRotatedStoredHash(t *testing.T) {
	st := store.NewMem()
	users := repository.NewAdminUserRepo(st)
	cfg := testConfig()
	_, err := users.Create(context.Background(),
		cfg.AdminUsername, "admin@rrijambi.example", "Administrator", "ADMIN",
		"RotatedOutOfBand99", cfg.BcryptCost)
	require.NoError(t, err)

	h, e := NewAuthHandler(cfg, users), echo.New()
	rec, resp := doLogin(t, h, e, `{"username":"ADMIN","password":"ADMINRRI22"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", resp.Error)
	assert.Empty(t, resp.Token)
}

func TestLoginFailsWhenAccountDeactivated(t *testing.T) {
	st := store.NewMem()
	users := repository.NewAdminUserRepo(st)
	cfg := testConfig()
	created, err := users.Create(context.Background(),
		cfg.AdminUsername, "admin@rrijambi.example", "Administrator", "ADMIN",
		cfg.AdminPassword, cfg.BcryptCost)
	require.NoError(t, err)
	require.NoError(t, st.Delete(context.Background(), store.TableAdmins, created.ID, true))

	h, e := NewAuthHandler(cfg, users), echo.New()
	rec, resp := doLogin(t, h, e, `{"username":"ADMIN","password":"ADMINRRI22"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", resp.Error)
}
