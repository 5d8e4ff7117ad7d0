package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/rrijambi/station-backend/internal/config"
)

func TestResponseCacheWithoutRedisIsPassThrough(t *testing.T) {
	e := echo.New()
	e.GET("/api/programs", func(c echo.Context) error {
		return c.JSON(http.StatusOK, []string{"Pro 1"})
	}, ResponseCache(config.CacheConfig{Enabled: true, TTL: 30 * time.Second, Prefix: "cache", MaxBodyBytes: 1 << 20}, nil))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/programs", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"), "no cache headers without a backing client")
}

func TestRateLimitWithoutRedisNeverBlocks(t *testing.T) {
	e := echo.New()
	e.POST("/api/login", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, RateLimit(config.RateLimitConfig{Enabled: true, Limit: 1, Window: time.Minute, Prefix: "rl"}, nil))

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/login", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestCacheKeyVariesWithQuery(t *testing.T) {
	e := echo.New()
	newCtx := func(target string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/api/events")
		return c
	}

	plain := cacheKey("cache", newCtx("/api/events"))
	featured := cacheKey("cache", newCtx("/api/events?featured=true"))
	assert.NotEqual(t, plain, featured)
	assert.Equal(t, plain, cacheKey("cache", newCtx("/api/events")))
}
