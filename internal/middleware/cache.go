package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/rrijambi/station-backend/internal/config"
)

// cacheWriter captures the response body while forwarding it to the client,
// up to the configured size cap.
type cacheWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	limit  int
}

func (w *cacheWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *cacheWriter) Write(b []byte) (int, error) {
	if w.buf.Len() < w.limit {
		remain := w.limit - w.buf.Len()
		if len(b) <= remain {
			w.buf.Write(b)
		} else {
			w.buf.Write(b[:remain])
		}
	}
	return w.ResponseWriter.Write(b)
}

func cacheKey(prefix string, c echo.Context) string {
	sum := sha1.Sum([]byte(c.Path() + "?" + c.Request().URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum)
}

// ResponseCache serves public GET responses from Redis. Only 200 responses
// within the body cap are stored; anything, including a nil Redis client,
// degrades to a pass-through. Cached entries carry a JSON content type;
// the public list endpoints emit nothing else.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			key := cacheKey(cfg.Prefix, c)
			ctx, cancel := context.WithTimeout(c.Request().Context(), 500*time.Millisecond)
			cached, err := rdb.Get(ctx, key).Bytes()
			cancel()
			if err == nil {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.JSONBlob(http.StatusOK, cached)
			}

			cw := &cacheWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}
			if cw.status == http.StatusOK && cw.buf.Len() < cfg.MaxBodyBytes {
				ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
				_ = rdb.Set(ctx, key, cw.buf.Bytes(), cfg.TTL).Err()
				cancel()
			}
			return nil
		}
	}
}
