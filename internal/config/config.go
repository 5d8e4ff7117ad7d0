// Package config loads application configuration from environment
// variables. Required values are enforced with must(); everything else has
// a documented default suitable for local development.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime settings. Field groups: HTTP server, store
// selection, MySQL driver, REST driver, auth, retry policy and health
// monitor. A missing required value is a configuration error and fatal at
// startup.
type Config struct {
	Env  string // application environment (dev/prod)
	Port string // HTTP port to listen on

	StoreDriver string // mysql | rest | memory

	DBUser string
	DBPass string
	DBHost string
	DBPort string
	DBName string

	APIBaseURL string // REST driver endpoint, e.g. https://xyz.supabase.co
	APIKey     string // REST driver key, sent as apikey + Bearer

	JWTSecret     string
	AccessTTLMin  int
	BcryptCost    int
	AdminUsername string // expected login pair; the site ships a fixed
	AdminPassword string // ADMIN/ADMINRRI22 credential check

	RetryMaxAttempts int
	RetryBaseDelay   time.Duration

	MonitorInterval      time.Duration
	MonitorDegradedAfter time.Duration
}

// Load reads the environment. Defaults match the production deployment:
// port 3001, MySQL rri_jambi on localhost.
func Load() Config {
	cfg := Config{
		Env:  getenv("APP_ENV", "dev"),
		Port: getenv("APP_PORT", "3001"),

		StoreDriver: getenv("STORE_DRIVER", "mysql"),

		DBUser: getenv("MYSQL_USER", "root"),
		DBPass: os.Getenv("MYSQL_PASSWORD"),
		DBHost: getenv("MYSQL_HOST", "localhost"),
		DBPort: getenv("MYSQL_PORT", "3306"),
		DBName: getenv("MYSQL_DATABASE", "rri_jambi"),

		APIBaseURL: os.Getenv("API_BASE_URL"),
		APIKey:     os.Getenv("API_KEY"),

		JWTSecret:     must("JWT_SECRET"),
		AccessTTLMin:  envInt("ACCESS_TOKEN_TTL_MIN", 60),
		BcryptCost:    envInt("BCRYPT_COST", 10),
		AdminUsername: getenv("ADMIN_USERNAME", "ADMIN"),
		AdminPassword: getenv("ADMIN_PASSWORD", "ADMINRRI22"),

		RetryMaxAttempts: envInt("RETRY_MAX_ATTEMPTS", 3),
		RetryBaseDelay:   envDur("RETRY_BASE_DELAY", time.Second),

		MonitorInterval:      envDur("MONITOR_INTERVAL", 30*time.Second),
		MonitorDegradedAfter: envDur("MONITOR_DEGRADED_AFTER", 5*time.Second),
	}

	switch cfg.StoreDriver {
	case "mysql", "memory":
	case "rest":
		if cfg.APIBaseURL == "" {
			log.Fatalf("config: STORE_DRIVER=rest requires API_BASE_URL")
		}
		if cfg.APIKey == "" {
			log.Fatalf("config: STORE_DRIVER=rest requires API_KEY")
		}
	default:
		log.Fatalf("config: unknown STORE_DRIVER %q (want mysql, rest or memory)", cfg.StoreDriver)
	}
	return cfg
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}

func envBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return def
}
