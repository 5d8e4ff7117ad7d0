package main // Diagnostics CLI for the station store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/rrijambi/station-backend/internal/config"
	"github.com/rrijambi/station-backend/internal/diag"
	"github.com/rrijambi/station-backend/internal/store"
)

// main runs the six-stage sweep against the configured store and prints the
// report as indented JSON. The exit code is non-zero when the environment or
// connectivity stage fails, which is what deploy scripts gate on.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	st := openStore(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	report := diag.New(diag.Config{
		Driver:    cfg.StoreDriver,
		Endpoint:  endpoint(cfg),
		APIKey:    cfg.APIKey,
		JWTSecret: cfg.JWTSecret,
		Token:     os.Getenv("DIAG_TOKEN"),
	}, st).Run(ctx)

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatalf("diag: encode report: %v", err)
	}
	fmt.Println(string(out))

	if report.Environment.Status == diag.StatusFailed || report.Connectivity.Status == diag.StatusFailed {
		os.Exit(1)
	}
}

func openStore(cfg config.Config) store.Store {
	retry := store.RetryPolicy{MaxAttempts: cfg.RetryMaxAttempts, BaseDelay: cfg.RetryBaseDelay}
	switch cfg.StoreDriver {
	case "rest":
		return store.NewREST(cfg.APIBaseURL, cfg.APIKey, retry)
	case "memory":
		return store.NewMem()
	default:
		st, err := store.OpenSQL(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, retry)
		if err != nil {
			log.Fatalf("mysql: %v", err)
		}
		return st
	}
}

func endpoint(cfg config.Config) string {
	switch cfg.StoreDriver {
	case "rest":
		return cfg.APIBaseURL
	case "mysql":
		return "tcp://" + cfg.DBHost + ":" + cfg.DBPort
	default:
		return "memory://local"
	}
}
