package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/rrijambi/station-backend/internal/config"
	"github.com/rrijambi/station-backend/internal/handler"
	"github.com/rrijambi/station-backend/internal/monitor"
	"github.com/rrijambi/station-backend/internal/queue"
	"github.com/rrijambi/station-backend/internal/repository"
	"github.com/rrijambi/station-backend/internal/router"
	"github.com/rrijambi/station-backend/internal/service"
	"github.com/rrijambi/station-backend/internal/store"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment

	cfg := config.Load()
	st := openStore(cfg)

	schedules := repository.NewScheduleRepo(st)
	members := repository.NewMemberRepo(st)
	events := repository.NewEventRepo(st)
	programs := repository.NewProgramRepo(st)
	admins := repository.NewAdminUserRepo(st)

	// The in-memory driver starts empty, so seed the fixed back-office
	// account there to keep login usable out of the box.
	if cfg.StoreDriver == "memory" {
		seedAdmin(admins, cfg)
	}

	mon := monitor.New(st, cfg.MonitorInterval, cfg.MonitorDegradedAfter, recoveryFor(st))
	mon.Subscribe(func(ch monitor.Change) {
		ev := queue.HealthStatusEvent{
			Previous: string(ch.From),
			Current:  string(ch.To),
			Reason:   ch.Reason,
			At:       ch.At.UTC().Format(time.RFC3339),
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := service.PublishHealthStatus(ctx, ev); err != nil {
			log.Printf("health: publish transition failed: %v", err)
		}
	})
	mon.Start(context.Background())
	defer mon.Stop()

	// Queue consumers append one line per message to their log files and
	// reconnect on their own when the broker drops.
	go queue.StartConsumer(queue.HealthQueue, "logs/health.log")
	go queue.StartConsumer(queue.AuditQueue, "logs/audit.log")

	rdb := config.NewRedisClient() // nil when Redis is unreachable

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	pub := handler.NewPublicHandler(schedules, members, events, programs, mon)
	auth := handler.NewAuthHandler(cfg, admins)
	admin := handler.NewAdminHandler(schedules, members, events, programs)
	diagh := handler.NewDiagnosticsHandler(cfg, st)

	router.RegisterPublic(e, pub, config.LoadCacheConfig(), rdb)
	router.RegisterAuth(e, auth, config.LoadRateLimitConfig(), rdb)
	router.RegisterAdmin(e, admin, diagh, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s driver=%s)", addr, cfg.Env, cfg.StoreDriver)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// openStore builds the data-access driver named by STORE_DRIVER. Unknown
// driver values were already rejected by config.Load.
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

// recoveryFor picks the monitor's recovery action for the active driver.
// The REST driver can refresh its session; the others just re-probe.
func recoveryFor(st store.Store) func(context.Context) error {
	if sr, ok := st.(store.SessionRefresher); ok {
		return sr.RefreshSession
	}
	return func(ctx context.Context) error {
		_, err := st.Ping(ctx)
		return err
	}
}

func seedAdmin(admins *repository.AdminUserRepo, cfg config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := admins.Create(ctx, cfg.AdminUsername, "admin@rrijambi.example", "Administrator", "ADMIN", cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		log.Printf("seed: admin user: %v", err)
	}
}
