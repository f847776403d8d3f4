package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/limbo/goaltrackr/internal/api"
	"github.com/limbo/goaltrackr/internal/cache"
	"github.com/limbo/goaltrackr/internal/repository"
	"github.com/limbo/goaltrackr/internal/service"
	"github.com/limbo/goaltrackr/pkg/cleanup"
	"github.com/limbo/goaltrackr/pkg/config"
	jwtservice "github.com/limbo/goaltrackr/pkg/jwt_service"
	"github.com/limbo/goaltrackr/pkg/logger"
)

func init() {
	service.InitValidator()
}

func main() {
	cfg := config.New()
	log, closeLog := logger.New(logger.Options{
		Level: cfg.GetStringOr("LOG_LEVEL", "info"),
		File:  cfg.GetString("LOG_FILE"),
	})
	slog.SetDefault(log)
	cleanup.Register(&cleanup.Job{Name: "logger", F: closeLog})
	slog.Info("config loaded", slog.String("source", cfg.Source()))

	if err := run(cfg); err != nil {
		slog.Error("server error", slog.String("error", err.Error()))
		cleanup.CleanUp()
		os.Exit(1)
	}
	cleanup.CleanUp()
}

func run(cfg *config.Config) error {
	secret := cfg.GetString("JWT_SECRET")
	if secret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
		SSLMode:  cfg.GetStringOr("POSTGRES_SSLMODE", "disable"),
	}
	if dir := cfg.GetString("MIGRATIONS_DIR"); dir != "" {
		if err := repository.Migrate(dbCfg.ConnString(), dir); err != nil {
			return err
		}
		slog.Info("migrations applied", slog.String("dir", dir))
	}
	dbCfg.MaxConns = cfg.GetInt("POSTGRES_MAX_CONNS", 10)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := repository.Connect(connectCtx, &dbCfg)
	if err != nil {
		return err
	}
	cleanup.Register(&cleanup.Job{Name: "postgres pool", F: func() error {
		pool.Close()
		return nil
	}})

	opts := []service.Option{
		service.WithDemoAccount(service.DemoAccount{
			Name:     cfg.GetString("DEMO_USER_NAME"),
			Email:    cfg.GetString("DEMO_USER_EMAIL"),
			Password: cfg.GetString("DEMO_USER_PASSWORD"),
		}),
	}
	if addr := cfg.GetString("REDIS_ADDRESS"); addr != "" {
		client, err := cache.Connect(connectCtx, cache.RedisCfg{
			Address:  addr,
			Password: cfg.GetString("REDIS_PASSWORD"),
			DB:       cfg.GetInt("REDIS_DB", 0),
		})
		if err != nil {
			return err
		}
		cleanup.Register(&cleanup.Job{Name: "redis client", F: client.Close})
		summaryCache := cache.NewSummaryCache(client, cfg.GetDuration("SUMMARY_CACHE_TTL", 5*time.Minute), slog.Default())
		opts = append(opts, service.WithSummaryCache(summaryCache))
	} else {
		slog.Info("summary cache disabled, REDIS_ADDRESS is empty")
	}

	users := repository.NewUsersRepo(pool)
	goals := repository.NewGoalsRepo(pool)
	tasks := repository.NewTasksRepo(pool)
	journals := repository.NewJournalsRepo(pool)

	serv := api.New(&api.ServicesList{
		UserService:      service.NewUserService(users, opts...),
		GoalsService:     service.NewGoalsService(goals, tasks, opts...),
		TasksService:     service.NewTasksService(tasks, goals, opts...),
		JournalsService:  service.NewJournalsService(journals, opts...),
		DashboardService: service.NewDashboardService(goals, tasks, journals, opts...),
		JwtService:       jwtservice.New(secret, cfg.GetDuration("JWT_TTL", 7*24*time.Hour)),
		HealthCheck:      pool.Ping,
		AuthRateLimit:    cfg.GetFloat("AUTH_RATE_LIMIT", 1),
		AuthRateBurst:    cfg.GetInt("AUTH_RATE_BURST", 5),

		TrustProxyHeaders: cfg.GetBool("TRUST_PROXY_HEADERS", false),
	})
	return serv.Run(ctx, cfg.GetStringOr("API_ADDRESS", ":8080"))
}
