package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/itbasis/go-clock"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/palmithor/scorebrawl/internal/config"
	"github.com/palmithor/scorebrawl/internal/db"
	"github.com/palmithor/scorebrawl/internal/events"
	"github.com/palmithor/scorebrawl/internal/metrics"
	"github.com/palmithor/scorebrawl/internal/middleware"
	"github.com/palmithor/scorebrawl/internal/service"
	"github.com/palmithor/scorebrawl/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
	"golang.org/x/time/rate"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	app := &cli.App{
		Name:  "scorebrawl",
		Usage: "rating and standings for casual leagues",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "scorebrawl.yaml",
				Usage:   "path to the YAML config file",
				EnvVars: []string{"SCOREBRAWL_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "apply or roll back database migrations",
				Subcommands: []*cli.Command{
					{
						Name:   "up",
						Action: migrateUp,
					},
					{
						Name: "down",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "steps", Value: 1, Usage: "number of migrations to roll back, 0 for all"},
						},
						Action: migrateDown,
					},
				},
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("scorebrawl failed", "error", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func migrateUp(c *cli.Context) error {
	cfg, logger, err := loadConfig(c)
	if err != nil {
		return err
	}
	database, err := db.Connect(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.RunMigrations(database.DB); err != nil {
		return err
	}
	logger.Info("migrations applied", "path", cfg.Database.Path)
	return nil
}

func migrateDown(c *cli.Context) error {
	cfg, logger, err := loadConfig(c)
	if err != nil {
		return err
	}
	database, err := db.Connect(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer database.Close()

	steps := c.Int("steps")
	if err := db.RollbackMigrations(database.DB, steps); err != nil {
		return err
	}
	logger.Info("migrations rolled back", "path", cfg.Database.Path, "steps", steps)
	return nil
}

func serve(c *cli.Context) error {
	cfg, logger, err := loadConfig(c)
	if err != nil {
		return err
	}

	database, err := db.Connect(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.RunMigrations(database.DB); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	providers := middleware.InitAuth(cfg)
	logger.Info("oauth providers configured", "providers", providers)

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.Session.Lifetime
	sessionManager.Store = sqlite3store.New(database.DB)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	bus := events.NewBus(logger)
	defer bus.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	clk := clock.New()
	app := newApp(database, store.New(), clk, bus, m, logger)
	if err := bus.SubscribeMatchCreated(ctx, app.achievements.HandleMatchCreated); err != nil {
		return fmt.Errorf("failed to subscribe to match events: %w", err)
	}

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           app.routes(sessionManager, middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst, clk)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

type app struct {
	users        *service.UserService
	leagues      *service.LeagueService
	seasons      *service.SeasonService
	matches      *service.MatchService
	standings    *service.StandingService
	achievements *service.AchievementService
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

func newApp(database *sqlx.DB, stores *store.Stores, clk clock.Clock, publisher events.Publisher, m *metrics.Metrics, logger *slog.Logger) *app {
	teams := service.NewTeamService(stores, service.FirstNamesNamer{}, clk)
	return &app{
		users:        service.NewUserService(database, stores, clk),
		leagues:      service.NewLeagueService(database, stores, clk),
		seasons:      service.NewSeasonService(database, stores, clk),
		matches:      service.NewMatchService(database, stores, teams, clk, publisher, m, logger),
		standings:    service.NewStandingService(database, stores, clk),
		achievements: service.NewAchievementService(database, stores, clk, m, logger),
		metrics:      m,
		logger:       logger,
	}
}
