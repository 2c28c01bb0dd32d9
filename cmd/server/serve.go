package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sumire/jobboard/internal/config"
	"github.com/sumire/jobboard/internal/domain"
	"github.com/sumire/jobboard/internal/handler"
	"github.com/sumire/jobboard/internal/live"
	"github.com/sumire/jobboard/internal/migrate"
	"github.com/sumire/jobboard/internal/repository"
	"github.com/sumire/jobboard/internal/scheduler"
	"github.com/sumire/jobboard/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API and live channel",
	Long:  "Start the HTTP server. It also runs the demotion sweep and, when REDIS_URL is set, relays live events between instances.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := connectDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	slog.Info("database connected")

	if cfg.RunMigrationsOnStart {
		if err := migrate.Run(ctx, db.DB); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	hub := live.NewHub(live.HubOptions{SendBuffer: cfg.LiveSendBuffer, Logger: logger})

	var (
		broadcaster live.Broadcaster = hub
		relay       *live.RedisRelay
	)
	if cfg.RedisURL != "" {
		rdb, err := live.Dial(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rdb.Close()
		relay = live.NewRedisRelay(rdb, cfg.RedisChannel, hub, logger)
		broadcaster = relay
		slog.Info("redis connected", "channel", cfg.RedisChannel)
	}

	jobRepo := repository.NewJobRepository(db)
	userRepo := repository.NewUserRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	evalRepo := repository.NewEvaluationRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	prefRepo := repository.NewPreferenceRepository(db)

	policy := domain.DefaultDemotionPolicy()
	authSvc := service.NewAuthService(cfg.JWTSecret)
	notificationSvc := service.NewNotificationService(notificationRepo, jobRepo, broadcaster, logger)
	jobSvc := service.NewJobService(jobRepo, service.NewMatcher(prefRepo, logger), notificationSvc, logger)
	appSvc := service.NewApplicationService(appRepo, jobRepo, userRepo, notificationRepo, logger)
	evalSvc := service.NewEvaluationService(evalRepo, jobRepo, appRepo, notificationSvc, policy, logger)
	moderationSvc := service.NewModerationService(jobRepo, evalRepo, notificationSvc, policy, logger)

	e := handler.NewRouter(handler.Handlers{
		Jobs:          handler.NewJobHandler(jobSvc),
		Applications:  handler.NewApplicationHandler(appSvc),
		Evaluations:   handler.NewEvaluationHandler(evalSvc),
		Notifications: handler.NewNotificationHandler(notificationSvc),
		Admin:         handler.NewAdminHandler(moderationSvc),
		Live: live.NewHandler(hub, live.HandlerOptions{
			AllowedOrigins: cfg.FrontendURLs,
			Logger:         logger,
		}),
	}, handler.RouterOptions{
		Tokens:         authSvc,
		AllowedOrigins: cfg.FrontendURLs,
		Logger:         logger,
		Health:         db.PingContext,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	if relay != nil {
		g.Go(func() error { return relay.Run(gctx) })
	}
	if cfg.SweepEnabled() {
		sched := scheduler.New(moderationSvc, cfg.DemotionSweepSpec, logger)
		g.Go(func() error { return sched.Run(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		// Live connections are hijacked, so Shutdown does not wait for them.
		hub.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped gracefully")
	return nil
}

func connectDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
	return db, nil
}
