package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/staysupply/staysupply-backend/internal/agent"
	"github.com/staysupply/staysupply-backend/internal/auditlog"
	"github.com/staysupply/staysupply-backend/pkg/config"
	"github.com/staysupply/staysupply-backend/pkg/db"
	"github.com/staysupply/staysupply-backend/pkg/logger"
	"github.com/staysupply/staysupply-backend/pkg/metrics"
	"github.com/staysupply/staysupply-backend/pkg/migrate"
	"github.com/staysupply/staysupply-backend/pkg/queue"
	"github.com/staysupply/staysupply-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "agent-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "agent-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	queueClient, err := queue.NewClient(redisClient, cfg.Queue.Name, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create queue client", err)
		os.Exit(1)
	}

	auditService, err := auditlog.NewService(auditlog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create audit log service", err)
		os.Exit(1)
	}

	engine, err := agent.NewEngine(agent.NewRepository(dbClient.DB()), auditService)
	if err != nil {
		logg.Error(context.Background(), "failed to create gap analysis engine", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewQueueJobMetrics(prometheus.DefaultRegisterer)
	queueWorker, err := queue.NewWorker(queue.WorkerParams{
		Client:       queueClient,
		Logger:       logg,
		Metrics:      metricsCollector,
		JobTimeout:   cfg.Queue.JobTimeout,
		PollInterval: cfg.Queue.PollInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create queue worker", err)
		os.Exit(1)
	}
	queueWorker.Handle(agent.JobInventoryGapAnalysis, agent.NewJobHandler(engine))

	service, err := NewService(ServiceParams{
		Config: cfg,
		Logger: logg,
		DB:     dbClient,
		Redis:  redisClient,
		Worker: queueWorker,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create worker service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = logg.WithFields(ctx, map[string]any{
		"env":   cfg.App.Env,
		"queue": cfg.Queue.Name,
	})
	logg.Info(ctx, "starting agent worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "agent worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "agent worker shut down gracefully")
}
