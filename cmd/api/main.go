package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/staysupply/staysupply-backend/api/routes"
	"github.com/staysupply/staysupply-backend/internal/agent"
	"github.com/staysupply/staysupply-backend/internal/auditlog"
	"github.com/staysupply/staysupply-backend/internal/auth"
	"github.com/staysupply/staysupply-backend/internal/carts"
	"github.com/staysupply/staysupply-backend/internal/catalog"
	"github.com/staysupply/staysupply-backend/internal/managers"
	"github.com/staysupply/staysupply-backend/internal/orders"
	"github.com/staysupply/staysupply-backend/internal/properties"
	"github.com/staysupply/staysupply-backend/internal/reservations"
	"github.com/staysupply/staysupply-backend/internal/users"
	"github.com/staysupply/staysupply-backend/pkg/config"
	"github.com/staysupply/staysupply-backend/pkg/db"
	"github.com/staysupply/staysupply-backend/pkg/logger"
	"github.com/staysupply/staysupply-backend/pkg/migrate"
	"github.com/staysupply/staysupply-backend/pkg/queue"
	"github.com/staysupply/staysupply-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	gormDB := dbClient.DB()
	auditService, err := auditlog.NewService(auditlog.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create audit log service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:     users.NewRepository(gormDB),
		SessionStore: redisClient,
		JWTConfig:    cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	userService, err := users.NewService(users.NewRepository(gormDB), cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	propertyService, err := properties.NewService(properties.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create property service", err)
		os.Exit(1)
	}

	reservationService, err := reservations.NewService(reservations.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create reservation service", err)
		os.Exit(1)
	}

	cartService, err := carts.NewService(carts.NewRepository(gormDB), auditService)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	managerService, err := managers.NewService(managers.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create manager service", err)
		os.Exit(1)
	}

	agentTrigger, err := agent.NewTrigger(queueClient, agent.NewRepository(gormDB), queue.DefaultOptions(cfg.Queue))
	if err != nil {
		logg.Error(context.Background(), "failed to create agent trigger", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, routes.Services{
			Auth:         authService,
			Users:        userService,
			Properties:   propertyService,
			Reservations: reservationService,
			Carts:        cartService,
			Orders:       orderService,
			Catalog:      catalogService,
			Managers:     managerService,
			AuditLog:     auditService,
			AgentTrigger: agentTrigger,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
