package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/scholarbridge/scholarbridge-backend/api/routes"
	"github.com/scholarbridge/scholarbridge-backend/internal/applications"
	"github.com/scholarbridge/scholarbridge-backend/internal/auth"
	"github.com/scholarbridge/scholarbridge-backend/internal/notifications"
	"github.com/scholarbridge/scholarbridge-backend/internal/resources"
	"github.com/scholarbridge/scholarbridge-backend/internal/saved"
	"github.com/scholarbridge/scholarbridge-backend/internal/scholarships"
	"github.com/scholarbridge/scholarbridge-backend/internal/users"
	"github.com/scholarbridge/scholarbridge-backend/pkg/auth/session"
	"github.com/scholarbridge/scholarbridge-backend/pkg/config"
	"github.com/scholarbridge/scholarbridge-backend/pkg/db"
	"github.com/scholarbridge/scholarbridge-backend/pkg/logger"
	"github.com/scholarbridge/scholarbridge-backend/pkg/migrate"
	"github.com/scholarbridge/scholarbridge-backend/pkg/outbox"
	"github.com/scholarbridge/scholarbridge-backend/pkg/redis"
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	usersRepo := users.NewRepository(gormDB)
	scholarshipsRepo := scholarships.NewRepository(gormDB)
	applicationsRepo := applications.NewRepository(gormDB)
	savedRepo := saved.NewRepository(gormDB)
	resourcesRepo := resources.NewRepository(gormDB)
	notificationsRepo := notifications.NewRepository(gormDB)
	outboxService := outbox.NewService(outbox.NewRepository(gormDB), logg)

	fanout, err := notifications.NewFanout(notifications.FanoutParams{
		Repo:         notificationsRepo,
		Users:        usersRepo,
		Scholarships: scholarshipsRepo,
		Logger:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notification fanout", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		Broadcaster:    fanout,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	scholarshipsService, err := scholarships.NewService(scholarships.ServiceParams{
		Repo:   scholarshipsRepo,
		Tx:     dbClient,
		Outbox: outboxService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create scholarships service", err)
		os.Exit(1)
	}

	applicationsService, err := applications.NewService(applications.ServiceParams{
		Repo:         applicationsRepo,
		Scholarships: scholarshipsRepo,
		Notifier:     fanout,
		Tx:           dbClient,
		Outbox:       outboxService,
		Logger:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create applications service", err)
		os.Exit(1)
	}

	savedService, err := saved.NewService(saved.ServiceParams{
		Repo:         savedRepo,
		Scholarships: scholarshipsRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create saved service", err)
		os.Exit(1)
	}

	resourcesService, err := resources.NewService(resourcesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create resources service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notificationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	moderationService, err := users.NewModerationService(usersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create moderation service", err)
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
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, routes.Services{
			Auth:          authService,
			Scholarships:  scholarshipsService,
			Applications:  applicationsService,
			Saved:         savedService,
			Resources:     resourcesService,
			Notifications: notificationsService,
			Moderation:    moderationService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
