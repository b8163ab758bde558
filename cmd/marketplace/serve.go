package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kindapp/marketplace/internal/api"
	"github.com/kindapp/marketplace/internal/core/service"
	"github.com/kindapp/marketplace/internal/infrastructure/config"
	mongodb "github.com/kindapp/marketplace/internal/infrastructure/db/mongo"
	redisdb "github.com/kindapp/marketplace/internal/infrastructure/db/redis"
	httpserver "github.com/kindapp/marketplace/internal/infrastructure/http"
	"github.com/kindapp/marketplace/internal/infrastructure/http/handlers"
	"github.com/kindapp/marketplace/internal/infrastructure/queue"
	"github.com/kindapp/marketplace/internal/infrastructure/sms"
	"github.com/kindapp/marketplace/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and SMS outbox",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Output:  os.Stdout,
		Service: "marketplace",
	})

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer dcancel()
		_ = mongoClient.Disconnect(dctx)
	}()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

	gateway := sms.New(sms.Config{
		Username: cfg.SMS.Username,
		APIKey:   cfg.SMS.APIKey,
		SenderID: cfg.SMS.SenderID,
		BaseURL:  cfg.SMS.BaseURL,
	}, logger.Component("sms"))

	outbox := queue.NewOutbox(cfg.Outbox.Workers, cfg.Outbox.Buffer, gateway, logger.Component("outbox"))
	outbox.Start(ctx)
	defer outbox.Close()

	users := mongodb.NewUserRepository(db, logger.Component("mongo"))
	contacts := mongodb.NewContactRequestRepository(db)
	messages := mongodb.NewMessageRepository(db)

	notifier := service.NewNotifier(outbox, cfg.AdminPhoneNumber)
	if cfg.AdminPhoneNumber == "" {
		log.Warn().Msg("ADMIN_PHONE_NUMBER not set, admin alerts are disabled")
	}

	router := api.NewRouter(api.Dependencies{
		Auth:              service.NewAuthService(users, cfg.JWTSecret, cfg.TokenTTL),
		Users:             service.NewUserService(users, notifier, log),
		ContactRequests:   service.NewContactRequestService(contacts, users, notifier, log),
		Messages:          service.NewMessageService(messages, log),
		JWTSecret:         cfg.JWTSecret,
		Logger:            log,
		RateLimits:        redisdb.NewRateLimitStore(rdb, "ratelimit"),
		MessageRateLimit:  cfg.RateLimit.MessageLimit,
		MessageRateWindow: cfg.RateLimit.MessageWindow,
		ReadinessChecks: map[string]handlers.Check{
			"mongodb": func(ctx context.Context) error { return mongodb.Ping(ctx, mongoClient) },
			"redis":   func(ctx context.Context) error { return redisdb.Ping(ctx, rdb, 2*time.Second) },
		},
		Metrics: true,
	})

	return httpserver.NewServer(":"+cfg.Port, router, log).Run(ctx)
}
