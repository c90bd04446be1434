package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"hearth/docs"
	"hearth/internal/auth"
	"hearth/internal/config"
	"hearth/internal/database"
	"hearth/internal/database/migration"
	"hearth/internal/http/handler"
	"hearth/internal/logger"
	"hearth/internal/notify"
	tracing "hearth/internal/otel"
	"hearth/internal/repository/postgres"
	"hearth/internal/scheduler"
	"hearth/internal/server"
	"hearth/internal/service"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Log, "chat", cfg.Location())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Str("event", "startup_failed").Msg("chat server stopped")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	shutdownTracing, err := tracing.Init(ctx, "hearth-chat", log)
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, cfg.Database, "chat")
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host, migration.ChatSteps); err != nil {
		return err
	}

	reg := server.NewRegistry()
	if err := database.RegisterStats(reg, db, "chat"); err != nil {
		return err
	}
	metrics, err := service.NewMetrics(reg)
	if err != nil {
		return err
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	sessions := service.NewSessionService(
		auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, "chat"),
		auth.NewRedisRevoker(rdb, "chat"),
	)
	notifier := notify.New(cfg.Email, log)

	parents := postgres.NewParentPostgres(db)
	children := postgres.NewChildPostgres(db)
	timeouts := postgres.NewTimeoutPostgres(db)
	friendships := postgres.NewFriendshipPostgres(db)
	messages := postgres.NewMessagePostgres(db)

	familySvc := service.NewFamilyService(service.FamilyDeps{
		Parents:     parents,
		Children:    children,
		Timeouts:    timeouts,
		Messages:    messages,
		Hasher:      auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		Notifier:    notifier,
		DefaultZone: cfg.Chat.DefaultTimezone,
		Log:         log,
	})
	friendSvc := service.NewFriendService(parents, children, friendships, notifier, log)
	messageSvc := service.NewMessageService(service.MessageDeps{
		Parents:     parents,
		Children:    children,
		Friendships: friendships,
		Timeouts:    timeouts,
		Messages:    messages,
		Notifier:    notifier,
		Metrics:     metrics,
		MaxLen:      cfg.Chat.MaxMessageLen,
		Log:         log,
	})

	sweeper, err := scheduler.New(cfg.Chat.ReleaseSchedule, messageSvc, log, scheduler.Options{
		Location: cfg.Location(),
		Registry: reg,
	})
	if err != nil {
		return err
	}

	app, err := server.New(server.Options{
		Name:        "chat",
		Log:         log,
		Registry:    reg,
		DB:          db,
		Docs:        docs.ChatInfo,
		CORSOrigins: cfg.AllowedOrigins(),
	})
	if err != nil {
		return err
	}
	handler.RegisterChatRoutes(app, &handler.Chat{
		Sessions: sessions,
		Family:   familySvc,
		Friends:  friendSvc,
		Messages: messageSvc,
		Cookie:   handler.SessionCookie{Name: cfg.Auth.CookieName, Secure: cfg.Auth.CookieSecure},
	})

	sweeper.Start()
	return server.Run(ctx, app, ":"+cfg.Port, 10*time.Second, log,
		sweeper.Stop,
		func(context.Context) error { return rdb.Close() },
		shutdownTracing,
	)
}
