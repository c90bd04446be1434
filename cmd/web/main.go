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
	"hearth/internal/model"
	"hearth/internal/notify"
	tracing "hearth/internal/otel"
	"hearth/internal/repository/postgres"
	"hearth/internal/server"
	"hearth/internal/service"
	"hearth/internal/storage"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Log, "web", cfg.Location())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Str("event", "startup_failed").Msg("web server stopped")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	shutdownTracing, err := tracing.Init(ctx, "hearth-web", log)
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, cfg.Database, "web")
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host, migration.WebSteps); err != nil {
		return err
	}

	store, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}

	reg := server.NewRegistry()
	if err := database.RegisterStats(reg, db, "web"); err != nil {
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
		auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, "web"),
		auth.NewRedisRevoker(rdb, "web"),
	)
	limits := service.TierLimits{
		model.TierFree: cfg.Web.FreeProfileLimit,
		model.TierPlus: cfg.Web.PlusProfileLimit,
		model.TierPro:  cfg.Web.ProProfileLimit,
	}

	identities := postgres.NewIdentityPostgres(db)
	profiles := postgres.NewProfilePostgres(db)
	posts := postgres.NewPostPostgres(db)
	albums := postgres.NewAlbumPostgres(db)
	follows := postgres.NewFollowPostgres(db)

	h := &handler.Web{
		Sessions: sessions,
		Accounts: service.NewAccountService(service.AccountDeps{
			Identities: identities,
			Profiles:   profiles,
			Hasher:     auth.NewPasswordHasher(cfg.Auth.BcryptCost),
			Limits:     limits,
			Notifier:   notify.New(cfg.Email, log),
			Metrics:    metrics,
			Log:        log,
		}),
		Profiles: service.NewProfileService(service.ProfileDeps{
			Identities:     identities,
			Profiles:       profiles,
			Follows:        follows,
			Store:          store,
			MaxUploadBytes: cfg.Web.MaxUploadBytes,
			Limits:         limits,
			Metrics:        metrics,
			Log:            log,
		}),
		Posts:         service.NewPostService(profiles, posts, store, cfg.Web.MaxUploadBytes, log),
		Albums:        service.NewAlbumService(profiles, albums, store, cfg.Web.MaxUploadBytes, log),
		Follows:       service.NewFollowService(profiles, follows),
		Cookie:        handler.SessionCookie{Name: cfg.Auth.CookieName, Secure: cfg.Auth.CookieSecure},
		BillingSecret: cfg.Web.BillingSecret,
	}

	app, err := server.New(server.Options{
		Name:        "web",
		Log:         log,
		Registry:    reg,
		DB:          db,
		Docs:        docs.WebInfo,
		CORSOrigins: cfg.AllowedOrigins(),
		// multipart framing on top of the largest accepted file
		BodyLimit: int(cfg.Web.MaxUploadBytes) + 1<<20,
	})
	if err != nil {
		return err
	}
	handler.RegisterWebRoutes(app, h)

	return server.Run(ctx, app, ":"+cfg.Port, 10*time.Second, log,
		func(context.Context) error { return rdb.Close() },
		shutdownTracing,
	)
}
