// Package server assembles the fiber application shared by both binaries:
// middleware stack, health, metrics and API docs, plus graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"

	"hearth/internal/http/handler"
	"hearth/internal/http/middleware"
)

// Options configures New.
type Options struct {
	// Name is the application name ("chat" or "web"), used for spans and docs.
	Name        string
	Log         zerolog.Logger
	Registry    *prometheus.Registry
	DB          *sql.DB
	Docs        *swag.Spec
	CORSOrigins []string
	BodyLimit   int
}

// New returns a fiber app with the common middleware and endpoints mounted.
// API routes are registered by the caller.
func New(o Options) (*fiber.App, error) {
	cfg := fiber.Config{
		AppName:               "hearth-" + o.Name,
		ErrorHandler:          handler.ErrorHandler(),
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	}
	if o.BodyLimit > 0 {
		cfg.BodyLimit = o.BodyLimit
	}
	app := fiber.New(cfg)

	prom, err := middleware.NewPrometheusMiddleware(o.Registry)
	if err != nil {
		return nil, err
	}

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(o.Log))
	app.Use(prom.Handler())
	app.Use(recover.New())
	app.Use(otelfiber.Middleware(otelfiber.WithServerName("hearth-" + o.Name)))
	if len(o.CORSOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(o.CORSOrigins, ","),
			AllowCredentials: true,
			AllowHeaders:     "Origin, Content-Type, Accept, Authorization, " + middleware.RequestIDHeader + ", " + handler.ProfileHeader,
			ExposeHeaders:    middleware.RequestIDHeader,
		}))
	}

	handler.RegisterHealth(app, o.DB)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(o.Registry, promhttp.HandlerOpts{Registry: o.Registry})))

	if o.Docs != nil {
		docs := swagger.New(swagger.Config{InstanceName: o.Docs.InstanceName()})
		app.Get("/swagger/*", func(c *fiber.Ctx) error {
			scheme := c.Protocol()
			if proto := c.Get("X-Forwarded-Proto"); proto != "" {
				scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
			}
			o.Docs.Host = c.Get(fiber.HeaderHost)
			o.Docs.Schemes = []string{scheme}
			return docs(c)
		})
	}
	return app, nil
}

// Run serves app on addr until ctx is cancelled, then shuts down within
// grace and runs each cleanup in order.
func Run(ctx context.Context, app *fiber.App, addr string, grace time.Duration, log zerolog.Logger, cleanups ...func(context.Context) error) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("event", "server_started").Str("addr", addr).Msg("listening")
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Str("event", "server_stopping").Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	var errs []error
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	for _, fn := range cleanups {
		if err := fn(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewRegistry returns a registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
