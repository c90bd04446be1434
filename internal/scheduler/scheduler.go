// Package scheduler runs the periodic release sweep of the chat application.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"hearth/internal/service"
)

// Sweeper releases held messages. MessageService satisfies it.
type Sweeper interface {
	Sweep(ctx context.Context, batch int) (service.SweepResult, error)
}

// Options tunes a Scheduler. Zero values fall back to defaults.
type Options struct {
	Batch    int
	Timeout  time.Duration
	Location *time.Location
	Registry prometheus.Registerer
}

// Scheduler runs the release sweep on a cron spec. Overlapping runs are skipped.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	batch   int
	timeout time.Duration
	log     zerolog.Logger
	runs    *prometheus.CounterVec
}

// New parses spec (standard five fields or descriptors such as "@every 1m")
// and registers the sweep. Call Start to begin.
func New(spec string, sweeper Sweeper, log zerolog.Logger, opts Options) (*Scheduler, error) {
	if opts.Batch <= 0 {
		opts.Batch = 200
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	log = log.With().Str("component", "scheduler").Logger()

	s := &Scheduler{
		sweeper: sweeper,
		batch:   opts.Batch,
		timeout: opts.Timeout,
		log:     log,
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_release_sweeps_total",
			Help: "Release sweep runs by result.",
		}, []string{"result"}),
	}
	if opts.Registry != nil {
		if err := opts.Registry.Register(s.runs); err != nil {
			return nil, err
		}
	}

	cl := cronLogger{log: log}
	s.cron = cron.New(
		cron.WithLocation(opts.Location),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid release schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Str("event", "scheduler_started").Msg("release sweep scheduled")
}

// Stop prevents new runs and waits for a running sweep until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info().Str("event", "scheduler_stopped").Msg("release sweep stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce performs a single sweep and logs its outcome.
func (s *Scheduler) RunOnce(ctx context.Context) service.SweepResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	res, err := s.sweeper.Sweep(ctx, s.batch)
	latency := time.Since(start)
	if err != nil {
		s.runs.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Str("event", "sweep_failed").Dur("latency", latency).Msg("release sweep failed")
		return res
	}
	result := "ok"
	if res.Failed > 0 {
		result = "partial"
	}
	s.runs.WithLabelValues(result).Inc()

	ev := s.log.Debug()
	if res.Released > 0 || res.Failed > 0 {
		ev = s.log.Info()
	}
	ev.Str("event", "sweep_done").
		Int("recipients", res.Recipients).
		Int("released", res.Released).
		Int("failed", res.Failed).
		Dur("latency", latency).
		Msg("release sweep finished")
	return res
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
