package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	mid "MarketBoard/internal/middleware"
	"MarketBoard/internal/service/flags"
	"MarketBoard/internal/usecase"
	"MarketBoard/pkg/cache"
	pkgch "MarketBoard/pkg/clickhouse"
	"MarketBoard/pkg/config"
	xhttp "MarketBoard/pkg/http"
	pkgkafka "MarketBoard/pkg/kafka"
	applogger "MarketBoard/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server

	flags    *flags.Client
	cache    cache.Service
	pipeline *mid.ActivityPipeline
	recorder *usecase.ActivityRecorder
	producer *pkgkafka.Producer
	consumer *pkgkafka.Consumer
	handler  pkgkafka.MessageHandler
	chClient *pkgch.Client
}

// Option attaches an optional component to the App.
type Option func(*App)

func WithFlags(fc *flags.Client) Option {
	return func(a *App) { a.flags = fc }
}

func WithCache(c cache.Service) Option {
	return func(a *App) { a.cache = c }
}

// WithActivity attaches the view-event pipeline and the recorder behind it.
func WithActivity(p *mid.ActivityPipeline, rec *usecase.ActivityRecorder) Option {
	return func(a *App) {
		a.pipeline = p
		a.recorder = rec
	}
}

// WithKafka attaches the shared producer and the optional activity consumer.
// The consumer only runs when both consumer and handler are set.
func WithKafka(p *pkgkafka.Producer, c *pkgkafka.Consumer, h pkgkafka.MessageHandler) Option {
	return func(a *App) {
		a.producer = p
		a.consumer = c
		a.handler = h
	}
}

func WithClickHouse(c *pkgch.Client) Option {
	return func(a *App) { a.chClient = c }
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, l *applogger.Logger, srv *xhttp.Server, opts ...Option) *App {
	if l == nil {
		l = applogger.Nop()
	}
	a := &App{cfg: cfg, log: l, httpServer: srv}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts every component and blocks until ctx is done, then
// shuts down.
func (a *App) RunContext(ctx context.Context) error {
	if a.flags != nil {
		if err := a.flags.Start(ctx); err != nil {
			// defaults or cached flags stay in effect
			a.log.Warn("feature flags unavailable", applogger.Error(err))
		}
	}

	if a.pipeline != nil {
		a.pipeline.Start(ctx)
		a.log.Info("activity pipeline started", applogger.String("backend", a.cfg.Activity.Backend))
	}

	if a.consumer != nil && a.handler != nil {
		a.consumer.RegisterHandler(a.handler)
		if err := a.consumer.Start(); err != nil {
			a.log.Error("kafka consumer error", applogger.String("topic", a.handler.Topic()), applogger.Error(err))
		}
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		a.shutdown()
		return err
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	a.shutdown()
	return nil
}

// shutdown stops components in reverse dependency order. The HTTP server
// goes first so no new events reach the pipeline.
func (a *App) shutdown() {
	a.log.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.pipeline != nil {
		a.pipeline.Stop()
	}

	if a.consumer != nil && a.handler != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if a.flags != nil {
		if err := a.flags.Stop(ctx); err != nil {
			a.log.Warn("feature flags stop error", applogger.Error(err))
		}
	}

	// flush pending log batches while the producer is still open
	a.log.RemoveCollector()

	if a.recorder != nil {
		a.recorder.Close()
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.log.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
}
