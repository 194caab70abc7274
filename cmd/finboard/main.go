package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"finboard/internal/actions"
	"finboard/internal/amqp"
	"finboard/internal/auth"
	"finboard/internal/cache"
	"finboard/internal/cli"
	apphttp "finboard/internal/http"
	"finboard/internal/invalidation"
	"finboard/internal/log"
	"finboard/internal/metrics"
	"finboard/internal/services"
	"finboard/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL")).WithComponent(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx := context.Background()
	be := cli.InitBackend(ctx, logger, cfg)

	m := metrics.New()
	viewCache := cache.NewLRUCache[any](cfg.ViewCacheSize, cfg.ViewCacheTTL)
	local := invalidation.NewCacheEmitter(viewCache, func(s invalidation.Signal, n int) {
		if n > 0 {
			logger.Debug("View cache entries dropped", "signal", string(s), "count", n)
		}
	})

	// Without a broker, signals only reach this instance's view cache.
	emitter := invalidation.Multi{local}
	var bus *amqp.Client
	if cfg.AMQPEnabled() {
		var err error
		bus, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, "", instanceOrigin(), logger)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		emitter = append(emitter, bus)
		logger.Info("Broadcasting invalidations", "exchange", cfg.AMQPExchange, "origin", bus.Origin())
	}

	var verifier *auth.TokenVerifier
	if cfg.AuthJWTSecret != "" {
		verifier = auth.NewTokenVerifier(cfg.AuthJWTSecret, cfg.AuthJWTIssuer)
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Actions:            actions.New(actions.FromStore(be.Store), emitter, logger, m),
		Views:              services.NewViews(services.ReadersFromStore(be.Store), viewCache, m, logger),
		Auth:               auth.New(verifier, cfg.AuthHeader),
		DB:                 be.Store.DB,
		Metrics:            m,
		Logger:             logger,
		ViewCache:          viewCache,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 15 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	runCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if bus != nil {
			if err := bus.Close(); err != nil {
				logger.Warn("AMQP close error", log.FieldError, err)
			}
		}
		if err := be.Cleanup(); err != nil {
			logger.Warn("Backend cleanup error", log.FieldError, err)
		}
	})

	if bus != nil {
		sub := worker.NewCacheSubscriber(bus.Origin(), local, logger)
		go func() {
			err := bus.Consume(runCtx, amqp.QueueOptions{Exclusive: true}, sub.HandleMessage)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Invalidation consumer stopped", log.FieldError, err)
			}
		}()
	}

	logger.Info("Starting finboard server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(runCtx, done)
}

// instanceOrigin identifies this process on the invalidation exchange.
func instanceOrigin() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "finboard"
	}
	return host + "-" + uuid.NewString()[:8]
}
