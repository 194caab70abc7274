package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"finboard/internal/amqp"
	"finboard/internal/cli"
	"finboard/internal/config"
	"finboard/internal/export"
	googleexport "finboard/internal/export/google"
	memexport "finboard/internal/export/memory"
	s3export "finboard/internal/export/s3"
	"finboard/internal/log"
	"finboard/internal/services"
	"finboard/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL")).WithComponent(log.ComponentWorker)
	logger.Info("Starting finboard-worker")
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.ExportBackend == "none" {
		logger.Info("No export backend configured, nothing to do")
		return
	}

	ctx := context.Background()
	be := cli.InitBackend(ctx, logger, cfg)

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize exporter", log.FieldError, err, "backend", cfg.ExportBackend)
		os.Exit(1)
	}
	logger.Info("Exporter initialized", "backend", exporter.Name())

	bus, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, "finboard-worker", logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}

	// The worker reads the store directly; it never serves cached views.
	views := services.NewViews(services.ReadersFromStore(be.Store), nil, nil, logger)
	exportWorker := worker.NewExportWorker(views, exporter, cfg.ExportDebounce, nil, logger)

	runCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		exportWorker.Wait()
		if err := bus.Close(); err != nil {
			logger.Warn("AMQP close error", log.FieldError, err)
		}
		if err := be.Cleanup(); err != nil {
			logger.Warn("Backend cleanup error", log.FieldError, err)
		}
	})

	go func() {
		err := bus.Consume(runCtx, amqp.QueueOptions{}, exportWorker.HandleMessage)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", log.FieldError, err)
		}
	}()

	logger.Info("Worker started", "queue", cfg.AMQPQueue, "debounce", cfg.ExportDebounce.String())
	cli.WaitForShutdown(runCtx, done)
	logger.Info("Worker stopped gracefully")
}

func newExporter(ctx context.Context, cfg *config.Config) (export.Exporter, error) {
	switch cfg.ExportBackend {
	case "sheets":
		return googleexport.NewFromEnv(ctx)
	case "s3":
		return s3export.New(ctx, s3export.Config{
			Bucket:    cfg.ExportS3Bucket,
			Region:    cfg.ExportS3Region,
			Endpoint:  cfg.ExportS3Endpoint,
			PathStyle: cfg.ExportS3PathStyle,
		})
	case "memory":
		return memexport.New(), nil
	}
	return nil, fmt.Errorf("unsupported export backend %q", cfg.ExportBackend)
}
