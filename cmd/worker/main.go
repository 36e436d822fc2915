// Package main provides the entrypoint for the Green Co. ingestion worker.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/MadSCI-entist/the-green-co/internal/database"
	"github.com/MadSCI-entist/the-green-co/internal/emissions"
	"github.com/MadSCI-entist/the-green-co/internal/telemetry"
	"github.com/MadSCI-entist/the-green-co/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const serviceName = "green-co-worker"

func main() {
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	if err := run(log); err != nil {
		log.Fatal().Err(err).Msg("worker exited with error")
	}
}

func run(log zerolog.Logger) error {
	log.Info().Str("build_time", BuildTime).Msg("starting Green Co. worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.Init(ctx, telemetry.ConfigFromEnv(serviceName, Version, log))
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown telemetry")
		}
	}()

	cfg := worker.ConfigFromEnv()
	if cfg.ProjectID == "" {
		return errors.New("PUBSUB_PROJECT_ID is required")
	}

	dbCfg := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbCfg, log)
	if err != nil {
		return err
	}
	defer pool.Close()
	if dbCfg.AutoMigrate {
		if err := database.Migrate(ctx, pool, log); err != nil {
			return err
		}
	}

	job := worker.NewIngestJob(worker.IngestJobConfig{
		Calculator: emissions.NewService(
			emissions.NewPostgresRepository(pool),
			emissions.NewCalculator(emissions.FactorsFromEnv()),
		),
		DB:     pool,
		Logger: log,
	})

	handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{Config: cfg, Job: job, Logger: log})
	if err != nil {
		return err
	}
	defer func() {
		if err := handler.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close pubsub client")
		}
	}()

	// Cloud Run needs an HTTP port even for background workers.
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := pool.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"FAIL"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"OK"}`))
	})
	server := &http.Server{
		Addr:              ":" + getEnvOrDefault("APP_PORT", "8080"),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return handler.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	stats := job.Stats()
	log.Info().
		Int64("processed", stats.Processed).
		Int64("rejected", stats.Rejected).
		Int64("failed", stats.Failed).
		Msg("worker stopped")
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
