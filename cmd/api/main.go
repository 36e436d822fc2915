// Package main provides the entrypoint for the Green Co. API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/MadSCI-entist/the-green-co/internal/api"
	"github.com/MadSCI-entist/the-green-co/internal/api/middleware"
	"github.com/MadSCI-entist/the-green-co/internal/auth"
	"github.com/MadSCI-entist/the-green-co/internal/company"
	"github.com/MadSCI-entist/the-green-co/internal/database"
	"github.com/MadSCI-entist/the-green-co/internal/emissions"
	"github.com/MadSCI-entist/the-green-co/internal/greenscore"
	"github.com/MadSCI-entist/the-green-co/internal/resilience"
	"github.com/MadSCI-entist/the-green-co/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const serviceName = "green-co-api"

// repositories groups the storage backends the services are built on.
type repositories struct {
	users     auth.UserRepository
	refresh   auth.RefreshTokenRepository
	profiles  company.Repository
	emissions emissions.Repository
}

func main() {
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	if err := run(log); err != nil {
		log.Fatal().Err(err).Msg("api exited with error")
	}
}

func run(log zerolog.Logger) error {
	log.Info().Str("build_time", BuildTime).Msg("starting Green Co. API")

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

	metrics, err := middleware.NewMetrics()
	if err != nil {
		return err
	}

	var (
		repos repositories
		pool  *pgxpool.Pool
	)
	switch backend := getEnvOrDefault("STORAGE_BACKEND", "postgres"); backend {
	case "memory":
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		repos = repositories{
			users:     auth.NewInMemoryUserRepository(),
			refresh:   auth.NewInMemoryRefreshTokenRepository(),
			profiles:  company.NewInMemoryRepository(),
			emissions: emissions.NewInMemoryRepository(),
		}
	case "postgres":
		pool, err = openDatabase(ctx, log)
		if err != nil {
			return err
		}
		defer pool.Close()
		repos = repositories{
			users:     auth.NewPostgresUserRepository(pool),
			refresh:   auth.NewPostgresRefreshTokenRepository(pool),
			profiles:  company.NewPostgresRepository(pool),
			emissions: emissions.NewPostgresRepository(pool),
		}
	default:
		return errors.New("STORAGE_BACKEND must be postgres or memory, got " + backend)
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}
	authService := auth.NewService(auth.ServiceConfig{
		JWTService: auth.NewJWTService(auth.JWTConfig{
			SigningKey: jwtSigningKey,
			Issuer:     getEnvOrDefault("JWT_ISSUER", "https://api.thegreenco.io"),
			Audience:   getEnvOrDefault("JWT_AUDIENCE", "green-co-api"),
		}),
		UserRepo:    repos.users,
		RefreshRepo: repos.refresh,
	})

	factors := emissions.FactorsFromEnv()
	emissionsService := emissions.NewService(repos.emissions, emissions.NewCalculator(factors))
	companyService := company.NewService(repos.profiles)

	breakers := resilience.NewRegistry()
	concurrency, _ := strconv.Atoi(getEnvOrDefault("LEADERBOARD_CONCURRENCY", strconv.Itoa(greenscore.DefaultConcurrency)))
	builder, err := greenscore.NewBuilder(greenscore.BuilderConfig{
		Lookup:      repos.emissions,
		Logger:      log,
		Concurrency: concurrency,
	})
	if err != nil {
		return err
	}

	devAuth := os.Getenv("DEV_AUTH_ENABLED") == "true"
	if devAuth {
		log.Warn().Msg("development authentication endpoint enabled")
	}

	routerCfg := api.RouterConfig{
		Version:            Version,
		BuildTime:          BuildTime,
		Logger:             log,
		Metrics:            metrics,
		AuthService:        authService,
		CompanyService:     companyService,
		EmissionsService:   emissionsService,
		LeaderboardService: greenscore.NewService(greenscore.ServiceConfig{
			Profiles: companyService,
			Builder:  builder,
			Logger:   log,
			Registry: breakers,
		}),
		Breakers:           breakers,
		DevAuthEnabled:     devAuth,
		RequireTLS:         os.Getenv("REQUIRE_TLS") == "true",
		AllowedOrigins:     splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}
	if pool != nil {
		routerCfg.Database = pool
	}

	server := &http.Server{
		Addr:              ":" + getEnvOrDefault("APP_PORT", "8080"),
		Handler:           api.NewRouter(routerCfg),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Float64("factor_cars", factors.Cars).
			Float64("factor_trucks", factors.Trucks).
			Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}

func openDatabase(ctx context.Context, log zerolog.Logger) (*pgxpool.Pool, error) {
	cfg := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Msg("database connected")

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, pool, log); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return pool, nil
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
