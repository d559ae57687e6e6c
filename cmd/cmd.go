package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dating-backend/internal/config"
	"dating-backend/internal/handlers"
	"dating-backend/internal/repository"
	"dating-backend/internal/services"
	"dating-backend/internal/storage"
	"dating-backend/internal/storage/memory"
	"dating-backend/internal/storage/postgres"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer closeStore()

	// Initialize repository and services
	repo := repository.NewDatingRepository(store)

	var presigner services.Presigner
	if cfg.AWS.S3Bucket != "" {
		presigner, err = services.NewS3Presigner(ctx, cfg.AWS)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create photo URL signer")
		}
	}
	photoService := services.NewPhotoService(repo, presigner, cfg.AWS.S3Bucket, cfg.AWS.PresignExpiry)
	userService := services.NewUserService(repo, photoService)
	tokenService := services.NewTokenService(cfg.JWT.Secret)

	// Initialize handlers
	router := handlers.NewRouter(
		handlers.NewUserHandler(userService),
		handlers.NewPhotoHandler(photoService),
		handlers.NewHealthHandler(repo),
		tokenService,
	)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Str("storage", cfg.Storage.Driver).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// openStore connects the configured storage driver
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		log.Warn().Msg("Using in-memory store, data is lost on exit")
		store := memory.New()
		if cfg.Storage.SeedFile != "" {
			if err := store.LoadFile(ctx, cfg.Storage.SeedFile); err != nil {
				return nil, nil, err
			}
		}
		return store, func() {}, nil
	default:
		pool, err := postgres.Connect(ctx, cfg.Database.DSN(), postgres.PoolOptions{
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Msg("Database connection established")
		return postgres.NewStore(pool), pool.Close, nil
	}
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
