package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frbcapl/league-system/config"
	"github.com/frbcapl/league-system/db"
	"github.com/frbcapl/league-system/handlers"
	"github.com/frbcapl/league-system/live"
	"github.com/frbcapl/league-system/repositories"
	api "github.com/frbcapl/league-system/routes"
	"github.com/frbcapl/league-system/services"
	"github.com/frbcapl/league-system/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// The standings sheet store is optional: a league that edits standings by
	// hand runs without any R2 credentials.
	var sheetStore storage.ObjectStore
	if cfg.ObjectStoreConfigured() {
		sheetStore, err = storage.NewCloudflareR2Store(storage.CloudflareR2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize standings sheet store", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("standings sheet store initialized", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Info("standings sheet store not configured, sync endpoints disabled")
	}

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("websocket hub started")

	proposalRepo := repositories.NewPostgresProposalRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	standingRepo := repositories.NewPostgresStandingRepository(dbConn)
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	noteRepo := repositories.NewPostgresNoteRepository(dbConn)
	logger.Info("repositories initialized")

	txRunner := services.NewSQLTxRunner(dbConn)

	proposalService := services.NewProposalService(txRunner, proposalRepo, matchRepo, hub)
	matchService := services.NewMatchService(txRunner, matchRepo, proposalRepo, hub)
	challengeService := services.NewChallengeService(standingRepo, matchRepo, proposalRepo, cfg.Rules)
	standingsService := services.NewStandingsService(txRunner, standingRepo, sheetStore)
	authService := services.NewAuthService(userRepo)
	noteService := services.NewNoteService(noteRepo)
	logger.Info("services initialized")

	proposalHandler := handlers.NewProposalHandler(proposalService)
	matchHandler := handlers.NewMatchHandler(matchService)
	challengeHandler := handlers.NewChallengeHandler(challengeService)
	standingsHandler := handlers.NewStandingsHandler(standingsService)
	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	noteHandler := handlers.NewNoteHandler(noteService, authService)
	healthHandler := handlers.NewHealthHandler(dbConn)
	webSocketHandler := handlers.NewWebSocketHandler(hub)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		proposalHandler,
		matchHandler,
		challengeHandler,
		standingsHandler,
		authHandler,
		noteHandler,
		healthHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
