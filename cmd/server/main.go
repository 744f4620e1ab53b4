package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/connectin/backend/internal/handlers"
	"github.com/anonto42/connectin/backend/internal/repositories"
	"github.com/anonto42/connectin/backend/internal/router"
	"github.com/anonto42/connectin/backend/internal/services"
	"github.com/anonto42/connectin/backend/pkg/config"
	"github.com/anonto42/connectin/backend/pkg/firebase"
	"github.com/anonto42/connectin/backend/pkg/logger"
	"github.com/anonto42/connectin/backend/pkg/mailer"
	"github.com/anonto42/connectin/backend/pkg/storage"
	"github.com/anonto42/connectin/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger.Init(cfg.LogLevel, !cfg.IsProduction())
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize databases", err)
	}
	defer func() {
		if err := db.CloseDB(); err != nil {
			logger.Error("Failed to close databases", "error", err)
		}
	}()

	if err := repositories.AutoMigrate(db.Postgres); err != nil {
		logger.Fatal("Failed to auto migrate models", err)
	}
	postRepo := repositories.NewMongoPostRepository(db.MongoDB)
	if err := postRepo.EnsureIndexes(ctx); err != nil {
		logger.Fatal("Failed to create post indexes", err)
	}

	// Optional collaborators
	var identities handlers.IdentityVerifier
	if cfg.FirebaseCredentialsPath != "" {
		verifier, err := firebase.NewVerifier(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			logger.Fatal("Failed to initialize Firebase", err)
		}
		identities = verifier
	}

	var imageStore services.ImageStore
	if cfg.ImageStorageEnabled() {
		gcs, err := storage.NewGCSImageStore(ctx, cfg.GCSBucket, cfg.GCSCredentialsPath)
		if err != nil {
			logger.Fatal("Failed to initialize image storage", err)
		}
		defer gcs.Close()
		imageStore = gcs
	} else {
		logger.Warn("GCS_BUCKET not set, image uploads are disabled")
	}

	var email services.EmailNotifier = mailer.LogMailer{}
	if cfg.EmailEnabled() {
		smtp, err := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom)
		if err != nil {
			logger.Fatal("Failed to initialize SMTP mailer", err)
		}
		email = smtp
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = handlers.HTTPErrorHandler

	config.SetupMiddleware(e, cfg)
	router.SetupRoutes(e, router.Deps{
		Postgres:     db.Postgres,
		Mongo:        db.Mongo,
		Posts:        postRepo,
		Identities:   identities,
		Email:        email,
		ImageStore:   imageStore,
		JWTSecret:    cfg.JWTSecret,
		ClientURL:    cfg.ClientURL,
		SecureCookie: cfg.IsProduction(),
	})

	metricsServer := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("Metrics server listening", "port", cfg.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server stopped", "error", err)
		}
	}()

	go func() {
		logger.Info("HTTP server listening", "port", cfg.Port, "env", cfg.Env)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server stopped", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Metrics server shutdown failed", "error", err)
	}
}
