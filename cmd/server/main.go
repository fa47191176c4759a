package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cesargomez89/ingestq/internal/app"
	"github.com/cesargomez89/ingestq/internal/config"
	"github.com/cesargomez89/ingestq/internal/constants"
	cronrunner "github.com/cesargomez89/ingestq/internal/cron"
	"github.com/cesargomez89/ingestq/internal/domain"
	httpapp "github.com/cesargomez89/ingestq/internal/http"
	"github.com/cesargomez89/ingestq/internal/httpclient"
	"github.com/cesargomez89/ingestq/internal/logger"
	"github.com/cesargomez89/ingestq/internal/notify"
	"github.com/cesargomez89/ingestq/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Initialize Logger
	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	// Initialize DB
	db, err := store.Open(cfg.DBDriver, cfg.DBPath)
	if err != nil {
		appLogger.Error("Failed to init DB", "error", err, "driver", cfg.DBDriver)
		os.Exit(1)
	}
	defer db.Close() //nolint:errcheck // process exit

	// Notifications fall back to the log when no mail API is configured
	var notifier notify.Notifier
	if cfg.EmailAPIURL != "" {
		notifier = notify.NewEmailNotifier(notify.EmailConfig{
			URL:         cfg.EmailAPIURL,
			APIKey:      cfg.EmailAPIKey,
			From:        cfg.EmailFrom,
			AppName:     cfg.EmailAppName,
			Developers:  cfg.DeveloperEmails,
			Subscribers: cfg.SubscriberEmails,
		}, httpclient.NewClient(nil, 0), appLogger)
	} else {
		notifier = notify.NewLogNotifier(appLogger)
	}

	// Initialize Services
	clock := app.SystemClock{}
	reconciler := app.NewReconciler(db, notifier, clock, appLogger, cfg.Actor, cfg.ReconcileTimeout)
	configService := app.NewConfigService(db, reconciler, clock, appLogger)
	catalogService := app.NewCatalogService(db, clock, appLogger)

	baseCtx, stopJobs := context.WithCancel(context.Background())
	defer stopJobs()

	// Bring priorities to a canonical state before serving
	if _, err := reconciler.Reconcile(baseCtx, app.TriggerSweep); err != nil {
		appLogger.Error("Startup reconciliation failed", "error", err)
	}

	// Periodic sweep
	var runner *cronrunner.Runner
	if cfg.SweepEnabled {
		runner = cronrunner.New(appLogger, baseCtx)
		if _, err := runner.Add(cfg.SweepSchedule, func(ctx context.Context) {
			if _, err := reconciler.Reconcile(ctx, app.TriggerSweep); err != nil {
				appLogger.Warn("Sweep failed", "error", err, "retryable", domain.IsRetryable(err))
			}
		}); err != nil {
			appLogger.Error("Failed to schedule sweep", "error", err, "schedule", cfg.SweepSchedule)
			os.Exit(1)
		}
		runner.Start()
	}

	// Initialize Router
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := httpapp.NewHandler(configService, catalogService, reconciler, db, appLogger, cfg.Actor)
	h.RegisterRoutes(r)

	// Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server listening", "addr", srv.Addr, "driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
	}

	stopJobs()
	if runner != nil {
		runner.Stop()
	}

	appLogger.Info("Server exiting")
}
