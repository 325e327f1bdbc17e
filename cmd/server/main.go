package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aurixon/api/internal/config"
	"github.com/aurixon/api/internal/database"
	apierrors "github.com/aurixon/api/internal/errors"
	"github.com/aurixon/api/internal/handlers"
	"github.com/aurixon/api/internal/logger"
	"github.com/aurixon/api/internal/mailer"
	"github.com/aurixon/api/internal/middleware"
	"github.com/aurixon/api/internal/report"
	"github.com/aurixon/api/internal/repository"
	"github.com/aurixon/api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Server.Env)
	log.Info("Starting AURIXON API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	applied, err := db.Migrate(ctx)
	if err != nil {
		log.Fatal("Failed to apply migrations", err, nil)
	}
	if len(applied) > 0 {
		log.Info("Applied migrations", map[string]interface{}{"migrations": applied})
	}

	scratch, err := report.NewScratch(cfg.Exports.Dir, log)
	if err != nil {
		log.Fatal("Failed to prepare export directory", err, map[string]interface{}{
			"dir": cfg.Exports.Dir,
		})
	}

	var sender mailer.Sender
	if cfg.SMTP.Enabled() {
		smtp, err := mailer.NewSMTPSender(cfg.SMTP, log)
		if err != nil {
			log.Fatal("Failed to configure SMTP", err, map[string]interface{}{"host": cfg.SMTP.Host})
		}
		sender = smtp
	} else {
		log.Warn("SMTP not configured, emailed reports are disabled", nil)
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := apierrors.RegisterTranslations(v); err != nil {
			log.Error("Failed to register validation messages", err, nil)
		}
	}

	// Repositories
	periodRepo := repository.NewPeriodRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	boundaryRepo := repository.NewBoundaryRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	calculationRepo := repository.NewCalculationRepository(db)
	emissionsRepo := repository.NewEmissionsRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// Services
	periodService := services.NewPeriodService(periodRepo, log)
	boundaryService := services.NewBoundaryService(periodRepo, boundaryRepo, log)
	activityService := services.NewActivityService(periodRepo, activityRepo, log)
	calculationService := services.NewCalculationService(periodRepo, activityRepo, calculationRepo, log)
	dashboardService := services.NewDashboardService(periodRepo, emissionsRepo, log)
	exportService := services.NewExportService(services.ExportDeps{
		Payments:     paymentRepo,
		Periods:      periodRepo,
		Companies:    companyRepo,
		Emissions:    emissionsRepo,
		Calculations: calculationRepo,
		Scratch:      scratch,
		Sender:       sender,
	}, services.ExportSettings{
		Timeout:      cfg.Exports.Timeout,
		CleanupDelay: cfg.Exports.CleanupDelay,
	}, log)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	handlers.Register(router, handlers.Handlers{
		Health:      handlers.NewHealthHandler(db, cfg.Exports.Dir, cfg.Server.Env),
		Dashboard:   handlers.NewDashboardHandler(dashboardService),
		Export:      handlers.NewExportHandler(exportService),
		Boundary:    handlers.NewBoundaryHandler(boundaryService),
		Period:      handlers.NewPeriodHandler(periodService, activityService),
		Activity:    handlers.NewActivityHandler(activityService),
		Calculation: handlers.NewCalculationHandler(calculationService),
		Reference:   handlers.NewReferenceHandler(),
	}, cfg.Auth.JWTSecret)

	// Leftover artifacts from a previous run
	if removed, err := exportService.Cleanup(cfg.Exports.MaxAge); err != nil {
		log.Error("Startup export sweep failed", err, nil)
	} else if removed > 0 {
		log.Info("Removed stale exports", map[string]interface{}{"removed": removed})
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	if err := scratch.Close(); err != nil {
		log.Error("Failed to remove pending exports", err, nil)
	}

	log.Info("Server exited", nil)
}
