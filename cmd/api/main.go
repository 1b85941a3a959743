package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fakturo-as/billing-api/docs"
	"github.com/fakturo-as/billing-api/internal/auth"
	"github.com/fakturo-as/billing-api/internal/config"
	"github.com/fakturo-as/billing-api/internal/database"
	"github.com/fakturo-as/billing-api/internal/dispatch"
	"github.com/fakturo-as/billing-api/internal/erpbridge"
	"github.com/fakturo-as/billing-api/internal/http/handler"
	"github.com/fakturo-as/billing-api/internal/http/middleware"
	"github.com/fakturo-as/billing-api/internal/http/router"
	"github.com/fakturo-as/billing-api/internal/jobs"
	"github.com/fakturo-as/billing-api/internal/logger"
	"github.com/fakturo-as/billing-api/internal/repository"
	"github.com/fakturo-as/billing-api/internal/service"
	"github.com/fakturo-as/billing-api/internal/storage"
	"go.uber.org/zap"
)

// @title Fakturo Billing API
// @version 1.0
// @description Invoicing and accounting API for small businesses: invoices, quotes, purchase orders, inventory and the transaction ledger
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@fakturo.se

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations
// @Security BearerAuth
// @Security ApiKeyAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "billing-staging.fakturo.se"
	case "production":
		docs.SwaggerInfo.Host = "api.fakturo.se"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.App.Environment == "development" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to auto-migrate: %w", err)
		}
	}

	// Initialize storage for invoice documents
	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize ERP bridge connection (optional - for registry imports)
	// This connection is read-only and the app continues without it if not configured
	var erpClient *erpbridge.Client
	if cfg.ERPBridge.Enabled {
		erpClient, err = erpbridge.NewClient(&cfg.ERPBridge, log)
		if err != nil {
			log.Warn("ERP bridge connection failed, continuing without it",
				zap.Error(err),
			)
		} else if erpClient != nil {
			log.Info("ERP bridge connected",
				zap.Int("max_open_conns", cfg.ERPBridge.MaxOpenConns),
				zap.Int("query_timeout_seconds", cfg.ERPBridge.QueryTimeout),
			)
		}
	} else {
		log.Info("ERP bridge not configured, skipping")
	}

	// Initialize repositories
	companyRepo := repository.NewCompanyRepository(db)
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	productRepo := repository.NewProductRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	purchaseOrderRepo := repository.NewPurchaseOrderRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	recurringRepo := repository.NewRecurringRepository(db)
	sequenceRepo := repository.NewNumberSequenceRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	fileRepo := repository.NewFileRepository(db)

	// Invoice rendering and email dispatch
	renderer, err := dispatch.NewHTMLRenderer()
	if err != nil {
		return fmt.Errorf("failed to initialize invoice renderer: %w", err)
	}
	sender := dispatch.NewLogSender(log)

	// Initialize services
	activityService := service.NewActivityService(activityRepo, log)
	customerService := service.NewCustomerService(customerRepo, activityService, log)
	supplierService := service.NewSupplierService(supplierRepo, activityService, log)
	productService := service.NewProductService(productRepo, activityService, log)
	invoiceService := service.NewInvoiceService(
		db, invoiceRepo, customerRepo, productRepo, sequenceRepo,
		transactionRepo, fileRepo, companyRepo, activityService,
		renderer, sender, fileStorage, log,
	)
	quoteService := service.NewQuoteService(
		db, quoteRepo, customerRepo, sequenceRepo, invoiceService,
		activityService, log,
	)
	purchaseOrderService := service.NewPurchaseOrderService(
		db, purchaseOrderRepo, supplierRepo, productRepo, sequenceRepo,
		transactionRepo, activityService, log,
	)
	recurringService := service.NewRecurringService(
		db, recurringRepo, transactionRepo, activityService, log,
	)
	transactionService := service.NewTransactionService(transactionRepo, log)
	dashboardService := service.NewDashboardService(invoiceRepo, transactionRepo, log)
	fileService := service.NewFileService(fileRepo, fileStorage, log)

	tokenIssuer := auth.NewTokenIssuer(&cfg.Auth)
	authService := service.NewAuthService(userRepo, tokenIssuer, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(cfg, tokenIssuer, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, log)
	customerHandler := handler.NewCustomerHandler(customerService, log)
	supplierHandler := handler.NewSupplierHandler(supplierService, log)
	productHandler := handler.NewProductHandler(productService, log)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, fileService, log)
	quoteHandler := handler.NewQuoteHandler(quoteService, log)
	purchaseOrderHandler := handler.NewPurchaseOrderHandler(purchaseOrderService, log)
	recurringHandler := handler.NewRecurringHandler(recurringService, log)
	transactionHandler := handler.NewTransactionHandler(transactionService, log)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, log)
	activityHandler := handler.NewActivityHandler(activityService, log)
	fileHandler := handler.NewFileHandler(fileService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		erpClient,
		authMiddleware,
		rateLimiter,
		authHandler,
		customerHandler,
		supplierHandler,
		productHandler,
		invoiceHandler,
		quoteHandler,
		purchaseOrderHandler,
		recurringHandler,
		transactionHandler,
		dashboardHandler,
		activityHandler,
		fileHandler,
	)

	// Initialize and start scheduler for background jobs
	scheduler := jobs.NewScheduler(log)

	if err := jobs.RegisterRecurringJob(
		scheduler,
		recurringService,
		companyRepo,
		log,
		cfg.Jobs.RecurringCron,
		cfg.Jobs.RecurringOnStartup,
	); err != nil {
		log.Error("Failed to register recurring materializer job", zap.Error(err))
	}

	if erpClient.IsEnabled() {
		importer := erpbridge.NewImporter(erpClient, customerRepo, productRepo, log)
		if err := jobs.RegisterERPSyncJob(
			scheduler,
			importer,
			companyRepo,
			log,
			cfg.Jobs.ERPSyncCron,
		); err != nil {
			log.Error("Failed to register ERP sync job", zap.Error(err))
		}
	}

	scheduler.Start()
	log.Info("Scheduler started", zap.Strings("jobs", scheduler.GetJobNames()))

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler and wait for running jobs
		stopCtx := scheduler.Stop()
		<-stopCtx.Done()
		log.Info("Scheduler stopped")

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		// Close ERP bridge connection if initialized
		if err := erpClient.Close(); err != nil {
			log.Warn("Error closing ERP bridge connection", zap.Error(err))
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
