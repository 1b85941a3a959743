package router

import (
	"encoding/json"
	"net/http"

	"github.com/fakturo-as/billing-api/internal/auth"
	"github.com/fakturo-as/billing-api/internal/config"
	"github.com/fakturo-as/billing-api/internal/database"
	"github.com/fakturo-as/billing-api/internal/erpbridge"
	"github.com/fakturo-as/billing-api/internal/http/handler"
	"github.com/fakturo-as/billing-api/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/fakturo-as/billing-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg                  *config.Config
	logger               *zap.Logger
	db                   *gorm.DB
	erpClient            *erpbridge.Client
	authMiddleware       *auth.Middleware
	rateLimiter          *middleware.RateLimiter
	authHandler          *handler.AuthHandler
	customerHandler      *handler.CustomerHandler
	supplierHandler      *handler.SupplierHandler
	productHandler       *handler.ProductHandler
	invoiceHandler       *handler.InvoiceHandler
	quoteHandler         *handler.QuoteHandler
	purchaseOrderHandler *handler.PurchaseOrderHandler
	recurringHandler     *handler.RecurringHandler
	transactionHandler   *handler.TransactionHandler
	dashboardHandler     *handler.DashboardHandler
	activityHandler      *handler.ActivityHandler
	fileHandler          *handler.FileHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	erpClient *erpbridge.Client,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	customerHandler *handler.CustomerHandler,
	supplierHandler *handler.SupplierHandler,
	productHandler *handler.ProductHandler,
	invoiceHandler *handler.InvoiceHandler,
	quoteHandler *handler.QuoteHandler,
	purchaseOrderHandler *handler.PurchaseOrderHandler,
	recurringHandler *handler.RecurringHandler,
	transactionHandler *handler.TransactionHandler,
	dashboardHandler *handler.DashboardHandler,
	activityHandler *handler.ActivityHandler,
	fileHandler *handler.FileHandler,
) *Router {
	return &Router{
		cfg:                  cfg,
		logger:               logger,
		db:                   db,
		erpClient:            erpClient,
		authMiddleware:       authMiddleware,
		rateLimiter:          rateLimiter,
		authHandler:          authHandler,
		customerHandler:      customerHandler,
		supplierHandler:      supplierHandler,
		productHandler:       productHandler,
		invoiceHandler:       invoiceHandler,
		quoteHandler:         quoteHandler,
		purchaseOrderHandler: purchaseOrderHandler,
		recurringHandler:     recurringHandler,
		transactionHandler:   transactionHandler,
		dashboardHandler:     dashboardHandler,
		activityHandler:      activityHandler,
		fileHandler:          fileHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Liveness probe
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Readiness probe: checks the database and, when enabled, the ERP bridge.
	// An unhealthy ERP bridge does not fail readiness since imports are optional.
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(r.Context(), rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		if rt.erpClient.IsEnabled() {
			status := rt.erpClient.HealthCheck(r.Context())
			checks["erp_bridge"] = status
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Post("/auth/login", rt.authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			// Auth
			r.Get("/auth/me", rt.authHandler.Me)

			// Customers
			r.Route("/customers", func(r chi.Router) {
				r.Get("/", rt.customerHandler.List)
				r.Post("/", rt.customerHandler.Create)
				r.Get("/{id}", rt.customerHandler.GetByID)
				r.Put("/{id}", rt.customerHandler.Update)
				r.Delete("/{id}", rt.customerHandler.Delete)
			})

			// Suppliers
			r.Route("/suppliers", func(r chi.Router) {
				r.Get("/", rt.supplierHandler.List)
				r.Post("/", rt.supplierHandler.Create)
				r.Get("/{id}", rt.supplierHandler.GetByID)
				r.Put("/{id}", rt.supplierHandler.Update)
				r.Delete("/{id}", rt.supplierHandler.Delete)
			})

			// Products
			r.Route("/products", func(r chi.Router) {
				r.Get("/", rt.productHandler.List)
				r.Post("/", rt.productHandler.Create)
				r.Get("/{id}", rt.productHandler.GetByID)
				r.Put("/{id}", rt.productHandler.Update)
				r.Put("/{id}/stock", rt.productHandler.SetStock)
				r.Delete("/{id}", rt.productHandler.Delete)
			})

			// Invoices
			r.Route("/invoices", func(r chi.Router) {
				r.Get("/", rt.invoiceHandler.List)
				r.Post("/", rt.invoiceHandler.Create)
				r.Get("/{id}", rt.invoiceHandler.GetByID)
				r.Put("/{id}", rt.invoiceHandler.Update)
				r.Delete("/{id}", rt.invoiceHandler.Delete)

				// Lifecycle endpoints
				r.Post("/{id}/send", rt.invoiceHandler.Send)
				r.Post("/{id}/payments", rt.invoiceHandler.ApplyPayment)
				r.Post("/{id}/email", rt.invoiceHandler.SendByEmail)

				// Sub-resources
				r.Get("/{id}/payments", rt.invoiceHandler.ListPayments)
				r.Get("/{id}/files", rt.invoiceHandler.ListFiles)
			})

			// Quotes
			r.Route("/quotes", func(r chi.Router) {
				r.Get("/", rt.quoteHandler.List)
				r.Post("/", rt.quoteHandler.Create)
				r.Get("/{id}", rt.quoteHandler.GetByID)
				r.Put("/{id}", rt.quoteHandler.Update)
				r.Delete("/{id}", rt.quoteHandler.Delete)

				// Lifecycle endpoints
				r.Post("/{id}/send", rt.quoteHandler.Send)
				r.Post("/{id}/accept", rt.quoteHandler.Accept)
				r.Post("/{id}/decline", rt.quoteHandler.Decline)
				r.Post("/{id}/expire", rt.quoteHandler.Expire)
				r.Post("/{id}/convert", rt.quoteHandler.Convert)
			})

			// Purchase orders
			r.Route("/purchase-orders", func(r chi.Router) {
				r.Get("/", rt.purchaseOrderHandler.List)
				r.Post("/", rt.purchaseOrderHandler.Create)
				r.Get("/{id}", rt.purchaseOrderHandler.GetByID)
				r.Put("/{id}", rt.purchaseOrderHandler.Update)
				r.Delete("/{id}", rt.purchaseOrderHandler.Delete)

				// Lifecycle endpoints
				r.Post("/{id}/order", rt.purchaseOrderHandler.MarkOrdered)
				r.Post("/{id}/receive", rt.purchaseOrderHandler.Receive)
				r.Post("/{id}/cancel", rt.purchaseOrderHandler.Cancel)
			})

			// Recurring templates
			r.Route("/recurring-templates", func(r chi.Router) {
				r.Get("/", rt.recurringHandler.List)
				r.Post("/", rt.recurringHandler.Create)
				r.Post("/materialize", rt.recurringHandler.Materialize)
				r.Get("/{id}", rt.recurringHandler.GetByID)
				r.Put("/{id}", rt.recurringHandler.Update)
				r.Delete("/{id}", rt.recurringHandler.Delete)
			})

			// Transactions
			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", rt.transactionHandler.List)
				r.Post("/", rt.transactionHandler.Create)
			})

			// Dashboard
			r.Get("/dashboard/metrics", rt.dashboardHandler.GetMetrics)

			// Activities
			r.Get("/activities/{targetType}/{targetId}", rt.activityHandler.ListByTarget)

			// Files
			r.Route("/files", func(r chi.Router) {
				r.Get("/{id}", rt.fileHandler.GetByID)
				r.Get("/{id}/download", rt.fileHandler.Download)
			})
		})
	})

	return r
}
