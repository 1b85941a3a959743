package database

import (
	"context"
	"fmt"
	"time"

	"github.com/fakturo-as/billing-api/internal/config"
	"github.com/fakturo-as/billing-api/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase creates a new database connection
func NewDatabase(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := cfg.ConnectionString()

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// HealthCheck pings the database with a short deadline
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return sqlDB.PingContext(ctx)
}

// AutoMigrate runs automatic migrations (for development only; deployed
// environments use the goose migrations under ./migrations)
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Company{},
		&domain.User{},
		&domain.Customer{},
		&domain.Supplier{},
		&domain.Product{},
		&domain.Invoice{},
		&domain.InvoiceItem{},
		&domain.InvoicePayment{},
		&domain.Quote{},
		&domain.QuoteItem{},
		&domain.PurchaseOrder{},
		&domain.PurchaseOrderItem{},
		&domain.Transaction{},
		&domain.RecurringTemplate{},
		&domain.NumberSequence{},
		&domain.Activity{},
		&domain.File{},
	)
}
