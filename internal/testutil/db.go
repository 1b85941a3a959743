// Package testutil provides shared helpers for package tests: an in-memory
// sqlite database migrated to the application schema, and seeded tenant
// contexts for exercising company-scoped repositories and services.
package testutil

import (
	"context"
	"testing"

	"github.com/fakturo-as/billing-api/internal/auth"
	"github.com/fakturo-as/billing-api/internal/database"
	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a fresh in-memory sqlite database and migrates the full
// schema. Each call gets its own database, so tests never share state.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open in-memory database")

	// An in-memory database exists per connection; pin the pool to one
	// connection so every query sees the same database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db), "failed to migrate test schema")

	return db
}

// SeedCompany creates a company row for tests
func SeedCompany(t *testing.T, db *gorm.DB, name string) *domain.Company {
	t.Helper()

	company := &domain.Company{
		Name: name,
		// org_number has a unique index; generate a distinct value per company
		OrgNumber: uuid.NewString()[:20],
		Country:   "Sweden",
		Currency:  "SEK",
		IsActive:  true,
	}
	require.NoError(t, db.Create(company).Error)
	return company
}

// SeedUser creates an active user in the company
func SeedUser(t *testing.T, db *gorm.DB, companyID uuid.UUID, email string) *domain.User {
	t.Helper()

	user := &domain.User{
		Email:        email,
		PasswordHash: "x",
		Name:         "Test User",
		CompanyID:    companyID,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// AuthContext returns a context carrying an authenticated user bound to the
// given company, the way the HTTP middleware would populate it.
func AuthContext(companyID, userID uuid.UUID) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      userID,
		DisplayName: "Test User",
		Email:       "test@example.com",
		CompanyID:   companyID,
	})
}
