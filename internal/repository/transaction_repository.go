package repository

import (
	"context"
	"time"

	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create appends a ledger entry, optionally inside tx
func (r *TransactionRepository) Create(ctx context.Context, tx *gorm.DB, transaction *domain.Transaction) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(transaction).Error
}

// TransactionFilter narrows List results
type TransactionFilter struct {
	Type     domain.TransactionType
	Source   domain.TransactionSource
	DateFrom *time.Time
	DateTo   *time.Time
}

func (r *TransactionRepository) List(ctx context.Context, page, pageSize int, filter TransactionFilter) ([]domain.Transaction, int64, error) {
	var transactions []domain.Transaction
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Transaction{})
	query = ApplyCompanyFilter(ctx, query)

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}
	if filter.DateFrom != nil {
		query = query.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("date <= ?", *filter.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("date DESC, created_at DESC").Find(&transactions).Error

	return transactions, total, err
}

// SumByType returns the excl-VAT sum of entries of the given type in the
// date range
func (r *TransactionRepository) SumByType(ctx context.Context, txType domain.TransactionType, from, to time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	query := r.db.WithContext(ctx).Model(&domain.Transaction{}).
		Select("COALESCE(SUM(amount_excl_vat), 0) AS total").
		Where("type = ? AND date >= ? AND date <= ?", txType, from, to)
	query = ApplyCompanyFilter(ctx, query)
	if err := query.Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}
