package repository

import (
	"context"

	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

func (r *QuoteRepository) Create(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *QuoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	var quote domain.Quote
	query := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Customer").
		Where("id = ?", id)
	query = ApplyCompanyFilter(ctx, query)
	if err := query.First(&quote).Error; err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *QuoteRepository) Update(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Save(quote).Error
}

// ReplaceItems swaps the quote's line items inside tx
func (r *QuoteRepository) ReplaceItems(ctx context.Context, tx *gorm.DB, quoteID uuid.UUID, items []domain.QuoteItem) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.WithContext(ctx).Where("quote_id = ?", quoteID).Delete(&domain.QuoteItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].QuoteID = quoteID
	}
	if len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *QuoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := ApplyCompanyFilter(ctx, r.db.WithContext(ctx))
	return query.Delete(&domain.Quote{}, "id = ?", id).Error
}

func (r *QuoteRepository) List(ctx context.Context, page, pageSize int, status domain.QuoteStatus) ([]domain.Quote, int64, error) {
	var quotes []domain.Quote
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Quote{})
	query = ApplyCompanyFilter(ctx, query)

	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Items").Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&quotes).Error

	return quotes, total, err
}
