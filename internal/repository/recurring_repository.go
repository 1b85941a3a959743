package repository

import (
	"context"
	"time"

	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecurringRepository struct {
	db *gorm.DB
}

func NewRecurringRepository(db *gorm.DB) *RecurringRepository {
	return &RecurringRepository{db: db}
}

func (r *RecurringRepository) Create(ctx context.Context, template *domain.RecurringTemplate) error {
	return r.db.WithContext(ctx).Create(template).Error
}

func (r *RecurringRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.RecurringTemplate, error) {
	var template domain.RecurringTemplate
	query := r.db.WithContext(ctx).Where("id = ?", id)
	query = ApplyCompanyFilter(ctx, query)
	if err := query.First(&template).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *RecurringRepository) Update(ctx context.Context, template *domain.RecurringTemplate) error {
	return r.db.WithContext(ctx).Save(template).Error
}

// UpdateNextDueDate advances a template's due date inside tx
func (r *RecurringRepository) UpdateNextDueDate(ctx context.Context, tx *gorm.DB, id uuid.UUID, nextDueDate time.Time) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Model(&domain.RecurringTemplate{}).
		Where("id = ?", id).
		Update("next_due_date", nextDueDate).Error
}

func (r *RecurringRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := ApplyCompanyFilter(ctx, r.db.WithContext(ctx))
	return query.Delete(&domain.RecurringTemplate{}, "id = ?", id).Error
}

func (r *RecurringRepository) List(ctx context.Context, page, pageSize int) ([]domain.RecurringTemplate, int64, error) {
	var templates []domain.RecurringTemplate
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.RecurringTemplate{})
	query = ApplyCompanyFilter(ctx, query)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("next_due_date ASC").Find(&templates).Error

	return templates, total, err
}

// ListDue returns active templates for the company with next_due_date on or
// before today, ordered oldest first so catch-up proceeds deterministically
func (r *RecurringRepository) ListDue(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, today time.Time) ([]domain.RecurringTemplate, error) {
	if tx == nil {
		tx = r.db
	}
	var templates []domain.RecurringTemplate
	err := tx.WithContext(ctx).
		Where("company_id = ? AND is_active = ? AND next_due_date <= ?", companyID, true, today).
		Order("next_due_date ASC").
		Find(&templates).Error
	return templates, err
}
