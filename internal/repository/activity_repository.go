package repository

import (
	"context"

	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// ListByTarget returns the event log for one document, newest first
func (r *ActivityRepository) ListByTarget(ctx context.Context, targetType domain.ActivityTargetType, targetID uuid.UUID) ([]domain.Activity, error) {
	var activities []domain.Activity
	query := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", targetType, targetID)
	query = ApplyCompanyFilter(ctx, query)
	err := query.Order("occurred_at DESC").Find(&activities).Error
	return activities, err
}
