package repository

import (
	"context"

	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(ctx context.Context, file *domain.File) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *FileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.File, error) {
	var file domain.File
	query := r.db.WithContext(ctx).Where("id = ?", id)
	query = ApplyCompanyFilter(ctx, query)
	if err := query.First(&file).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *FileRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]domain.File, error) {
	var files []domain.File
	query := r.db.WithContext(ctx).Where("invoice_id = ?", invoiceID)
	query = ApplyCompanyFilter(ctx, query)
	err := query.Order("created_at DESC").Find(&files).Error
	return files, err
}
