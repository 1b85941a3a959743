package repository

import (
	"context"

	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseOrderRepository struct {
	db *gorm.DB
}

func NewPurchaseOrderRepository(db *gorm.DB) *PurchaseOrderRepository {
	return &PurchaseOrderRepository{db: db}
}

func (r *PurchaseOrderRepository) Create(ctx context.Context, po *domain.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(po).Error
}

func (r *PurchaseOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error) {
	var po domain.PurchaseOrder
	query := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Supplier").
		Where("id = ?", id)
	query = ApplyCompanyFilter(ctx, query)
	if err := query.First(&po).Error; err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *PurchaseOrderRepository) Update(ctx context.Context, po *domain.PurchaseOrder) error {
	return r.db.WithContext(ctx).Save(po).Error
}

// ReplaceItems swaps the purchase order's line items inside tx
func (r *PurchaseOrderRepository) ReplaceItems(ctx context.Context, tx *gorm.DB, poID uuid.UUID, items []domain.PurchaseOrderItem) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.WithContext(ctx).Where("purchase_order_id = ?", poID).Delete(&domain.PurchaseOrderItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].PurchaseOrderID = poID
	}
	if len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *PurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := ApplyCompanyFilter(ctx, r.db.WithContext(ctx))
	return query.Delete(&domain.PurchaseOrder{}, "id = ?", id).Error
}

func (r *PurchaseOrderRepository) List(ctx context.Context, page, pageSize int, status domain.PurchaseOrderStatus) ([]domain.PurchaseOrder, int64, error) {
	var orders []domain.PurchaseOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.PurchaseOrder{})
	query = ApplyCompanyFilter(ctx, query)

	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Items").Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&orders).Error

	return orders, total, err
}
