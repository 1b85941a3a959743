package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var product domain.Product
	query := r.db.WithContext(ctx).Preload("Supplier").Where("id = ?", id)
	query = ApplyCompanyFilter(ctx, query)
	if err := query.First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) GetByERPReference(ctx context.Context, companyID uuid.UUID, ref string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND erp_reference = ?", companyID, ref).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := ApplyCompanyFilter(ctx, r.db.WithContext(ctx))
	return query.Delete(&domain.Product{}, "id = ?", id).Error
}

func (r *ProductRepository) List(ctx context.Context, page, pageSize int, search string) ([]domain.Product, int64, error) {
	var products []domain.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Product{})
	query = ApplyCompanyFilter(ctx, query)

	if search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Supplier").Offset(offset).Limit(pageSize).Order("name ASC").Find(&products).Error

	return products, total, err
}

// AdjustStock applies a relative stock delta within tx. The expression runs
// in the database so concurrent postings never lose an adjustment; stock is
// allowed to go negative.
func (r *ProductRepository) AdjustStock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, delta int) error {
	if tx == nil {
		tx = r.db
	}
	res := tx.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ? AND track_stock = ?", productID, true).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("failed to adjust stock: %w", res.Error)
	}
	return nil
}

// SetStock sets an absolute stock level (manual correction)
func (r *ProductRepository) SetStock(ctx context.Context, productID uuid.UUID, stock int) error {
	query := ApplyCompanyFilter(ctx, r.db.WithContext(ctx).Model(&domain.Product{}))
	return query.Where("id = ?", productID).Update("stock", stock).Error
}
