package repository

import (
	"context"
	"time"

	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

// GetByID loads an invoice with its items and payments
func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	query := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Customer").
		Where("id = ?", id)
	query = ApplyCompanyFilter(ctx, query)
	if err := query.First(&invoice).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *InvoiceRepository) Update(ctx context.Context, invoice *domain.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

// ReplaceItems swaps the invoice's line items inside tx
func (r *InvoiceRepository) ReplaceItems(ctx context.Context, tx *gorm.DB, invoiceID uuid.UUID, items []domain.InvoiceItem) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.WithContext(ctx).Where("invoice_id = ?", invoiceID).Delete(&domain.InvoiceItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].InvoiceID = invoiceID
	}
	if len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *InvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := ApplyCompanyFilter(ctx, r.db.WithContext(ctx))
	return query.Delete(&domain.Invoice{}, "id = ?", id).Error
}

func (r *InvoiceRepository) List(ctx context.Context, page, pageSize int, status domain.InvoiceStatus) ([]domain.Invoice, int64, error) {
	var invoices []domain.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Invoice{})
	query = ApplyCompanyFilter(ctx, query)

	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Items").Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&invoices).Error

	return invoices, total, err
}

// OutstandingTotals returns the summed balance and count of open invoices
// (posted but not fully paid)
func (r *InvoiceRepository) OutstandingTotals(ctx context.Context) (decimal.Decimal, int64, error) {
	var result struct {
		Total decimal.Decimal
		Count int64
	}
	query := r.db.WithContext(ctx).Model(&domain.Invoice{}).
		Select("COALESCE(SUM(balance), 0) AS total, COUNT(*) AS count").
		Where("status IN ?", []domain.InvoiceStatus{domain.InvoiceStatusSent, domain.InvoiceStatusPartiallyPaid})
	query = ApplyCompanyFilter(ctx, query)
	if err := query.Scan(&result).Error; err != nil {
		return decimal.Zero, 0, err
	}
	return result.Total, result.Count, nil
}

// OverdueCount returns the number of open invoices past their due date
func (r *InvoiceRepository) OverdueCount(ctx context.Context, today time.Time) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Invoice{}).
		Where("status IN ?", []domain.InvoiceStatus{domain.InvoiceStatusSent, domain.InvoiceStatusPartiallyPaid}).
		Where("due_date IS NOT NULL AND due_date < ?", today)
	query = ApplyCompanyFilter(ctx, query)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CreatePayment appends a payment row inside tx
func (r *InvoiceRepository) CreatePayment(ctx context.Context, tx *gorm.DB, payment *domain.InvoicePayment) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(payment).Error
}
