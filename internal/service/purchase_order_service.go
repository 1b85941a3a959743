package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fakturo-as/billing-api/internal/auth"
	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/fakturo-as/billing-api/internal/money"
	"github.com/fakturo-as/billing-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PurchaseOrderService owns the purchase order lifecycle. Receiving a posted
// order increments stock and writes the expense record in one transaction.
type PurchaseOrderService struct {
	db              *gorm.DB
	orderRepo       *repository.PurchaseOrderRepository
	supplierRepo    *repository.SupplierRepository
	productRepo     *repository.ProductRepository
	sequenceRepo    *repository.NumberSequenceRepository
	transactionRepo *repository.TransactionRepository
	activity        *ActivityService
	logger          *zap.Logger
}

func NewPurchaseOrderService(
	db *gorm.DB,
	orderRepo *repository.PurchaseOrderRepository,
	supplierRepo *repository.SupplierRepository,
	productRepo *repository.ProductRepository,
	sequenceRepo *repository.NumberSequenceRepository,
	transactionRepo *repository.TransactionRepository,
	activity *ActivityService,
	logger *zap.Logger,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		db:              db,
		orderRepo:       orderRepo,
		supplierRepo:    supplierRepo,
		productRepo:     productRepo,
		sequenceRepo:    sequenceRepo,
		transactionRepo: transactionRepo,
		activity:        activity,
		logger:          logger,
	}
}

func buildOrderItems(items []domain.LineItemRequest) ([]domain.PurchaseOrderItem, money.Totals, error) {
	built := make([]domain.PurchaseOrderItem, 0, len(items))
	lines := make([]money.LineTotals, 0, len(items))

	for _, req := range items {
		if !req.VATRate.IsValid() {
			return nil, money.Totals{}, ErrInvalidVATRate
		}
		if req.Quantity.IsNegative() || req.UnitPrice.IsNegative() {
			return nil, money.Totals{}, ErrInvalidAmount
		}
		line := money.ComputeLine(req.Quantity, req.UnitPrice, int(req.VATRate))
		lines = append(lines, line)
		built = append(built, domain.PurchaseOrderItem{
			ProductID:     req.ProductID,
			Description:   req.Description,
			Quantity:      req.Quantity,
			UnitPrice:     req.UnitPrice,
			VATRate:       req.VATRate,
			AmountExclVAT: line.ExclVAT,
			VATAmount:     line.VAT,
			GrossAmount:   line.Gross,
		})
	}

	return built, money.Aggregate(lines), nil
}

func (s *PurchaseOrderService) resolveSupplierName(ctx context.Context, supplierID *uuid.UUID) (string, error) {
	if supplierID == nil {
		return "", nil
	}
	supplier, err := s.supplierRepo.GetByID(ctx, *supplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return supplier.Name, nil
}

func (s *PurchaseOrderService) Create(ctx context.Context, req *domain.CreatePurchaseOrderRequest) (*domain.PurchaseOrderDTO, error) {
	uc := auth.MustFromContext(ctx)

	items, totals, err := buildOrderItems(req.Items)
	if err != nil {
		return nil, err
	}

	supplierName, err := s.resolveSupplierName(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}

	order := &domain.PurchaseOrder{
		CompanyID:        uc.CompanyID,
		SupplierID:       req.SupplierID,
		SupplierName:     supplierName,
		Status:           domain.PurchaseOrderStatusDraft,
		ExpectedDelivery: req.ExpectedDelivery,
		Notes:            req.Notes,
		Subtotal:         totals.Subtotal,
		TotalVAT:         totals.TotalVAT,
		GrandTotal:       totals.GrandTotal,
		Items:            items,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create purchase order: %w", err)
	}

	s.activity.Log(ctx, domain.ActivityTargetPurchaseOrder, order.ID, "Purchase order created", "Draft purchase order created")

	return s.reload(ctx, order.ID)
}

func (s *PurchaseOrderService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdatePurchaseOrderRequest) (*domain.PurchaseOrderDTO, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.PurchaseOrderStatusDraft {
		return nil, ErrDocumentLocked
	}

	items, totals, err := buildOrderItems(req.Items)
	if err != nil {
		return nil, err
	}

	supplierName, err := s.resolveSupplierName(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.ReplaceItems(ctx, tx, order.ID, items); err != nil {
			return err
		}
		return tx.Model(&domain.PurchaseOrder{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
			"supplier_id":       req.SupplierID,
			"supplier_name":     supplierName,
			"expected_delivery": req.ExpectedDelivery,
			"notes":             req.Notes,
			"subtotal":          totals.Subtotal,
			"total_vat":         totals.TotalVAT,
			"grand_total":       totals.GrandTotal,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update purchase order: %w", err)
	}

	s.activity.Log(ctx, domain.ActivityTargetPurchaseOrder, order.ID, "Purchase order updated", "Draft purchase order updated")

	return s.reload(ctx, order.ID)
}

func (s *PurchaseOrderService) GetByID(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrderDTO, error) {
	return s.reload(ctx, id)
}

func (s *PurchaseOrderService) List(ctx context.Context, page, pageSize int, status domain.PurchaseOrderStatus) ([]domain.PurchaseOrderDTO, int64, error) {
	if status != "" && !status.IsValid() {
		return nil, 0, ErrNotFound
	}
	orders, total, err := s.orderRepo.List(ctx, page, pageSize, status)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]domain.PurchaseOrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, domain.ToPurchaseOrderDTO(&orders[i]))
	}
	return dtos, total, nil
}

func (s *PurchaseOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return err
	}
	if order.Status != domain.PurchaseOrderStatusDraft {
		return ErrDocumentLocked
	}
	return s.orderRepo.Delete(ctx, id)
}

// MarkOrdered posts a draft purchase order, assigning its number from the
// purchase order sequence
func (s *PurchaseOrderService) MarkOrdered(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrderDTO, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransition(domain.PurchaseOrderStatusOrdered) {
		return nil, ErrInvalidTransition
	}
	if len(order.Items) == 0 {
		return nil, ErrNoLineItems
	}
	if order.SupplierID == nil && order.SupplierName == "" {
		return nil, ErrMissingCounterparty
	}
	if !order.GrandTotal.IsPositive() {
		return nil, ErrInvalidAmount
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq := order.SequenceNumber
		if seq == 0 {
			seq, err = s.sequenceRepo.NextNumber(ctx, tx, order.CompanyID, domain.SequenceDocTypePurchaseOrder)
			if err != nil {
				return err
			}
		}
		return tx.Model(&domain.PurchaseOrder{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
			"status":          domain.PurchaseOrderStatusOrdered,
			"sequence_number": seq,
			"ordered_at":      now,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to post purchase order: %w", err)
	}

	s.activity.Log(ctx, domain.ActivityTargetPurchaseOrder, order.ID, "Purchase order placed", "Order sent to supplier")

	return s.reload(ctx, id)
}

// Receive marks an ordered purchase order as received, increments stock for
// product-backed lines and writes the expense record. The transition, the
// stock deltas and the ledger entry commit or roll back together.
func (s *PurchaseOrderService) Receive(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrderDTO, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransition(domain.PurchaseOrderStatusReceived) {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			if item.ProductID == nil {
				continue
			}
			delta := int(item.Quantity.Round(0).IntPart())
			if err := s.productRepo.AdjustStock(ctx, tx, *item.ProductID, delta); err != nil {
				return err
			}
		}

		orderID := order.ID
		record := &domain.Transaction{
			CompanyID:       order.CompanyID,
			Type:            domain.TransactionTypeExpense,
			Source:          domain.TransactionSourcePurchaseOrder,
			Date:            now,
			Party:           order.SupplierName,
			Description:     fmt.Sprintf("Goods received on purchase order %d", order.SequenceNumber),
			AmountExclVAT:   order.Subtotal,
			VATAmount:       order.TotalVAT,
			GrossAmount:     order.GrandTotal,
			PurchaseOrderID: &orderID,
		}
		if err := s.transactionRepo.Create(ctx, tx, record); err != nil {
			return err
		}

		return tx.Model(&domain.PurchaseOrder{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
			"status":      domain.PurchaseOrderStatusReceived,
			"received_at": now,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to receive purchase order: %w", err)
	}

	s.activity.Log(ctx, domain.ActivityTargetPurchaseOrder, order.ID, "Purchase order received",
		"Goods received, stock updated")

	return s.reload(ctx, id)
}

// Cancel voids a draft or ordered purchase order. No stock or ledger effects
// have happened yet in either state, so cancelling is a plain status change.
func (s *PurchaseOrderService) Cancel(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrderDTO, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransition(domain.PurchaseOrderStatusCancelled) {
		return nil, ErrInvalidTransition
	}

	err = s.db.WithContext(ctx).Model(&domain.PurchaseOrder{}).
		Where("id = ?", order.ID).
		Update("status", domain.PurchaseOrderStatusCancelled).Error
	if err != nil {
		return nil, fmt.Errorf("failed to cancel purchase order: %w", err)
	}

	s.activity.Log(ctx, domain.ActivityTargetPurchaseOrder, order.ID, "Purchase order cancelled", "")

	return s.reload(ctx, id)
}

func (s *PurchaseOrderService) getOrder(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *PurchaseOrderService) reload(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrderDTO, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := domain.ToPurchaseOrderDTO(order)
	return &dto, nil
}
