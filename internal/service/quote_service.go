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

// QuoteService owns the quote lifecycle. An accepted quote can be converted
// into a draft invoice exactly once; the conversion link is stored on the
// quote so a second attempt is rejected.
type QuoteService struct {
	db             *gorm.DB
	quoteRepo      *repository.QuoteRepository
	customerRepo   *repository.CustomerRepository
	sequenceRepo   *repository.NumberSequenceRepository
	invoiceService *InvoiceService
	activity       *ActivityService
	logger         *zap.Logger
}

func NewQuoteService(
	db *gorm.DB,
	quoteRepo *repository.QuoteRepository,
	customerRepo *repository.CustomerRepository,
	sequenceRepo *repository.NumberSequenceRepository,
	invoiceService *InvoiceService,
	activity *ActivityService,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		db:             db,
		quoteRepo:      quoteRepo,
		customerRepo:   customerRepo,
		sequenceRepo:   sequenceRepo,
		invoiceService: invoiceService,
		activity:       activity,
		logger:         logger,
	}
}

func buildQuoteItems(items []domain.LineItemRequest) ([]domain.QuoteItem, money.Totals, error) {
	built := make([]domain.QuoteItem, 0, len(items))
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
		built = append(built, domain.QuoteItem{
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

func (s *QuoteService) Create(ctx context.Context, req *domain.CreateQuoteRequest) (*domain.QuoteDTO, error) {
	uc := auth.MustFromContext(ctx)

	items, totals, err := buildQuoteItems(req.Items)
	if err != nil {
		return nil, err
	}

	customerName := ""
	if req.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *req.CustomerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		customerName = customer.Name
	}

	quote := &domain.Quote{
		CompanyID:    uc.CompanyID,
		CustomerID:   req.CustomerID,
		CustomerName: customerName,
		Status:       domain.QuoteStatusDraft,
		ValidUntil:   req.ValidUntil,
		Notes:        req.Notes,
		Subtotal:     totals.Subtotal,
		TotalVAT:     totals.TotalVAT,
		GrandTotal:   totals.GrandTotal,
		Items:        items,
	}

	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}

	s.activity.Log(ctx, domain.ActivityTargetQuote, quote.ID, "Quote created", "Draft quote created")

	return s.reload(ctx, quote.ID)
}

func (s *QuoteService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateQuoteRequest) (*domain.QuoteDTO, error) {
	quote, err := s.getQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote.Status != domain.QuoteStatusDraft {
		return nil, ErrDocumentLocked
	}

	items, totals, err := buildQuoteItems(req.Items)
	if err != nil {
		return nil, err
	}

	customerName := ""
	if req.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *req.CustomerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		customerName = customer.Name
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.quoteRepo.ReplaceItems(ctx, tx, quote.ID, items); err != nil {
			return err
		}
		return tx.Model(&domain.Quote{}).Where("id = ?", quote.ID).Updates(map[string]interface{}{
			"customer_id":   req.CustomerID,
			"customer_name": customerName,
			"valid_until":   req.ValidUntil,
			"notes":         req.Notes,
			"subtotal":      totals.Subtotal,
			"total_vat":     totals.TotalVAT,
			"grand_total":   totals.GrandTotal,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update quote: %w", err)
	}

	s.activity.Log(ctx, domain.ActivityTargetQuote, quote.ID, "Quote updated", "Draft quote updated")

	return s.reload(ctx, quote.ID)
}

func (s *QuoteService) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuoteDTO, error) {
	return s.reload(ctx, id)
}

func (s *QuoteService) List(ctx context.Context, page, pageSize int, status domain.QuoteStatus) ([]domain.QuoteDTO, int64, error) {
	if status != "" && !status.IsValid() {
		return nil, 0, ErrNotFound
	}
	quotes, total, err := s.quoteRepo.List(ctx, page, pageSize, status)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]domain.QuoteDTO, 0, len(quotes))
	for i := range quotes {
		dtos = append(dtos, domain.ToQuoteDTO(&quotes[i]))
	}
	return dtos, total, nil
}

func (s *QuoteService) Delete(ctx context.Context, id uuid.UUID) error {
	quote, err := s.getQuote(ctx, id)
	if err != nil {
		return err
	}
	if quote.Status != domain.QuoteStatusDraft {
		return ErrDocumentLocked
	}
	return s.quoteRepo.Delete(ctx, id)
}

// Send posts a draft quote, assigning its number from the quote sequence
func (s *QuoteService) Send(ctx context.Context, id uuid.UUID) (*domain.QuoteDTO, error) {
	quote, err := s.getQuote(ctx, id)
	if err != nil {
		return nil, err
	}

	if !quote.Status.CanTransition(domain.QuoteStatusSent) {
		return nil, ErrInvalidTransition
	}
	if len(quote.Items) == 0 {
		return nil, ErrNoLineItems
	}
	if quote.CustomerID == nil && quote.CustomerName == "" {
		return nil, ErrMissingCounterparty
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq := quote.SequenceNumber
		if seq == 0 {
			seq, err = s.sequenceRepo.NextNumber(ctx, tx, quote.CompanyID, domain.SequenceDocTypeQuote)
			if err != nil {
				return err
			}
		}
		return tx.Model(&domain.Quote{}).Where("id = ?", quote.ID).Updates(map[string]interface{}{
			"status":          domain.QuoteStatusSent,
			"sequence_number": seq,
			"sent_at":         now,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to post quote: %w", err)
	}

	s.activity.Log(ctx, domain.ActivityTargetQuote, quote.ID, "Quote sent", "Quote posted and marked as sent")

	return s.reload(ctx, id)
}

// SetStatus moves a sent quote to accepted, declined or expired
func (s *QuoteService) SetStatus(ctx context.Context, id uuid.UUID, target domain.QuoteStatus) (*domain.QuoteDTO, error) {
	quote, err := s.getQuote(ctx, id)
	if err != nil {
		return nil, err
	}

	if !target.IsValid() || !quote.Status.CanTransition(target) {
		return nil, ErrInvalidTransition
	}

	err = s.db.WithContext(ctx).Model(&domain.Quote{}).
		Where("id = ?", quote.ID).
		Update("status", target).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update quote status: %w", err)
	}

	s.activity.Log(ctx, domain.ActivityTargetQuote, quote.ID, "Quote "+string(target), "")

	return s.reload(ctx, id)
}

// Convert turns an accepted quote into a draft invoice. The conversion is a
// one-shot operation: the created invoice's ID is stored on the quote and a
// second call fails without creating anything.
func (s *QuoteService) Convert(ctx context.Context, id uuid.UUID) (*domain.InvoiceDTO, error) {
	quote, err := s.getQuote(ctx, id)
	if err != nil {
		return nil, err
	}

	if quote.Status != domain.QuoteStatusAccepted {
		return nil, ErrQuoteNotAccepted
	}
	if quote.ConvertedInvoiceID != nil {
		return nil, ErrQuoteAlreadyConverted
	}

	var invoice *domain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Claim the conversion slot first; the guard fails if another
		// request converted the quote in the meantime.
		res := tx.Model(&domain.Quote{}).
			Where("id = ? AND converted_invoice_id IS NULL", quote.ID).
			Update("converted_invoice_id", uuid.New())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrQuoteAlreadyConverted
		}

		invoice, err = s.invoiceService.createFromQuote(ctx, tx, quote)
		if err != nil {
			return err
		}

		return tx.Model(&domain.Quote{}).
			Where("id = ?", quote.ID).
			Update("converted_invoice_id", invoice.ID).Error
	})
	if err != nil {
		if errors.Is(err, ErrQuoteAlreadyConverted) {
			return nil, ErrQuoteAlreadyConverted
		}
		return nil, fmt.Errorf("failed to convert quote: %w", err)
	}

	s.activity.Log(ctx, domain.ActivityTargetQuote, quote.ID, "Quote converted",
		"Draft invoice created from quote")

	return s.invoiceService.reload(ctx, invoice.ID)
}

func (s *QuoteService) getQuote(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return quote, nil
}

func (s *QuoteService) reload(ctx context.Context, id uuid.UUID) (*domain.QuoteDTO, error) {
	quote, err := s.getQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := domain.ToQuoteDTO(quote)
	return &dto, nil
}
