package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fakturo-as/billing-api/internal/auth"
	"github.com/fakturo-as/billing-api/internal/dispatch"
	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/fakturo-as/billing-api/internal/money"
	"github.com/fakturo-as/billing-api/internal/repository"
	"github.com/fakturo-as/billing-api/internal/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// defaultPaymentTermDays is applied when an invoice is posted without an
// explicit due date.
const defaultPaymentTermDays = 30

// InvoiceService owns the invoice lifecycle: draft editing, posting with
// sequence assignment and stock decrement, payment application with ledger
// records, and document dispatch.
type InvoiceService struct {
	db              *gorm.DB
	invoiceRepo     *repository.InvoiceRepository
	customerRepo    *repository.CustomerRepository
	productRepo     *repository.ProductRepository
	sequenceRepo    *repository.NumberSequenceRepository
	transactionRepo *repository.TransactionRepository
	fileRepo        *repository.FileRepository
	companyRepo     *repository.CompanyRepository
	activity        *ActivityService
	renderer        dispatch.Renderer
	sender          dispatch.Sender
	store           storage.Storage
	logger          *zap.Logger
}

func NewInvoiceService(
	db *gorm.DB,
	invoiceRepo *repository.InvoiceRepository,
	customerRepo *repository.CustomerRepository,
	productRepo *repository.ProductRepository,
	sequenceRepo *repository.NumberSequenceRepository,
	transactionRepo *repository.TransactionRepository,
	fileRepo *repository.FileRepository,
	companyRepo *repository.CompanyRepository,
	activity *ActivityService,
	renderer dispatch.Renderer,
	sender dispatch.Sender,
	store storage.Storage,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		db:              db,
		invoiceRepo:     invoiceRepo,
		customerRepo:    customerRepo,
		productRepo:     productRepo,
		sequenceRepo:    sequenceRepo,
		transactionRepo: transactionRepo,
		fileRepo:        fileRepo,
		companyRepo:     companyRepo,
		activity:        activity,
		renderer:        renderer,
		sender:          sender,
		store:           store,
		logger:          logger,
	}
}

// buildLineItems validates the requested lines and derives their amounts.
// Amounts sent by the client are ignored; the stored values always come from
// the same arithmetic.
func buildInvoiceItems(items []domain.LineItemRequest) ([]domain.InvoiceItem, money.Totals, error) {
	built := make([]domain.InvoiceItem, 0, len(items))
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
		built = append(built, domain.InvoiceItem{
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

func (s *InvoiceService) resolveCustomerName(ctx context.Context, customerID *uuid.UUID) (string, error) {
	if customerID == nil {
		return "", nil
	}
	customer, err := s.customerRepo.GetByID(ctx, *customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return customer.Name, nil
}

func (s *InvoiceService) Create(ctx context.Context, req *domain.CreateInvoiceRequest) (*domain.InvoiceDTO, error) {
	uc := auth.MustFromContext(ctx)

	items, totals, err := buildInvoiceItems(req.Items)
	if err != nil {
		return nil, err
	}

	customerName, err := s.resolveCustomerName(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	invoice := &domain.Invoice{
		CompanyID:    uc.CompanyID,
		CustomerID:   req.CustomerID,
		CustomerName: customerName,
		Status:       domain.InvoiceStatusDraft,
		IssueDate:    req.IssueDate,
		DueDate:      req.DueDate,
		Notes:        req.Notes,
		Subtotal:     totals.Subtotal,
		TotalVAT:     totals.TotalVAT,
		GrandTotal:   totals.GrandTotal,
		Balance:      totals.GrandTotal,
		Items:        items,
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.activity.Log(ctx, domain.ActivityTargetInvoice, invoice.ID, "Invoice created", "Draft invoice created")

	return s.reload(ctx, invoice.ID)
}

// Update replaces the editable fields of a draft. Posted invoices are locked.
func (s *InvoiceService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateInvoiceRequest) (*domain.InvoiceDTO, error) {
	invoice, err := s.getInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.InvoiceStatusDraft {
		return nil, ErrDocumentLocked
	}

	items, totals, err := buildInvoiceItems(req.Items)
	if err != nil {
		return nil, err
	}

	customerName, err := s.resolveCustomerName(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.invoiceRepo.ReplaceItems(ctx, tx, invoice.ID, items); err != nil {
			return err
		}
		return tx.Model(&domain.Invoice{}).Where("id = ?", invoice.ID).Updates(map[string]interface{}{
			"customer_id":   req.CustomerID,
			"customer_name": customerName,
			"issue_date":    req.IssueDate,
			"due_date":      req.DueDate,
			"notes":         req.Notes,
			"subtotal":      totals.Subtotal,
			"total_vat":     totals.TotalVAT,
			"grand_total":   totals.GrandTotal,
			"balance":       totals.GrandTotal,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	s.activity.Log(ctx, domain.ActivityTargetInvoice, invoice.ID, "Invoice updated", "Draft invoice updated")

	return s.reload(ctx, invoice.ID)
}

func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.InvoiceDTO, error) {
	return s.reload(ctx, id)
}

func (s *InvoiceService) List(ctx context.Context, page, pageSize int, status domain.InvoiceStatus) ([]domain.InvoiceDTO, int64, error) {
	if status != "" && !status.IsValid() {
		return nil, 0, ErrNotFound
	}
	invoices, total, err := s.invoiceRepo.List(ctx, page, pageSize, status)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]domain.InvoiceDTO, 0, len(invoices))
	for i := range invoices {
		dtos = append(dtos, domain.ToInvoiceDTO(&invoices[i]))
	}
	return dtos, total, nil
}

// Delete removes a draft invoice. Posted invoices stay forever; they carry
// an assigned number and possibly ledger records.
func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	invoice, err := s.getInvoice(ctx, id)
	if err != nil {
		return err
	}
	if invoice.Status != domain.InvoiceStatusDraft {
		return ErrDocumentLocked
	}
	return s.invoiceRepo.Delete(ctx, id)
}

// Send posts a draft invoice: assigns the next invoice number, decrements
// stock for product-backed lines, and marks the invoice sent. Everything
// happens in one transaction so an aborted post leaves no trace.
func (s *InvoiceService) Send(ctx context.Context, id uuid.UUID) (*domain.InvoiceDTO, error) {
	invoice, err := s.getInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	if !invoice.Status.CanTransition(domain.InvoiceStatusSent) {
		return nil, ErrInvalidTransition
	}
	if len(invoice.Items) == 0 {
		return nil, ErrNoLineItems
	}
	if invoice.CustomerID == nil && invoice.CustomerName == "" {
		return nil, ErrMissingCounterparty
	}
	if !invoice.GrandTotal.IsPositive() {
		return nil, ErrInvalidAmount
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq := invoice.SequenceNumber
		if seq == 0 {
			seq, err = s.sequenceRepo.NextNumber(ctx, tx, invoice.CompanyID, domain.SequenceDocTypeInvoice)
			if err != nil {
				return err
			}
		}

		for _, item := range invoice.Items {
			if item.ProductID == nil {
				continue
			}
			delta := int(item.Quantity.Round(0).IntPart())
			if err := s.productRepo.AdjustStock(ctx, tx, *item.ProductID, -delta); err != nil {
				return err
			}
		}

		updates := map[string]interface{}{
			"status":          domain.InvoiceStatusSent,
			"sequence_number": seq,
			"sent_at":         now,
			"balance":         invoice.GrandTotal,
		}
		if invoice.IssueDate == nil {
			updates["issue_date"] = now
		}
		if invoice.DueDate == nil {
			issue := now
			if invoice.IssueDate != nil {
				issue = *invoice.IssueDate
			}
			updates["due_date"] = issue.AddDate(0, 0, defaultPaymentTermDays)
		}
		return tx.Model(&domain.Invoice{}).Where("id = ?", invoice.ID).Updates(updates).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to post invoice: %w", err)
	}

	s.logger.Info("invoice posted",
		zap.String("invoiceId", invoice.ID.String()),
		zap.String("companyId", invoice.CompanyID.String()))
	s.activity.Log(ctx, domain.ActivityTargetInvoice, invoice.ID, "Invoice sent", "Invoice posted and marked as sent")

	return s.reload(ctx, id)
}

// ApplyPayment appends a payment to a posted invoice and writes the matching
// income record, splitting the amount into excl-VAT and VAT in the same ratio
// as the invoice totals. The balance moves with a guarded relative update
// inside the transaction, so two concurrent payments can never drive it below
// zero no matter what balance each request read beforehand.
func (s *InvoiceService) ApplyPayment(ctx context.Context, id uuid.UUID, req *domain.ApplyPaymentRequest) (*domain.InvoiceDTO, error) {
	invoice, err := s.getInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	if !invoice.Status.IsPosted() {
		return nil, ErrInvalidTransition
	}
	if invoice.Status == domain.InvoiceStatusPaid {
		return nil, ErrInvalidTransition
	}
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	// Subtotal and GrandTotal are immutable once posted, so the proration
	// ratio is safe to compute from the read copy.
	exclVAT, vat := money.Prorate(req.Amount, invoice.Subtotal, invoice.GrandTotal)

	var remaining decimal.Decimal
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Invoice{}).
			Where("id = ? AND balance >= ?", invoice.ID, req.Amount).
			Update("balance", gorm.Expr("balance - ?", req.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrPaymentExceedsBalance
		}

		var current domain.Invoice
		if err := tx.Select("balance").First(&current, "id = ?", invoice.ID).Error; err != nil {
			return err
		}
		remaining = current.Balance

		newStatus := domain.InvoiceStatusPartiallyPaid
		if remaining.IsZero() {
			newStatus = domain.InvoiceStatusPaid
		}
		if err := tx.Model(&domain.Invoice{}).Where("id = ?", invoice.ID).
			Update("status", newStatus).Error; err != nil {
			return err
		}

		payment := &domain.InvoicePayment{
			InvoiceID: invoice.ID,
			Amount:    req.Amount,
			PaidAt:    paidAt,
			Method:    req.Method,
			Note:      req.Note,
		}
		if err := s.invoiceRepo.CreatePayment(ctx, tx, payment); err != nil {
			return err
		}

		invoiceID := invoice.ID
		paymentID := payment.ID
		record := &domain.Transaction{
			CompanyID:     invoice.CompanyID,
			Type:          domain.TransactionTypeIncome,
			Source:        domain.TransactionSourceInvoicePayment,
			Date:          paidAt,
			Party:         invoice.CustomerName,
			Description:   fmt.Sprintf("Payment on invoice %d", invoice.SequenceNumber),
			AmountExclVAT: exclVAT,
			VATAmount:     vat,
			GrossAmount:   req.Amount,
			InvoiceID:     &invoiceID,
			PaymentID:     &paymentID,
		}
		return s.transactionRepo.Create(ctx, tx, record)
	})
	if err != nil {
		if errors.Is(err, ErrPaymentExceedsBalance) {
			return nil, ErrPaymentExceedsBalance
		}
		return nil, fmt.Errorf("failed to apply payment: %w", err)
	}

	s.activity.Log(ctx, domain.ActivityTargetInvoice, invoice.ID, "Payment received",
		fmt.Sprintf("Payment of %s received. Remaining balance %s.", req.Amount.StringFixed(2), remaining.StringFixed(2)))

	return s.reload(ctx, id)
}

// ListPayments returns the append-only payment history for an invoice
func (s *InvoiceService) ListPayments(ctx context.Context, id uuid.UUID) ([]domain.PaymentDTO, error) {
	invoice, err := s.getInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	dtos := make([]domain.PaymentDTO, 0, len(invoice.Payments))
	for i := range invoice.Payments {
		dtos = append(dtos, domain.ToPaymentDTO(&invoice.Payments[i]))
	}
	return dtos, nil
}

// SendByEmail renders the invoice document, archives it in storage and hands
// it to the mail dispatcher. Only posted invoices can be emailed.
func (s *InvoiceService) SendByEmail(ctx context.Context, id uuid.UUID, req *domain.SendInvoiceEmailRequest) (*domain.FileDTO, error) {
	invoice, err := s.getInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if !invoice.Status.IsPosted() {
		return nil, ErrNotPosted
	}

	company, err := s.companyRepo.GetByID(ctx, invoice.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load company: %w", err)
	}

	document, err := s.renderer.RenderInvoice(invoice, company)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("invoice-%d.html", invoice.SequenceNumber)
	storagePath, size, err := s.store.Upload(ctx, filename, "text/html", bytes.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("failed to archive invoice document: %w", err)
	}

	invoiceID := invoice.ID
	file := &domain.File{
		CompanyID:   invoice.CompanyID,
		Filename:    filename,
		ContentType: "text/html",
		Size:        size,
		StoragePath: storagePath,
		InvoiceID:   &invoiceID,
	}
	if err := s.fileRepo.Create(ctx, file); err != nil {
		return nil, fmt.Errorf("failed to record invoice document: %w", err)
	}

	msg := &dispatch.Message{
		To:             req.Recipient,
		Subject:        fmt.Sprintf("Invoice %d from %s", invoice.SequenceNumber, company.Name),
		Body:           req.Message,
		AttachmentName: filename,
		Attachment:     document,
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to send invoice email: %w", err)
	}

	s.activity.Log(ctx, domain.ActivityTargetInvoice, invoice.ID, "Invoice emailed",
		fmt.Sprintf("Invoice sent to %s", req.Recipient))

	dto := domain.ToFileDTO(file)
	return &dto, nil
}

func (s *InvoiceService) getInvoice(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return invoice, nil
}

func (s *InvoiceService) reload(ctx context.Context, id uuid.UUID) (*domain.InvoiceDTO, error) {
	invoice, err := s.getInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := domain.ToInvoiceDTO(invoice)
	return &dto, nil
}

// createFromQuote builds a draft invoice from an accepted quote inside tx.
// Used by the quote conversion flow; the new invoice starts in Draft and is
// posted separately.
func (s *InvoiceService) createFromQuote(ctx context.Context, tx *gorm.DB, quote *domain.Quote) (*domain.Invoice, error) {
	items := make([]domain.InvoiceItem, 0, len(quote.Items))
	lines := make([]money.LineTotals, 0, len(quote.Items))
	for _, qi := range quote.Items {
		line := money.ComputeLine(qi.Quantity, qi.UnitPrice, int(qi.VATRate))
		lines = append(lines, line)
		items = append(items, domain.InvoiceItem{
			ProductID:     qi.ProductID,
			Description:   qi.Description,
			Quantity:      qi.Quantity,
			UnitPrice:     qi.UnitPrice,
			VATRate:       qi.VATRate,
			AmountExclVAT: line.ExclVAT,
			VATAmount:     line.VAT,
			GrossAmount:   line.Gross,
		})
	}
	totals := money.Aggregate(lines)

	quoteID := quote.ID
	invoice := &domain.Invoice{
		CompanyID:    quote.CompanyID,
		CustomerID:   quote.CustomerID,
		CustomerName: quote.CustomerName,
		Status:       domain.InvoiceStatusDraft,
		Notes:        quote.Notes,
		Subtotal:     totals.Subtotal,
		TotalVAT:     totals.TotalVAT,
		GrandTotal:   totals.GrandTotal,
		Balance:      totals.GrandTotal,
		QuoteID:      &quoteID,
		Items:        items,
	}
	if err := tx.WithContext(ctx).Create(invoice).Error; err != nil {
		return nil, fmt.Errorf("failed to create invoice from quote: %w", err)
	}

	return invoice, nil
}
