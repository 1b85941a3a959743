package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DTOs for API responses. Dates are ISO 8601 strings; amounts are decimal
// strings so clients never see float artifacts.

type CustomerDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	OrgNumber     string    `json:"orgNumber,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	City          string    `json:"city,omitempty"`
	PostalCode    string    `json:"postalCode,omitempty"`
	Country       string    `json:"country"`
	ContactPerson string    `json:"contactPerson,omitempty"`
	ERPReference  string    `json:"erpReference,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     string    `json:"createdAt"`
	UpdatedAt     string    `json:"updatedAt"`
}

type SupplierDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	OrgNumber     string    `json:"orgNumber,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	City          string    `json:"city,omitempty"`
	PostalCode    string    `json:"postalCode,omitempty"`
	Country       string    `json:"country"`
	ContactPerson string    `json:"contactPerson,omitempty"`
	ERPReference  string    `json:"erpReference,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     string    `json:"createdAt"`
	UpdatedAt     string    `json:"updatedAt"`
}

type ProductDTO struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku,omitempty"`
	Description   string          `json:"description,omitempty"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	VATRate       VATRate         `json:"vatRate"`
	Unit          string          `json:"unit,omitempty"`
	Stock         int             `json:"stock"`
	TrackStock    bool            `json:"trackStock"`
	NegativeStock bool            `json:"negativeStock"`
	SupplierID    *uuid.UUID      `json:"supplierId,omitempty"`
	SupplierName  string          `json:"supplierName,omitempty"`
	ERPReference  string          `json:"erpReference,omitempty"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     string          `json:"createdAt"`
	UpdatedAt     string          `json:"updatedAt"`
}

type LineItemDTO struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     *uuid.UUID      `json:"productId,omitempty"`
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	VATRate       VATRate         `json:"vatRate"`
	AmountExclVAT decimal.Decimal `json:"amountExclVat"`
	VATAmount     decimal.Decimal `json:"vatAmount"`
	GrossAmount   decimal.Decimal `json:"grossAmount"`
}

type PaymentDTO struct {
	ID        uuid.UUID       `json:"id"`
	InvoiceID uuid.UUID       `json:"invoiceId"`
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    string          `json:"paidAt"`
	Method    string          `json:"method,omitempty"`
	Note      string          `json:"note,omitempty"`
	CreatedAt string          `json:"createdAt"`
}

type InvoiceDTO struct {
	ID             uuid.UUID       `json:"id"`
	CustomerID     *uuid.UUID      `json:"customerId,omitempty"`
	CustomerName   string          `json:"customerName,omitempty"`
	Status         InvoiceStatus   `json:"status"`
	SequenceNumber int             `json:"sequenceNumber,omitempty"`
	IssueDate      *string         `json:"issueDate,omitempty"`
	DueDate        *string         `json:"dueDate,omitempty"`
	SentAt         *string         `json:"sentAt,omitempty"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TotalVAT       decimal.Decimal `json:"totalVat"`
	GrandTotal     decimal.Decimal `json:"grandTotal"`
	Balance        decimal.Decimal `json:"balance"`
	QuoteID        *uuid.UUID      `json:"quoteId,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	Items          []LineItemDTO   `json:"items"`
	Payments       []PaymentDTO    `json:"payments,omitempty"`
	CreatedAt      string          `json:"createdAt"`
	UpdatedAt      string          `json:"updatedAt"`
}

type QuoteDTO struct {
	ID                 uuid.UUID       `json:"id"`
	CustomerID         *uuid.UUID      `json:"customerId,omitempty"`
	CustomerName       string          `json:"customerName,omitempty"`
	Status             QuoteStatus     `json:"status"`
	SequenceNumber     int             `json:"sequenceNumber,omitempty"`
	ValidUntil         *string         `json:"validUntil,omitempty"`
	SentAt             *string         `json:"sentAt,omitempty"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	TotalVAT           decimal.Decimal `json:"totalVat"`
	GrandTotal         decimal.Decimal `json:"grandTotal"`
	ConvertedInvoiceID *uuid.UUID      `json:"convertedInvoiceId,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	Items              []LineItemDTO   `json:"items"`
	CreatedAt          string          `json:"createdAt"`
	UpdatedAt          string          `json:"updatedAt"`
}

type PurchaseOrderDTO struct {
	ID               uuid.UUID           `json:"id"`
	SupplierID       *uuid.UUID          `json:"supplierId,omitempty"`
	SupplierName     string              `json:"supplierName,omitempty"`
	Status           PurchaseOrderStatus `json:"status"`
	SequenceNumber   int                 `json:"sequenceNumber,omitempty"`
	ExpectedDelivery *string             `json:"expectedDelivery,omitempty"`
	OrderedAt        *string             `json:"orderedAt,omitempty"`
	ReceivedAt       *string             `json:"receivedAt,omitempty"`
	Subtotal         decimal.Decimal     `json:"subtotal"`
	TotalVAT         decimal.Decimal     `json:"totalVat"`
	GrandTotal       decimal.Decimal     `json:"grandTotal"`
	Notes            string              `json:"notes,omitempty"`
	Items            []LineItemDTO       `json:"items"`
	CreatedAt        string              `json:"createdAt"`
	UpdatedAt        string              `json:"updatedAt"`
}

type TransactionDTO struct {
	ID                  uuid.UUID         `json:"id"`
	Type                TransactionType   `json:"type"`
	Source              TransactionSource `json:"source"`
	Date                string            `json:"date"`
	Party               string            `json:"party,omitempty"`
	Description         string            `json:"description,omitempty"`
	AmountExclVAT       decimal.Decimal   `json:"amountExclVat"`
	VATAmount           decimal.Decimal   `json:"vatAmount"`
	GrossAmount         decimal.Decimal   `json:"grossAmount"`
	InvoiceID           *uuid.UUID        `json:"invoiceId,omitempty"`
	PurchaseOrderID     *uuid.UUID        `json:"purchaseOrderId,omitempty"`
	RecurringTemplateID *uuid.UUID        `json:"recurringTemplateId,omitempty"`
	CreatedAt           string            `json:"createdAt"`
}

type RecurringTemplateDTO struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Type        TransactionType     `json:"type"`
	Party       string              `json:"party,omitempty"`
	Amount      decimal.Decimal     `json:"amount"`
	VATRate     VATRate             `json:"vatRate"`
	NextDueDate string              `json:"nextDueDate"`
	Frequency   RecurrenceFrequency `json:"frequency"`
	IsActive    bool                `json:"isActive"`
	CreatedAt   string              `json:"createdAt"`
	UpdatedAt   string              `json:"updatedAt"`
}

type ActivityDTO struct {
	ID          uuid.UUID          `json:"id"`
	TargetType  ActivityTargetType `json:"targetType"`
	TargetID    uuid.UUID          `json:"targetId"`
	Title       string             `json:"title"`
	Body        string             `json:"body,omitempty"`
	OccurredAt  string             `json:"occurredAt"`
	CreatorName string             `json:"creatorName,omitempty"`
}

type FileDTO struct {
	ID          uuid.UUID  `json:"id"`
	Filename    string     `json:"filename"`
	ContentType string     `json:"contentType"`
	Size        int64      `json:"size"`
	InvoiceID   *uuid.UUID `json:"invoiceId,omitempty"`
	CreatedAt   string     `json:"createdAt"`
}

// DashboardMetricsDTO holds the numbers shown on the landing page
type DashboardMetricsDTO struct {
	OutstandingReceivables decimal.Decimal `json:"outstandingReceivables"`
	OpenInvoiceCount       int64           `json:"openInvoiceCount"`
	OverdueInvoiceCount    int64           `json:"overdueInvoiceCount"`
	MonthIncomeExclVAT     decimal.Decimal `json:"monthIncomeExclVat"`
	MonthExpenseExclVAT    decimal.Decimal `json:"monthExpenseExclVat"`
}

// MaterializeResultDTO summarizes one recurring materializer run
type MaterializeResultDTO struct {
	CreatedCount int              `json:"createdCount"`
	Transactions []TransactionDTO `json:"transactions"`
}

type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CompanyID uuid.UUID `json:"companyId"`
}

type LoginResponse struct {
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expiresAt"`
	User      UserDTO `json:"user"`
}

// PaginatedResponse wraps list results with paging metadata
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// NewPaginatedResponse builds a PaginatedResponse from a result page
func NewPaginatedResponse(data interface{}, total int64, page, pageSize int) PaginatedResponse {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// Request types

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateCustomerRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	OrgNumber     string `json:"orgNumber,omitempty" validate:"max=20"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         string `json:"phone,omitempty" validate:"max=50"`
	Address       string `json:"address,omitempty" validate:"max=500"`
	City          string `json:"city,omitempty" validate:"max=100"`
	PostalCode    string `json:"postalCode,omitempty" validate:"max=20"`
	Country       string `json:"country,omitempty" validate:"max=100"`
	ContactPerson string `json:"contactPerson,omitempty" validate:"max=200"`
	Notes         string `json:"notes,omitempty"`
}

type UpdateCustomerRequest = CreateCustomerRequest

type CreateSupplierRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	OrgNumber     string `json:"orgNumber,omitempty" validate:"max=20"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         string `json:"phone,omitempty" validate:"max=50"`
	Address       string `json:"address,omitempty" validate:"max=500"`
	City          string `json:"city,omitempty" validate:"max=100"`
	PostalCode    string `json:"postalCode,omitempty" validate:"max=20"`
	Country       string `json:"country,omitempty" validate:"max=100"`
	ContactPerson string `json:"contactPerson,omitempty" validate:"max=200"`
	Notes         string `json:"notes,omitempty"`
}

type UpdateSupplierRequest = CreateSupplierRequest

type CreateProductRequest struct {
	Name          string          `json:"name" validate:"required,max=200"`
	SKU           string          `json:"sku,omitempty" validate:"max=100"`
	Description   string          `json:"description,omitempty"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	VATRate       VATRate         `json:"vatRate" validate:"oneof=0 6 12 25"`
	Unit          string          `json:"unit,omitempty" validate:"max=50"`
	Stock         int             `json:"stock,omitempty"`
	TrackStock    *bool           `json:"trackStock,omitempty"`
	SupplierID    *uuid.UUID      `json:"supplierId,omitempty"`
}

type UpdateProductRequest = CreateProductRequest

// SetStockRequest sets an absolute stock level (manual correction)
type SetStockRequest struct {
	Stock int    `json:"stock"`
	Note  string `json:"note,omitempty" validate:"max=500"`
}

// LineItemRequest is a line on an invoice, quote or purchase order request.
// The amount fields are always recomputed server-side.
type LineItemRequest struct {
	ProductID   *uuid.UUID      `json:"productId,omitempty"`
	Description string          `json:"description" validate:"required,max=500"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	VATRate     VATRate         `json:"vatRate" validate:"oneof=0 6 12 25"`
}

type CreateInvoiceRequest struct {
	CustomerID *uuid.UUID        `json:"customerId,omitempty"`
	IssueDate  *time.Time        `json:"issueDate,omitempty"`
	DueDate    *time.Time        `json:"dueDate,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	Items      []LineItemRequest `json:"items" validate:"dive"`
}

type UpdateInvoiceRequest = CreateInvoiceRequest

type ApplyPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	PaidAt *time.Time      `json:"paidAt,omitempty"`
	Method string          `json:"method,omitempty" validate:"max=50"`
	Note   string          `json:"note,omitempty" validate:"max=500"`
}

type SendInvoiceEmailRequest struct {
	Recipient string `json:"recipient" validate:"required,email"`
	Message   string `json:"message,omitempty" validate:"max=2000"`
}

type CreateQuoteRequest struct {
	CustomerID *uuid.UUID        `json:"customerId,omitempty"`
	ValidUntil *time.Time        `json:"validUntil,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	Items      []LineItemRequest `json:"items" validate:"dive"`
}

type UpdateQuoteRequest = CreateQuoteRequest

type CreatePurchaseOrderRequest struct {
	SupplierID       *uuid.UUID        `json:"supplierId,omitempty"`
	ExpectedDelivery *time.Time        `json:"expectedDelivery,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	Items            []LineItemRequest `json:"items" validate:"dive"`
}

type UpdatePurchaseOrderRequest = CreatePurchaseOrderRequest

type CreateRecurringTemplateRequest struct {
	Name        string              `json:"name" validate:"required,max=200"`
	Type        TransactionType     `json:"type" validate:"required,oneof=income expense"`
	Party       string              `json:"party,omitempty" validate:"max=200"`
	Amount      decimal.Decimal     `json:"amount"`
	NextDueDate time.Time           `json:"nextDueDate" validate:"required"`
	Frequency   RecurrenceFrequency `json:"frequency,omitempty" validate:"omitempty,oneof=monthly"`
}

type UpdateRecurringTemplateRequest struct {
	Name        string              `json:"name" validate:"required,max=200"`
	Party       string              `json:"party,omitempty" validate:"max=200"`
	Amount      decimal.Decimal     `json:"amount"`
	NextDueDate time.Time           `json:"nextDueDate" validate:"required"`
	Frequency   RecurrenceFrequency `json:"frequency,omitempty" validate:"omitempty,oneof=monthly"`
	IsActive    *bool               `json:"isActive,omitempty"`
}

type CreateTransactionRequest struct {
	Type          TransactionType `json:"type" validate:"required,oneof=income expense"`
	Date          time.Time       `json:"date" validate:"required"`
	Party         string          `json:"party,omitempty" validate:"max=200"`
	Description   string          `json:"description,omitempty" validate:"max=500"`
	AmountExclVAT decimal.Decimal `json:"amountExclVat"`
	VATAmount     decimal.Decimal `json:"vatAmount"`
}

// Mapping constructors

const dateLayout = "2006-01-02"

func isoTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func isoTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := isoTime(*t)
	return &s
}

func isoDate(t time.Time) string {
	return t.Format(dateLayout)
}

func isoDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := isoDate(*t)
	return &s
}

func ToCustomerDTO(c *Customer) CustomerDTO {
	return CustomerDTO{
		ID:            c.ID,
		Name:          c.Name,
		OrgNumber:     c.OrgNumber,
		Email:         c.Email,
		Phone:         c.Phone,
		Address:       c.Address,
		City:          c.City,
		PostalCode:    c.PostalCode,
		Country:       c.Country,
		ContactPerson: c.ContactPerson,
		ERPReference:  c.ERPReference,
		Notes:         c.Notes,
		IsActive:      c.IsActive,
		CreatedAt:     isoTime(c.CreatedAt),
		UpdatedAt:     isoTime(c.UpdatedAt),
	}
}

func ToSupplierDTO(s *Supplier) SupplierDTO {
	return SupplierDTO{
		ID:            s.ID,
		Name:          s.Name,
		OrgNumber:     s.OrgNumber,
		Email:         s.Email,
		Phone:         s.Phone,
		Address:       s.Address,
		City:          s.City,
		PostalCode:    s.PostalCode,
		Country:       s.Country,
		ContactPerson: s.ContactPerson,
		ERPReference:  s.ERPReference,
		Notes:         s.Notes,
		IsActive:      s.IsActive,
		CreatedAt:     isoTime(s.CreatedAt),
		UpdatedAt:     isoTime(s.UpdatedAt),
	}
}

func ToProductDTO(p *Product) ProductDTO {
	dto := ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		SKU:           p.SKU,
		Description:   p.Description,
		UnitPrice:     p.UnitPrice,
		PurchasePrice: p.PurchasePrice,
		VATRate:       p.VATRate,
		Unit:          p.Unit,
		Stock:         p.Stock,
		TrackStock:    p.TrackStock,
		NegativeStock: p.Stock < 0,
		SupplierID:    p.SupplierID,
		ERPReference:  p.ERPReference,
		IsActive:      p.IsActive,
		CreatedAt:     isoTime(p.CreatedAt),
		UpdatedAt:     isoTime(p.UpdatedAt),
	}
	if p.Supplier != nil {
		dto.SupplierName = p.Supplier.Name
	}
	return dto
}

func toInvoiceItemDTO(it *InvoiceItem) LineItemDTO {
	return LineItemDTO{
		ID:            it.ID,
		ProductID:     it.ProductID,
		Description:   it.Description,
		Quantity:      it.Quantity,
		UnitPrice:     it.UnitPrice,
		VATRate:       it.VATRate,
		AmountExclVAT: it.AmountExclVAT,
		VATAmount:     it.VATAmount,
		GrossAmount:   it.GrossAmount,
	}
}

func ToPaymentDTO(p *InvoicePayment) PaymentDTO {
	return PaymentDTO{
		ID:        p.ID,
		InvoiceID: p.InvoiceID,
		Amount:    p.Amount,
		PaidAt:    isoDate(p.PaidAt),
		Method:    p.Method,
		Note:      p.Note,
		CreatedAt: isoTime(p.CreatedAt),
	}
}

func ToInvoiceDTO(inv *Invoice) InvoiceDTO {
	items := make([]LineItemDTO, len(inv.Items))
	for i := range inv.Items {
		items[i] = toInvoiceItemDTO(&inv.Items[i])
	}
	payments := make([]PaymentDTO, len(inv.Payments))
	for i := range inv.Payments {
		payments[i] = ToPaymentDTO(&inv.Payments[i])
	}
	return InvoiceDTO{
		ID:             inv.ID,
		CustomerID:     inv.CustomerID,
		CustomerName:   inv.CustomerName,
		Status:         inv.Status,
		SequenceNumber: inv.SequenceNumber,
		IssueDate:      isoDatePtr(inv.IssueDate),
		DueDate:        isoDatePtr(inv.DueDate),
		SentAt:         isoTimePtr(inv.SentAt),
		Subtotal:       inv.Subtotal,
		TotalVAT:       inv.TotalVAT,
		GrandTotal:     inv.GrandTotal,
		Balance:        inv.Balance,
		QuoteID:        inv.QuoteID,
		Notes:          inv.Notes,
		Items:          items,
		Payments:       payments,
		CreatedAt:      isoTime(inv.CreatedAt),
		UpdatedAt:      isoTime(inv.UpdatedAt),
	}
}

func ToQuoteDTO(q *Quote) QuoteDTO {
	items := make([]LineItemDTO, len(q.Items))
	for i, it := range q.Items {
		items[i] = LineItemDTO{
			ID:            it.ID,
			ProductID:     it.ProductID,
			Description:   it.Description,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
			VATRate:       it.VATRate,
			AmountExclVAT: it.AmountExclVAT,
			VATAmount:     it.VATAmount,
			GrossAmount:   it.GrossAmount,
		}
	}
	return QuoteDTO{
		ID:                 q.ID,
		CustomerID:         q.CustomerID,
		CustomerName:       q.CustomerName,
		Status:             q.Status,
		SequenceNumber:     q.SequenceNumber,
		ValidUntil:         isoDatePtr(q.ValidUntil),
		SentAt:             isoTimePtr(q.SentAt),
		Subtotal:           q.Subtotal,
		TotalVAT:           q.TotalVAT,
		GrandTotal:         q.GrandTotal,
		ConvertedInvoiceID: q.ConvertedInvoiceID,
		Notes:              q.Notes,
		Items:              items,
		CreatedAt:          isoTime(q.CreatedAt),
		UpdatedAt:          isoTime(q.UpdatedAt),
	}
}

func ToPurchaseOrderDTO(po *PurchaseOrder) PurchaseOrderDTO {
	items := make([]LineItemDTO, len(po.Items))
	for i, it := range po.Items {
		items[i] = LineItemDTO{
			ID:            it.ID,
			ProductID:     it.ProductID,
			Description:   it.Description,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
			VATRate:       it.VATRate,
			AmountExclVAT: it.AmountExclVAT,
			VATAmount:     it.VATAmount,
			GrossAmount:   it.GrossAmount,
		}
	}
	return PurchaseOrderDTO{
		ID:               po.ID,
		SupplierID:       po.SupplierID,
		SupplierName:     po.SupplierName,
		Status:           po.Status,
		SequenceNumber:   po.SequenceNumber,
		ExpectedDelivery: isoDatePtr(po.ExpectedDelivery),
		OrderedAt:        isoTimePtr(po.OrderedAt),
		ReceivedAt:       isoTimePtr(po.ReceivedAt),
		Subtotal:         po.Subtotal,
		TotalVAT:         po.TotalVAT,
		GrandTotal:       po.GrandTotal,
		Notes:            po.Notes,
		Items:            items,
		CreatedAt:        isoTime(po.CreatedAt),
		UpdatedAt:        isoTime(po.UpdatedAt),
	}
}

func ToTransactionDTO(t *Transaction) TransactionDTO {
	return TransactionDTO{
		ID:                  t.ID,
		Type:                t.Type,
		Source:              t.Source,
		Date:                isoDate(t.Date),
		Party:               t.Party,
		Description:         t.Description,
		AmountExclVAT:       t.AmountExclVAT,
		VATAmount:           t.VATAmount,
		GrossAmount:         t.GrossAmount,
		InvoiceID:           t.InvoiceID,
		PurchaseOrderID:     t.PurchaseOrderID,
		RecurringTemplateID: t.RecurringTemplateID,
		CreatedAt:           isoTime(t.CreatedAt),
	}
}

func ToRecurringTemplateDTO(rt *RecurringTemplate) RecurringTemplateDTO {
	return RecurringTemplateDTO{
		ID:          rt.ID,
		Name:        rt.Name,
		Type:        rt.Type,
		Party:       rt.Party,
		Amount:      rt.Amount,
		VATRate:     rt.VATRate,
		NextDueDate: isoDate(rt.NextDueDate),
		Frequency:   rt.Frequency,
		IsActive:    rt.IsActive,
		CreatedAt:   isoTime(rt.CreatedAt),
		UpdatedAt:   isoTime(rt.UpdatedAt),
	}
}

func ToActivityDTO(a *Activity) ActivityDTO {
	return ActivityDTO{
		ID:          a.ID,
		TargetType:  a.TargetType,
		TargetID:    a.TargetID,
		Title:       a.Title,
		Body:        a.Body,
		OccurredAt:  isoTime(a.OccurredAt),
		CreatorName: a.CreatorName,
	}
}

func ToFileDTO(f *File) FileDTO {
	return FileDTO{
		ID:          f.ID,
		Filename:    f.Filename,
		ContentType: f.ContentType,
		Size:        f.Size,
		InvoiceID:   f.InvoiceID,
		CreatedAt:   isoTime(f.CreatedAt),
	}
}

func ToUserDTO(u *User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CompanyID: u.CompanyID,
	}
}
