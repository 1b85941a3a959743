package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the primary key so IDs are generated the same way
// on Postgres and on the sqlite driver used in tests.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// VATRate is a VAT percentage. Only the Swedish rates 0, 6, 12 and 25 are
// accepted on input; stored rows keep whatever rate was valid at the time.
type VATRate int

const (
	VATRateZero      VATRate = 0
	VATRateReduced6  VATRate = 6
	VATRateReduced12 VATRate = 12
	VATRateStandard  VATRate = 25
)

// IsValid checks if the VATRate is a valid enum value
func (v VATRate) IsValid() bool {
	switch v {
	case VATRateZero, VATRateReduced6, VATRateReduced12, VATRateStandard:
		return true
	}
	return false
}

// Company represents a tenant: one small business using the system
type Company struct {
	BaseModel
	Name       string `gorm:"type:varchar(200);not null"`
	OrgNumber  string `gorm:"type:varchar(20);unique;column:org_number"`
	Email      string `gorm:"type:varchar(255)"`
	Phone      string `gorm:"type:varchar(50)"`
	Address    string `gorm:"type:varchar(500)"`
	City       string `gorm:"type:varchar(100)"`
	PostalCode string `gorm:"type:varchar(20);column:postal_code"`
	Country    string `gorm:"type:varchar(100);not null;default:'Sweden'"`
	Currency   string `gorm:"type:varchar(3);not null;default:'SEK'"`
	IsActive   bool   `gorm:"not null;default:true;column:is_active"`
}

// User represents a user account within a company
type User struct {
	BaseModel
	Email        string     `gorm:"type:varchar(255);not null;unique"`
	PasswordHash string     `gorm:"type:varchar(255);not null;column:password_hash"`
	Name         string     `gorm:"type:varchar(200);not null"`
	CompanyID    uuid.UUID  `gorm:"type:uuid;not null;index;column:company_id"`
	Company      *Company   `gorm:"foreignKey:CompanyID"`
	IsActive     bool       `gorm:"not null;default:true;column:is_active"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
}

// Customer represents a party invoices and quotes are addressed to
type Customer struct {
	BaseModel
	CompanyID     uuid.UUID `gorm:"type:uuid;not null;index;column:company_id"`
	Name          string    `gorm:"type:varchar(200);not null;index"`
	OrgNumber     string    `gorm:"type:varchar(20);column:org_number"`
	Email         string    `gorm:"type:varchar(255)"`
	Phone         string    `gorm:"type:varchar(50)"`
	Address       string    `gorm:"type:varchar(500)"`
	City          string    `gorm:"type:varchar(100)"`
	PostalCode    string    `gorm:"type:varchar(20);column:postal_code"`
	Country       string    `gorm:"type:varchar(100);not null;default:'Sweden'"`
	ContactPerson string    `gorm:"type:varchar(200);column:contact_person"`
	ERPReference  string    `gorm:"type:varchar(100);column:erp_reference;index"`
	Notes         string    `gorm:"type:text"`
	IsActive      bool      `gorm:"not null;default:true;column:is_active"`
}

// Supplier represents a party purchase orders are placed with
type Supplier struct {
	BaseModel
	CompanyID     uuid.UUID `gorm:"type:uuid;not null;index;column:company_id"`
	Name          string    `gorm:"type:varchar(200);not null;index"`
	OrgNumber     string    `gorm:"type:varchar(20);column:org_number"`
	Email         string    `gorm:"type:varchar(255)"`
	Phone         string    `gorm:"type:varchar(50)"`
	Address       string    `gorm:"type:varchar(500)"`
	City          string    `gorm:"type:varchar(100)"`
	PostalCode    string    `gorm:"type:varchar(20);column:postal_code"`
	Country       string    `gorm:"type:varchar(100);not null;default:'Sweden'"`
	ContactPerson string    `gorm:"type:varchar(200);column:contact_person"`
	ERPReference  string    `gorm:"type:varchar(100);column:erp_reference;index"`
	Notes         string    `gorm:"type:text"`
	IsActive      bool      `gorm:"not null;default:true;column:is_active"`
}

// Product represents a catalog item with a tracked stock level.
// Stock is a signed count: selling beyond inventory drives it negative,
// which the API surfaces but never blocks.
type Product struct {
	BaseModel
	CompanyID     uuid.UUID       `gorm:"type:uuid;not null;index;column:company_id"`
	Name          string          `gorm:"type:varchar(200);not null;index"`
	SKU           string          `gorm:"type:varchar(100);column:sku;index"`
	Description   string          `gorm:"type:text"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0;column:unit_price"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0;column:purchase_price"`
	VATRate       VATRate         `gorm:"type:int;not null;default:25;column:vat_rate"`
	Unit          string          `gorm:"type:varchar(50)"`
	Stock         int             `gorm:"not null;default:0"`
	TrackStock    bool            `gorm:"not null;default:true;column:track_stock"`
	SupplierID    *uuid.UUID      `gorm:"type:uuid;index;column:supplier_id"`
	Supplier      *Supplier       `gorm:"foreignKey:SupplierID"`
	ERPReference  string          `gorm:"type:varchar(100);column:erp_reference;index"`
	IsActive      bool            `gorm:"not null;default:true;column:is_active"`
}

// Invoice represents an outgoing invoice. Totals are derived from the items
// and recomputed on every item change, never edited directly. SequenceNumber
// is zero until the invoice is posted.
type Invoice struct {
	BaseModel
	CompanyID      uuid.UUID        `gorm:"type:uuid;not null;index;column:company_id"`
	CustomerID     *uuid.UUID       `gorm:"type:uuid;index;column:customer_id"`
	Customer       *Customer        `gorm:"foreignKey:CustomerID"`
	CustomerName   string           `gorm:"type:varchar(200);column:customer_name"`
	Status         InvoiceStatus    `gorm:"type:varchar(50);not null;default:'draft';index"`
	SequenceNumber int              `gorm:"not null;default:0;column:sequence_number"`
	IssueDate      *time.Time       `gorm:"type:date;column:issue_date"`
	DueDate        *time.Time       `gorm:"type:date;column:due_date"`
	SentAt         *time.Time       `gorm:"column:sent_at"`
	Subtotal       decimal.Decimal  `gorm:"type:decimal(15,4);not null;default:0"`
	TotalVAT       decimal.Decimal  `gorm:"type:decimal(15,4);not null;default:0;column:total_vat"`
	GrandTotal     decimal.Decimal  `gorm:"type:decimal(15,4);not null;default:0;column:grand_total"`
	Balance        decimal.Decimal  `gorm:"type:decimal(15,4);not null;default:0"`
	QuoteID        *uuid.UUID       `gorm:"type:uuid;index;column:quote_id"`
	Notes          string           `gorm:"type:text"`
	Items          []InvoiceItem    `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Payments       []InvoicePayment `gorm:"foreignKey:InvoiceID"`
	Files          []File           `gorm:"foreignKey:InvoiceID"`
}

// InvoiceItem is a line on an invoice. The amount columns are derived from
// quantity, unit price and VAT rate when the line is written.
type InvoiceItem struct {
	BaseModel
	InvoiceID     uuid.UUID       `gorm:"type:uuid;not null;index;column:invoice_id"`
	ProductID     *uuid.UUID      `gorm:"type:uuid;index;column:product_id"`
	Product       *Product        `gorm:"foreignKey:ProductID"`
	Description   string          `gorm:"type:varchar(500);not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(15,4);not null;column:unit_price"`
	VATRate       VATRate         `gorm:"type:int;not null;column:vat_rate"`
	AmountExclVAT decimal.Decimal `gorm:"type:decimal(15,4);not null;column:amount_excl_vat"`
	VATAmount     decimal.Decimal `gorm:"type:decimal(15,4);not null;column:vat_amount"`
	GrossAmount   decimal.Decimal `gorm:"type:decimal(15,4);not null;column:gross_amount"`
}

// InvoicePayment records money received against a posted invoice.
// Payments are append-only; corrections are made with a new payment row.
type InvoicePayment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index;column:invoice_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	PaidAt    time.Time       `gorm:"type:date;not null;column:paid_at"`
	Method    string          `gorm:"type:varchar(50)"`
	Note      string          `gorm:"type:varchar(500)"`
	CreatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the payment ID (payments have no UpdatedAt, so they
// do not embed BaseModel).
func (p *InvoicePayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Quote represents a price quote that can be converted into an invoice once
type Quote struct {
	BaseModel
	CompanyID          uuid.UUID       `gorm:"type:uuid;not null;index;column:company_id"`
	CustomerID         *uuid.UUID      `gorm:"type:uuid;index;column:customer_id"`
	Customer           *Customer       `gorm:"foreignKey:CustomerID"`
	CustomerName       string          `gorm:"type:varchar(200);column:customer_name"`
	Status             QuoteStatus     `gorm:"type:varchar(50);not null;default:'draft';index"`
	SequenceNumber     int             `gorm:"not null;default:0;column:sequence_number"`
	ValidUntil         *time.Time      `gorm:"type:date;column:valid_until"`
	SentAt             *time.Time      `gorm:"column:sent_at"`
	Subtotal           decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	TotalVAT           decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0;column:total_vat"`
	GrandTotal         decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0;column:grand_total"`
	ConvertedInvoiceID *uuid.UUID      `gorm:"type:uuid;column:converted_invoice_id"`
	Notes              string          `gorm:"type:text"`
	Items              []QuoteItem     `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
}

// QuoteItem is a line on a quote
type QuoteItem struct {
	BaseModel
	QuoteID       uuid.UUID       `gorm:"type:uuid;not null;index;column:quote_id"`
	ProductID     *uuid.UUID      `gorm:"type:uuid;index;column:product_id"`
	Description   string          `gorm:"type:varchar(500);not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(15,4);not null;column:unit_price"`
	VATRate       VATRate         `gorm:"type:int;not null;column:vat_rate"`
	AmountExclVAT decimal.Decimal `gorm:"type:decimal(15,4);not null;column:amount_excl_vat"`
	VATAmount     decimal.Decimal `gorm:"type:decimal(15,4);not null;column:vat_amount"`
	GrossAmount   decimal.Decimal `gorm:"type:decimal(15,4);not null;column:gross_amount"`
}

// PurchaseOrder represents an order placed with a supplier
type PurchaseOrder struct {
	BaseModel
	CompanyID        uuid.UUID           `gorm:"type:uuid;not null;index;column:company_id"`
	SupplierID       *uuid.UUID          `gorm:"type:uuid;index;column:supplier_id"`
	Supplier         *Supplier           `gorm:"foreignKey:SupplierID"`
	SupplierName     string              `gorm:"type:varchar(200);column:supplier_name"`
	Status           PurchaseOrderStatus `gorm:"type:varchar(50);not null;default:'draft';index"`
	SequenceNumber   int                 `gorm:"not null;default:0;column:sequence_number"`
	ExpectedDelivery *time.Time          `gorm:"type:date;column:expected_delivery"`
	OrderedAt        *time.Time          `gorm:"column:ordered_at"`
	ReceivedAt       *time.Time          `gorm:"column:received_at"`
	Subtotal         decimal.Decimal     `gorm:"type:decimal(15,4);not null;default:0"`
	TotalVAT         decimal.Decimal     `gorm:"type:decimal(15,4);not null;default:0;column:total_vat"`
	GrandTotal       decimal.Decimal     `gorm:"type:decimal(15,4);not null;default:0;column:grand_total"`
	Notes            string              `gorm:"type:text"`
	Items            []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE"`
}

// PurchaseOrderItem is a line on a purchase order; unit price is the
// purchase price agreed with the supplier
type PurchaseOrderItem struct {
	BaseModel
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index;column:purchase_order_id"`
	ProductID       *uuid.UUID      `gorm:"type:uuid;index;column:product_id"`
	Product         *Product        `gorm:"foreignKey:ProductID"`
	Description     string          `gorm:"type:varchar(500);not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(15,4);not null;column:unit_price"`
	VATRate         VATRate         `gorm:"type:int;not null;column:vat_rate"`
	AmountExclVAT   decimal.Decimal `gorm:"type:decimal(15,4);not null;column:amount_excl_vat"`
	VATAmount       decimal.Decimal `gorm:"type:decimal(15,4);not null;column:vat_amount"`
	GrossAmount     decimal.Decimal `gorm:"type:decimal(15,4);not null;column:gross_amount"`
}

// TransactionType represents the direction of a ledger entry
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// IsValid checks if the TransactionType is a valid enum value
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense:
		return true
	}
	return false
}

// TransactionSource represents what produced a ledger entry
type TransactionSource string

const (
	TransactionSourceInvoicePayment TransactionSource = "invoice_payment"
	TransactionSourcePurchaseOrder  TransactionSource = "purchase_order"
	TransactionSourceRecurring      TransactionSource = "recurring"
	TransactionSourceManual         TransactionSource = "manual"
)

// IsValid checks if the TransactionSource is a valid enum value
func (s TransactionSource) IsValid() bool {
	switch s {
	case TransactionSourceInvoicePayment, TransactionSourcePurchaseOrder,
		TransactionSourceRecurring, TransactionSourceManual:
		return true
	}
	return false
}

// Transaction is an income/expense ledger entry. Rows are written by the
// document services (payments, receipts, recurring runs) or entered manually;
// they are never mutated afterwards.
type Transaction struct {
	BaseModel
	CompanyID           uuid.UUID         `gorm:"type:uuid;not null;index;column:company_id"`
	Type                TransactionType   `gorm:"type:varchar(20);not null;index"`
	Source              TransactionSource `gorm:"type:varchar(50);not null;index"`
	Date                time.Time         `gorm:"type:date;not null;index"`
	Party               string            `gorm:"type:varchar(200)"`
	Description         string            `gorm:"type:varchar(500)"`
	AmountExclVAT       decimal.Decimal   `gorm:"type:decimal(15,4);not null;column:amount_excl_vat"`
	VATAmount           decimal.Decimal   `gorm:"type:decimal(15,4);not null;column:vat_amount"`
	GrossAmount         decimal.Decimal   `gorm:"type:decimal(15,4);not null;column:gross_amount"`
	InvoiceID           *uuid.UUID        `gorm:"type:uuid;index;column:invoice_id"`
	PaymentID           *uuid.UUID        `gorm:"type:uuid;column:payment_id"`
	PurchaseOrderID     *uuid.UUID        `gorm:"type:uuid;index;column:purchase_order_id"`
	RecurringTemplateID *uuid.UUID        `gorm:"type:uuid;index;column:recurring_template_id"`
}

// RecurrenceFrequency represents how often a recurring template fires
type RecurrenceFrequency string

const (
	RecurrenceMonthly RecurrenceFrequency = "monthly"
)

// IsValid checks if the RecurrenceFrequency is a valid enum value
func (f RecurrenceFrequency) IsValid() bool {
	return f == RecurrenceMonthly
}

// RecurringTemplate describes a transaction the materializer creates on a
// schedule (rent, subscriptions, retainers). Amount is the gross amount;
// NextDueDate advances one period per materialized record, from its prior
// value rather than from the run date. VATRate is fixed by type at creation
// (25% for expenses, 0 for income), never set by the caller.
type RecurringTemplate struct {
	BaseModel
	CompanyID   uuid.UUID           `gorm:"type:uuid;not null;index;column:company_id"`
	Name        string              `gorm:"type:varchar(200);not null"`
	Type        TransactionType     `gorm:"type:varchar(20);not null"`
	Party       string              `gorm:"type:varchar(200)"`
	Amount      decimal.Decimal     `gorm:"type:decimal(15,4);not null"`
	VATRate     VATRate             `gorm:"type:int;not null;default:0;column:vat_rate"`
	NextDueDate time.Time           `gorm:"type:date;not null;index;column:next_due_date"`
	Frequency   RecurrenceFrequency `gorm:"type:varchar(20);not null;default:'monthly'"`
	IsActive    bool                `gorm:"not null;default:true;column:is_active"`
}

// SequenceDocType identifies which per-company number sequence a document
// type draws from
type SequenceDocType string

const (
	SequenceDocTypeInvoice       SequenceDocType = "invoice"
	SequenceDocTypeQuote         SequenceDocType = "quote"
	SequenceDocTypePurchaseOrder SequenceDocType = "purchase_order"
)

// NumberSequence holds the last assigned document number per company and
// document type. Incremented atomically inside the posting transaction.
type NumberSequence struct {
	ID           uint            `gorm:"primaryKey"`
	CompanyID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_number_sequences_company_doc;column:company_id"`
	DocType      SequenceDocType `gorm:"type:varchar(50);not null;uniqueIndex:idx_number_sequences_company_doc;column:doc_type"`
	LastSequence int             `gorm:"not null;default:0;column:last_sequence"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// ActivityTargetType represents the type of entity an activity is associated with
type ActivityTargetType string

const (
	ActivityTargetInvoice       ActivityTargetType = "Invoice"
	ActivityTargetQuote         ActivityTargetType = "Quote"
	ActivityTargetPurchaseOrder ActivityTargetType = "PurchaseOrder"
	ActivityTargetRecurring     ActivityTargetType = "RecurringTemplate"
	ActivityTargetCustomer      ActivityTargetType = "Customer"
	ActivityTargetSupplier      ActivityTargetType = "Supplier"
	ActivityTargetProduct       ActivityTargetType = "Product"
)

func (t ActivityTargetType) IsValid() bool {
	switch t {
	case ActivityTargetInvoice, ActivityTargetQuote, ActivityTargetPurchaseOrder,
		ActivityTargetRecurring, ActivityTargetCustomer, ActivityTargetSupplier,
		ActivityTargetProduct:
		return true
	}
	return false
}

// Activity represents an event log entry for a document or registry entity
type Activity struct {
	BaseModel
	CompanyID   uuid.UUID          `gorm:"type:uuid;not null;index;column:company_id"`
	TargetType  ActivityTargetType `gorm:"type:varchar(50);not null;index;column:target_type"`
	TargetID    uuid.UUID          `gorm:"type:uuid;not null;index;column:target_id"`
	Title       string             `gorm:"type:varchar(200);not null"`
	Body        string             `gorm:"type:varchar(2000)"`
	OccurredAt  time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP;index;column:occurred_at"`
	CreatorID   string             `gorm:"type:varchar(100);column:creator_id"`
	CreatorName string             `gorm:"type:varchar(200);column:creator_name"`
}

// File represents a stored document, typically a rendered invoice
type File struct {
	BaseModel
	CompanyID   uuid.UUID  `gorm:"type:uuid;not null;index;column:company_id"`
	Filename    string     `gorm:"type:varchar(255);not null"`
	ContentType string     `gorm:"type:varchar(100);not null;column:content_type"`
	Size        int64      `gorm:"not null"`
	StoragePath string     `gorm:"type:varchar(500);not null;unique;column:storage_path"`
	InvoiceID   *uuid.UUID `gorm:"type:uuid;index;column:invoice_id"`
}
