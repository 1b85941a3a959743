package domain

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusSent          InvoiceStatus = "sent"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
)

// IsValid checks if the InvoiceStatus is a valid enum value
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPartiallyPaid, InvoiceStatusPaid:
		return true
	}
	return false
}

// IsPosted reports whether the invoice has left draft and carries a
// sequence number
func (s InvoiceStatus) IsPosted() bool {
	return s.IsValid() && s != InvoiceStatusDraft
}

// invoiceTransitions maps each status to the statuses reachable from it.
// Payment application drives sent -> partially_paid -> paid; there is no
// way back to draft once posted.
var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft:         {InvoiceStatusSent},
	InvoiceStatusSent:          {InvoiceStatusPartiallyPaid, InvoiceStatusPaid},
	InvoiceStatusPartiallyPaid: {InvoiceStatusPaid},
	InvoiceStatusPaid:          {},
}

// CanTransition reports whether target is reachable from s
func (s InvoiceStatus) CanTransition(target InvoiceStatus) bool {
	for _, t := range invoiceTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// QuoteStatus represents the lifecycle state of a quote
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusDeclined QuoteStatus = "declined"
	QuoteStatusExpired  QuoteStatus = "expired"
)

// IsValid checks if the QuoteStatus is a valid enum value
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusDeclined, QuoteStatusExpired:
		return true
	}
	return false
}

// IsPosted reports whether the quote has left draft
func (s QuoteStatus) IsPosted() bool {
	return s.IsValid() && s != QuoteStatusDraft
}

var quoteTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteStatusDraft:    {QuoteStatusSent},
	QuoteStatusSent:     {QuoteStatusAccepted, QuoteStatusDeclined, QuoteStatusExpired},
	QuoteStatusAccepted: {},
	QuoteStatusDeclined: {},
	QuoteStatusExpired:  {},
}

// CanTransition reports whether target is reachable from s
func (s QuoteStatus) CanTransition(target QuoteStatus) bool {
	for _, t := range quoteTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// PurchaseOrderStatus represents the lifecycle state of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "draft"
	PurchaseOrderStatusOrdered   PurchaseOrderStatus = "ordered"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "received"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "cancelled"
)

// IsValid checks if the PurchaseOrderStatus is a valid enum value
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusOrdered, PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// IsPosted reports whether the purchase order has left draft
func (s PurchaseOrderStatus) IsPosted() bool {
	return s.IsValid() && s != PurchaseOrderStatusDraft
}

var purchaseOrderTransitions = map[PurchaseOrderStatus][]PurchaseOrderStatus{
	PurchaseOrderStatusDraft:     {PurchaseOrderStatusOrdered, PurchaseOrderStatusCancelled},
	PurchaseOrderStatusOrdered:   {PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled},
	PurchaseOrderStatusReceived:  {},
	PurchaseOrderStatusCancelled: {},
}

// CanTransition reports whether target is reachable from s
func (s PurchaseOrderStatus) CanTransition(target PurchaseOrderStatus) bool {
	for _, t := range purchaseOrderTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}
