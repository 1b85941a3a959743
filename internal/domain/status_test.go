package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceStatusTransitions(t *testing.T) {
	tests := []struct {
		from    InvoiceStatus
		to      InvoiceStatus
		allowed bool
	}{
		{InvoiceStatusDraft, InvoiceStatusSent, true},
		{InvoiceStatusSent, InvoiceStatusPartiallyPaid, true},
		{InvoiceStatusSent, InvoiceStatusPaid, true},
		{InvoiceStatusPartiallyPaid, InvoiceStatusPaid, true},

		{InvoiceStatusDraft, InvoiceStatusPaid, false},
		{InvoiceStatusDraft, InvoiceStatusPartiallyPaid, false},
		{InvoiceStatusSent, InvoiceStatusDraft, false},
		{InvoiceStatusPaid, InvoiceStatusSent, false},
		{InvoiceStatusPaid, InvoiceStatusDraft, false},
		{InvoiceStatusPartiallyPaid, InvoiceStatusDraft, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestInvoiceStatusIsPosted(t *testing.T) {
	assert.False(t, InvoiceStatusDraft.IsPosted())
	assert.True(t, InvoiceStatusSent.IsPosted())
	assert.True(t, InvoiceStatusPartiallyPaid.IsPosted())
	assert.True(t, InvoiceStatusPaid.IsPosted())
}

func TestQuoteStatusTransitions(t *testing.T) {
	tests := []struct {
		from    QuoteStatus
		to      QuoteStatus
		allowed bool
	}{
		{QuoteStatusDraft, QuoteStatusSent, true},
		{QuoteStatusSent, QuoteStatusAccepted, true},
		{QuoteStatusSent, QuoteStatusDeclined, true},
		{QuoteStatusSent, QuoteStatusExpired, true},

		{QuoteStatusDraft, QuoteStatusAccepted, false},
		{QuoteStatusAccepted, QuoteStatusDeclined, false},
		{QuoteStatusDeclined, QuoteStatusAccepted, false},
		{QuoteStatusExpired, QuoteStatusSent, false},
		{QuoteStatusSent, QuoteStatusDraft, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestPurchaseOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from    PurchaseOrderStatus
		to      PurchaseOrderStatus
		allowed bool
	}{
		{PurchaseOrderStatusDraft, PurchaseOrderStatusOrdered, true},
		{PurchaseOrderStatusDraft, PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatusOrdered, PurchaseOrderStatusReceived, true},
		{PurchaseOrderStatusOrdered, PurchaseOrderStatusCancelled, true},

		{PurchaseOrderStatusDraft, PurchaseOrderStatusReceived, false},
		{PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled, false},
		{PurchaseOrderStatusReceived, PurchaseOrderStatusOrdered, false},
		{PurchaseOrderStatusCancelled, PurchaseOrderStatusOrdered, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestStatusIsValid(t *testing.T) {
	assert.True(t, InvoiceStatusPartiallyPaid.IsValid())
	assert.False(t, InvoiceStatus("open").IsValid())

	assert.True(t, QuoteStatusExpired.IsValid())
	assert.False(t, QuoteStatus("won").IsValid())

	assert.True(t, PurchaseOrderStatusReceived.IsValid())
	assert.False(t, PurchaseOrderStatus("done").IsValid())
}

func TestVATRateIsValid(t *testing.T) {
	for _, r := range []VATRate{VATRateZero, VATRateReduced6, VATRateReduced12, VATRateStandard} {
		assert.True(t, r.IsValid())
	}
	assert.False(t, VATRate(19).IsValid())
}
