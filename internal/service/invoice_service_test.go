package service_test

import (
	"testing"
	"time"

	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/fakturo-as/billing-api/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invoiceRequest(customerID *uuid.UUID, items ...domain.LineItemRequest) *domain.CreateInvoiceRequest {
	return &domain.CreateInvoiceRequest{
		CustomerID: customerID,
		Items:      items,
	}
}

func line(description, quantity, unitPrice string, rate domain.VATRate) domain.LineItemRequest {
	return domain.LineItemRequest{
		Description: description,
		Quantity:    d(quantity),
		UnitPrice:   d(unitPrice),
		VATRate:     rate,
	}
}

func TestInvoiceCreateComputesTotals(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t, "Kund AB")

	dto, err := f.invoices.Create(f.ctx, invoiceRequest(&customer.ID,
		line("Consulting", "2", "100", domain.VATRateStandard),
	))
	require.NoError(t, err)

	assert.Equal(t, domain.InvoiceStatusDraft, dto.Status)
	assert.Equal(t, 0, dto.SequenceNumber)
	assert.Equal(t, "Kund AB", dto.CustomerName)
	assert.True(t, d("200").Equal(dto.Subtotal), "subtotal: got %s", dto.Subtotal)
	assert.True(t, d("50").Equal(dto.TotalVAT), "vat: got %s", dto.TotalVAT)
	assert.True(t, d("250").Equal(dto.GrandTotal), "grand: got %s", dto.GrandTotal)
	assert.True(t, d("250").Equal(dto.Balance), "balance: got %s", dto.Balance)
	assert.Len(t, dto.Items, 1)
}

func TestInvoiceCreateRejectsInvalidVATRate(t *testing.T) {
	f := newFixture(t)

	_, err := f.invoices.Create(f.ctx, invoiceRequest(nil,
		domain.LineItemRequest{Description: "Odd", Quantity: d("1"), UnitPrice: d("100"), VATRate: domain.VATRate(19)},
	))
	assert.ErrorIs(t, err, service.ErrInvalidVATRate)
}

func TestInvoiceCreateRejectsNegativeQuantity(t *testing.T) {
	f := newFixture(t)

	_, err := f.invoices.Create(f.ctx, invoiceRequest(nil,
		line("Refund", "-1", "100", domain.VATRateStandard),
	))
	assert.ErrorIs(t, err, service.ErrInvalidAmount)
}

func TestInvoiceSendAssignsSequenceAndLocks(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t, "Kund AB")

	first, err := f.invoices.Create(f.ctx, invoiceRequest(&customer.ID,
		line("Work", "1", "100", domain.VATRateStandard)))
	require.NoError(t, err)
	second, err := f.invoices.Create(f.ctx, invoiceRequest(&customer.ID,
		line("More work", "1", "100", domain.VATRateStandard)))
	require.NoError(t, err)

	sent, err := f.invoices.Send(f.ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusSent, sent.Status)
	assert.Equal(t, 1, sent.SequenceNumber)
	assert.NotNil(t, sent.SentAt)

	sent, err = f.invoices.Send(f.ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, sent.SequenceNumber)

	// A posted invoice cannot be posted again
	_, err = f.invoices.Send(f.ctx, first.ID)
	assert.ErrorIs(t, err, service.ErrInvalidTransition)

	// Nor edited or deleted
	_, err = f.invoices.Update(f.ctx, first.ID, invoiceRequest(&customer.ID,
		line("Changed", "1", "1", domain.VATRateStandard)))
	assert.ErrorIs(t, err, service.ErrDocumentLocked)
	assert.ErrorIs(t, f.invoices.Delete(f.ctx, first.ID), service.ErrDocumentLocked)
}

func TestInvoiceSendGuards(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t, "Kund AB")

	empty, err := f.invoices.Create(f.ctx, invoiceRequest(&customer.ID))
	require.NoError(t, err)
	_, err = f.invoices.Send(f.ctx, empty.ID)
	assert.ErrorIs(t, err, service.ErrNoLineItems)

	anonymous, err := f.invoices.Create(f.ctx, invoiceRequest(nil,
		line("Work", "1", "100", domain.VATRateStandard)))
	require.NoError(t, err)
	_, err = f.invoices.Send(f.ctx, anonymous.ID)
	assert.ErrorIs(t, err, service.ErrMissingCounterparty)

	free, err := f.invoices.Create(f.ctx, invoiceRequest(&customer.ID,
		line("Gratis", "1", "0", domain.VATRateStandard)))
	require.NoError(t, err)
	_, err = f.invoices.Send(f.ctx, free.ID)
	assert.ErrorIs(t, err, service.ErrInvalidAmount)
}

func TestInvoiceSendDefaultsDueDate(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t, "Kund AB")
	issue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	req := invoiceRequest(&customer.ID, line("Work", "1", "100", domain.VATRateStandard))
	req.IssueDate = &issue
	dto, err := f.invoices.Create(f.ctx, req)
	require.NoError(t, err)
	require.Nil(t, dto.DueDate)

	sent, err := f.invoices.Send(f.ctx, dto.ID)
	require.NoError(t, err)
	require.NotNil(t, sent.DueDate)
	assert.Equal(t, "2026-03-31", *sent.DueDate)
}

func TestInvoiceSendDecrementsTrackedStock(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t, "Kund AB")
	tracked := f.seedProduct(t, "Widget", 10, true)
	untracked := f.seedProduct(t, "Service hour", 0, false)

	trackedLine := line("Widget", "3", "100", domain.VATRateStandard)
	trackedLine.ProductID = &tracked.ID
	untrackedLine := line("Service hour", "5", "100", domain.VATRateStandard)
	untrackedLine.ProductID = &untracked.ID

	dto, err := f.invoices.Create(f.ctx, invoiceRequest(&customer.ID, trackedLine, untrackedLine))
	require.NoError(t, err)

	_, err = f.invoices.Send(f.ctx, dto.ID)
	require.NoError(t, err)

	assert.Equal(t, 7, f.productStock(t, tracked.ID))
	assert.Equal(t, 0, f.productStock(t, untracked.ID))
}

func TestInvoiceApplyPaymentLifecycle(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t, "Kund AB")

	dto, err := f.invoices.Create(f.ctx, invoiceRequest(&customer.ID,
		line("Work", "2", "100", domain.VATRateStandard)))
	require.NoError(t, err)
	dto, err = f.invoices.Send(f.ctx, dto.ID)
	require.NoError(t, err)

	// Partial payment moves status and balance
	dto, err = f.invoices.ApplyPayment(f.ctx, dto.ID, &domain.ApplyPaymentRequest{Amount: d("100")})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPartiallyPaid, dto.Status)
	assert.True(t, d("150").Equal(dto.Balance), "balance: got %s", dto.Balance)

	// The matching income record carries the prorated VAT split
	var records []domain.Transaction
	require.NoError(t, f.db.Where("invoice_id = ?", dto.ID).Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, domain.TransactionTypeIncome, records[0].Type)
	assert.Equal(t, domain.TransactionSourceInvoicePayment, records[0].Source)
	assert.True(t, d("80").Equal(records[0].AmountExclVAT), "excl: got %s", records[0].AmountExclVAT)
	assert.True(t, d("20").Equal(records[0].VATAmount), "vat: got %s", records[0].VATAmount)
	assert.True(t, d("100").Equal(records[0].GrossAmount))
	assert.NotNil(t, records[0].PaymentID)

	// Settling the remainder marks the invoice paid
	dto, err = f.invoices.ApplyPayment(f.ctx, dto.ID, &domain.ApplyPaymentRequest{Amount: d("150")})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, dto.Status)
	assert.True(t, dto.Balance.IsZero())

	// Paid invoices accept no further payments
	_, err = f.invoices.ApplyPayment(f.ctx, dto.ID, &domain.ApplyPaymentRequest{Amount: d("1")})
	assert.ErrorIs(t, err, service.ErrInvalidTransition)

	payments, err := f.invoices.ListPayments(f.ctx, dto.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}

func TestInvoiceApplyPaymentGuards(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t, "Kund AB")

	draft, err := f.invoices.Create(f.ctx, invoiceRequest(&customer.ID,
		line("Work", "1", "100", domain.VATRateStandard)))
	require.NoError(t, err)

	_, err = f.invoices.ApplyPayment(f.ctx, draft.ID, &domain.ApplyPaymentRequest{Amount: d("50")})
	assert.ErrorIs(t, err, service.ErrInvalidTransition)

	sent, err := f.invoices.Send(f.ctx, draft.ID)
	require.NoError(t, err)

	_, err = f.invoices.ApplyPayment(f.ctx, sent.ID, &domain.ApplyPaymentRequest{Amount: d("0")})
	assert.ErrorIs(t, err, service.ErrInvalidAmount)

	_, err = f.invoices.ApplyPayment(f.ctx, sent.ID, &domain.ApplyPaymentRequest{Amount: d("-10")})
	assert.ErrorIs(t, err, service.ErrInvalidAmount)

	_, err = f.invoices.ApplyPayment(f.ctx, sent.ID, &domain.ApplyPaymentRequest{Amount: d("125.01")})
	assert.ErrorIs(t, err, service.ErrPaymentExceedsBalance)

	// Guard failures leave the invoice untouched
	reloaded, err := f.invoices.GetByID(f.ctx, sent.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusSent, reloaded.Status)
	assert.True(t, d("125").Equal(reloaded.Balance))
}

func TestInvoicePaymentsPreserveBalanceInvariant(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t, "Kund AB")

	dto, err := f.invoices.Create(f.ctx, invoiceRequest(&customer.ID,
		line("Work", "2", "100", domain.VATRateStandard)))
	require.NoError(t, err)
	dto, err = f.invoices.Send(f.ctx, dto.ID)
	require.NoError(t, err)

	for _, amount := range []string{"60", "40", "100"} {
		_, err = f.invoices.ApplyPayment(f.ctx, dto.ID, &domain.ApplyPaymentRequest{Amount: d(amount)})
		require.NoError(t, err)
	}

	// The stored balance is moved relative to what the database holds, not
	// to what the request read, so it always equals grand total minus the
	// recorded payments.
	var invoice domain.Invoice
	require.NoError(t, f.db.First(&invoice, "id = ?", dto.ID).Error)
	var payments []domain.InvoicePayment
	require.NoError(t, f.db.Where("invoice_id = ?", dto.ID).Find(&payments).Error)

	paidTotal := d("0")
	for _, p := range payments {
		paidTotal = paidTotal.Add(p.Amount)
	}
	assert.True(t, invoice.GrandTotal.Sub(paidTotal).Equal(invoice.Balance),
		"balance %s != grand total %s - payments %s", invoice.Balance, invoice.GrandTotal, paidTotal)
	assert.True(t, d("50").Equal(invoice.Balance))
	assert.Equal(t, domain.InvoiceStatusPartiallyPaid, invoice.Status)

	// A payment that outruns the remaining balance is refused by the guarded
	// update and leaves no payment or ledger rows behind.
	_, err = f.invoices.ApplyPayment(f.ctx, dto.ID, &domain.ApplyPaymentRequest{Amount: d("50.01")})
	assert.ErrorIs(t, err, service.ErrPaymentExceedsBalance)

	require.NoError(t, f.db.First(&invoice, "id = ?", dto.ID).Error)
	assert.True(t, d("50").Equal(invoice.Balance))

	var paymentCount, recordCount int64
	require.NoError(t, f.db.Model(&domain.InvoicePayment{}).Where("invoice_id = ?", dto.ID).Count(&paymentCount).Error)
	require.NoError(t, f.db.Model(&domain.Transaction{}).Where("invoice_id = ?", dto.ID).Count(&recordCount).Error)
	assert.EqualValues(t, 3, paymentCount)
	assert.EqualValues(t, 3, recordCount)
}

func TestInvoiceUpdateReplacesItems(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t, "Kund AB")

	dto, err := f.invoices.Create(f.ctx, invoiceRequest(&customer.ID,
		line("Work", "1", "100", domain.VATRateStandard)))
	require.NoError(t, err)

	updated, err := f.invoices.Update(f.ctx, dto.ID, invoiceRequest(&customer.ID,
		line("Work", "1", "100", domain.VATRateStandard),
		line("Travel", "1", "50", domain.VATRateReduced6),
	))
	require.NoError(t, err)

	assert.Len(t, updated.Items, 2)
	assert.True(t, d("150").Equal(updated.Subtotal), "subtotal: got %s", updated.Subtotal)
	assert.True(t, d("28").Equal(updated.TotalVAT), "vat: got %s", updated.TotalVAT)
	assert.True(t, d("178").Equal(updated.GrandTotal))
}

func TestInvoiceSendByEmailRequiresPosted(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t, "Kund AB")

	draft, err := f.invoices.Create(f.ctx, invoiceRequest(&customer.ID,
		line("Work", "1", "100", domain.VATRateStandard)))
	require.NoError(t, err)

	req := &domain.SendInvoiceEmailRequest{Recipient: "kund@example.se"}
	_, err = f.invoices.SendByEmail(f.ctx, draft.ID, req)
	assert.ErrorIs(t, err, service.ErrNotPosted)

	_, err = f.invoices.Send(f.ctx, draft.ID)
	require.NoError(t, err)

	file, err := f.invoices.SendByEmail(f.ctx, draft.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "invoice-1.html", file.Filename)
	assert.Equal(t, "text/html", file.ContentType)
	assert.Positive(t, file.Size)
}

func TestInvoiceDeleteDraft(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t, "Kund AB")

	dto, err := f.invoices.Create(f.ctx, invoiceRequest(&customer.ID,
		line("Work", "1", "100", domain.VATRateStandard)))
	require.NoError(t, err)

	require.NoError(t, f.invoices.Delete(f.ctx, dto.ID))

	_, err = f.invoices.GetByID(f.ctx, dto.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestInvoiceListFiltersByStatus(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t, "Kund AB")

	draft, err := f.invoices.Create(f.ctx, invoiceRequest(&customer.ID,
		line("Work", "1", "100", domain.VATRateStandard)))
	require.NoError(t, err)
	posted, err := f.invoices.Create(f.ctx, invoiceRequest(&customer.ID,
		line("Work", "1", "100", domain.VATRateStandard)))
	require.NoError(t, err)
	_, err = f.invoices.Send(f.ctx, posted.ID)
	require.NoError(t, err)

	all, total, err := f.invoices.List(f.ctx, 1, 20, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)

	drafts, total, err := f.invoices.List(f.ctx, 1, 20, domain.InvoiceStatusDraft)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, drafts, 1)
	assert.Equal(t, draft.ID, drafts[0].ID)
}
