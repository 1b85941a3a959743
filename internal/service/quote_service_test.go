package service_test

import (
	"testing"

	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/fakturo-as/billing-api/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quoteRequest(customerID *uuid.UUID, items ...domain.LineItemRequest) *domain.CreateQuoteRequest {
	return &domain.CreateQuoteRequest{
		CustomerID: customerID,
		Items:      items,
	}
}

func (f *fixture) acceptedQuote(t *testing.T, customerID uuid.UUID) *domain.QuoteDTO {
	t.Helper()

	dto, err := f.quotes.Create(f.ctx, quoteRequest(&customerID,
		line("Project", "2", "100", domain.VATRateStandard)))
	require.NoError(t, err)
	_, err = f.quotes.Send(f.ctx, dto.ID)
	require.NoError(t, err)
	dto, err = f.quotes.SetStatus(f.ctx, dto.ID, domain.QuoteStatusAccepted)
	require.NoError(t, err)
	return dto
}

func TestQuoteSendAssignsOwnSequence(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t, "Kund AB")

	quote, err := f.quotes.Create(f.ctx, quoteRequest(&customer.ID,
		line("Project", "1", "100", domain.VATRateStandard)))
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusDraft, quote.Status)
	assert.Equal(t, 0, quote.SequenceNumber)

	// Invoice numbering does not interfere with quote numbering
	invoice, err := f.invoices.Create(f.ctx, invoiceRequest(&customer.ID,
		line("Work", "1", "100", domain.VATRateStandard)))
	require.NoError(t, err)
	_, err = f.invoices.Send(f.ctx, invoice.ID)
	require.NoError(t, err)

	sent, err := f.quotes.Send(f.ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusSent, sent.Status)
	assert.Equal(t, 1, sent.SequenceNumber)
}

func TestQuoteStatusTransitionsEnforced(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t, "Kund AB")

	quote, err := f.quotes.Create(f.ctx, quoteRequest(&customer.ID,
		line("Project", "1", "100", domain.VATRateStandard)))
	require.NoError(t, err)

	// Draft cannot be accepted directly
	_, err = f.quotes.SetStatus(f.ctx, quote.ID, domain.QuoteStatusAccepted)
	assert.ErrorIs(t, err, service.ErrInvalidTransition)

	_, err = f.quotes.Send(f.ctx, quote.ID)
	require.NoError(t, err)

	declined, err := f.quotes.SetStatus(f.ctx, quote.ID, domain.QuoteStatusDeclined)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusDeclined, declined.Status)

	// Declined is terminal
	_, err = f.quotes.SetStatus(f.ctx, quote.ID, domain.QuoteStatusAccepted)
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestQuoteConvertCreatesDraftInvoice(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t, "Kund AB")
	quote := f.acceptedQuote(t, customer.ID)

	invoice, err := f.quotes.Convert(f.ctx, quote.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.InvoiceStatusDraft, invoice.Status)
	assert.Equal(t, 0, invoice.SequenceNumber)
	require.NotNil(t, invoice.QuoteID)
	assert.Equal(t, quote.ID, *invoice.QuoteID)
	assert.Equal(t, "Kund AB", invoice.CustomerName)
	assert.True(t, d("200").Equal(invoice.Subtotal), "subtotal: got %s", invoice.Subtotal)
	assert.True(t, d("50").Equal(invoice.TotalVAT))
	assert.True(t, d("250").Equal(invoice.GrandTotal))
	assert.True(t, d("250").Equal(invoice.Balance))
	assert.Len(t, invoice.Items, 1)

	// The quote records its conversion target
	reloaded, err := f.quotes.GetByID(f.ctx, quote.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.ConvertedInvoiceID)
	assert.Equal(t, invoice.ID, *reloaded.ConvertedInvoiceID)
}

func TestQuoteConvertRequiresAccepted(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t, "Kund AB")

	quote, err := f.quotes.Create(f.ctx, quoteRequest(&customer.ID,
		line("Project", "1", "100", domain.VATRateStandard)))
	require.NoError(t, err)

	_, err = f.quotes.Convert(f.ctx, quote.ID)
	assert.ErrorIs(t, err, service.ErrQuoteNotAccepted)

	_, err = f.quotes.Send(f.ctx, quote.ID)
	require.NoError(t, err)
	_, err = f.quotes.Convert(f.ctx, quote.ID)
	assert.ErrorIs(t, err, service.ErrQuoteNotAccepted)
}

func TestQuoteConvertIsOneShot(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t, "Kund AB")
	quote := f.acceptedQuote(t, customer.ID)

	_, err := f.quotes.Convert(f.ctx, quote.ID)
	require.NoError(t, err)

	_, err = f.quotes.Convert(f.ctx, quote.ID)
	assert.ErrorIs(t, err, service.ErrQuoteAlreadyConverted)

	// The second attempt created nothing
	var count int64
	require.NoError(t, f.db.Model(&domain.Invoice{}).Where("quote_id = ?", quote.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestQuoteUpdateLockedAfterSend(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t, "Kund AB")

	quote, err := f.quotes.Create(f.ctx, quoteRequest(&customer.ID,
		line("Project", "1", "100", domain.VATRateStandard)))
	require.NoError(t, err)
	_, err = f.quotes.Send(f.ctx, quote.ID)
	require.NoError(t, err)

	_, err = f.quotes.Update(f.ctx, quote.ID, quoteRequest(&customer.ID,
		line("Changed", "1", "1", domain.VATRateStandard)))
	assert.ErrorIs(t, err, service.ErrDocumentLocked)
	assert.ErrorIs(t, f.quotes.Delete(f.ctx, quote.ID), service.ErrDocumentLocked)
}
