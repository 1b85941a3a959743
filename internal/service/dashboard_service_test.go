package service_test

import (
	"testing"
	"time"

	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardMetrics(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t, "Kund AB")

	// Open invoice with 250 outstanding, due a year out
	open, err := f.invoices.Create(f.ctx, invoiceRequest(&customer.ID,
		line("Work", "2", "100", domain.VATRateStandard)))
	require.NoError(t, err)
	_, err = f.invoices.Send(f.ctx, open.ID)
	require.NoError(t, err)

	// Overdue invoice, partially paid down to 25
	past := time.Now().AddDate(0, -2, 0)
	dueReq := invoiceRequest(&customer.ID, line("Old work", "1", "100", domain.VATRateStandard))
	dueReq.IssueDate = &past
	overdue, err := f.invoices.Create(f.ctx, dueReq)
	require.NoError(t, err)
	_, err = f.invoices.Send(f.ctx, overdue.ID)
	require.NoError(t, err)
	_, err = f.invoices.ApplyPayment(f.ctx, overdue.ID, &domain.ApplyPaymentRequest{Amount: d("100")})
	require.NoError(t, err)

	// Settled invoice contributes nothing to receivables
	paid, err := f.invoices.Create(f.ctx, invoiceRequest(&customer.ID,
		line("Done", "1", "100", domain.VATRateStandard)))
	require.NoError(t, err)
	_, err = f.invoices.Send(f.ctx, paid.ID)
	require.NoError(t, err)
	_, err = f.invoices.ApplyPayment(f.ctx, paid.ID, &domain.ApplyPaymentRequest{Amount: d("125")})
	require.NoError(t, err)

	metrics, err := f.dashboard.GetMetrics(f.ctx)
	require.NoError(t, err)

	assert.True(t, d("275").Equal(metrics.OutstandingReceivables),
		"receivables: got %s", metrics.OutstandingReceivables)
	assert.EqualValues(t, 2, metrics.OpenInvoiceCount)
	assert.EqualValues(t, 1, metrics.OverdueInvoiceCount)

	// Both payments landed this month as income, net of VAT
	assert.True(t, d("180").Equal(metrics.MonthIncomeExclVAT),
		"income: got %s", metrics.MonthIncomeExclVAT)
	assert.True(t, metrics.MonthExpenseExclVAT.IsZero())
}
