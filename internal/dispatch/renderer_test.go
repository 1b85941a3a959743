package dispatch

import (
	"strings"
	"testing"
	"time"

	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderInvoice(t *testing.T) {
	renderer, err := NewHTMLRenderer()
	require.NoError(t, err)

	issue := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	invoice := &domain.Invoice{
		SequenceNumber: 42,
		CustomerName:   "Kund AB",
		IssueDate:      &issue,
		DueDate:        &due,
		Subtotal:       decimal.RequireFromString("200"),
		TotalVAT:       decimal.RequireFromString("50"),
		GrandTotal:     decimal.RequireFromString("250"),
		Items: []domain.InvoiceItem{
			{
				Description:   "Konsulttimmar",
				Quantity:      decimal.RequireFromString("2"),
				UnitPrice:     decimal.RequireFromString("100"),
				VATRate:       domain.VATRateStandard,
				AmountExclVAT: decimal.RequireFromString("200"),
			},
		},
	}
	company := &domain.Company{
		Name:      "Fakturo AB",
		OrgNumber: "556000-0001",
		Currency:  "SEK",
	}

	out, err := renderer.RenderInvoice(invoice, company)
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "Faktura 42")
	assert.Contains(t, html, "Fakturo AB")
	assert.Contains(t, html, "Org.nr 556000-0001")
	assert.Contains(t, html, "Kund: Kund AB")
	assert.Contains(t, html, "Fakturadatum: 2026-08-01")
	assert.Contains(t, html, "2026-08-31")
	assert.Contains(t, html, "Konsulttimmar")
	assert.Contains(t, html, "200.00 SEK")
	assert.Contains(t, html, "50.00 SEK")
	assert.Contains(t, html, "250.00 SEK")
}

func TestRenderInvoiceEscapesCustomerInput(t *testing.T) {
	renderer, err := NewHTMLRenderer()
	require.NoError(t, err)

	invoice := &domain.Invoice{
		SequenceNumber: 1,
		CustomerName:   "<script>alert(1)</script>",
		Subtotal:       decimal.Zero,
		TotalVAT:       decimal.Zero,
		GrandTotal:     decimal.Zero,
	}
	company := &domain.Company{Name: "Fakturo AB", Currency: "SEK"}

	out, err := renderer.RenderInvoice(invoice, company)
	require.NoError(t, err)

	assert.False(t, strings.Contains(string(out), "<script>"))
	assert.Contains(t, string(out), "&lt;script&gt;")
}
