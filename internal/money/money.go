// Package money implements the VAT and line-item arithmetic shared by
// invoices, quotes and purchase orders. All amounts are decimal magnitudes
// in the company's currency; rounding happens at the presentation layer,
// never here, so that subtotal + totalVat == grandTotal always holds exactly.
package money

import "github.com/shopspring/decimal"

// ValidVATRates is the closed set of VAT percentages the application accepts.
var ValidVATRates = []int{0, 6, 12, 25}

// IsValidVATRate reports whether rate is one of the accepted VAT percentages.
func IsValidVATRate(rate int) bool {
	for _, r := range ValidVATRates {
		if rate == r {
			return true
		}
	}
	return false
}

// VATPercent returns the VAT percentage as a decimal fraction (25 -> 0.25).
// An unrecognized rate contributes zero VAT; callers validate rates at the
// input boundary, this keeps historical rows readable no matter what.
func VATPercent(rate int) decimal.Decimal {
	if !IsValidVATRate(rate) {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(rate)).Div(decimal.NewFromInt(100))
}

// LineTotals holds the derived amounts for a single line item.
type LineTotals struct {
	ExclVAT decimal.Decimal
	VAT     decimal.Decimal
	Gross   decimal.Decimal
}

// Totals holds the aggregated amounts for a document.
type Totals struct {
	Subtotal   decimal.Decimal
	TotalVAT   decimal.Decimal
	GrandTotal decimal.Decimal
}

// ComputeLine derives the excl-VAT, VAT and gross amounts for one line.
// Negative quantities or prices are arithmetically valid here; the API
// layer rejects them before they reach this point.
func ComputeLine(quantity, unitPrice decimal.Decimal, vatRate int) LineTotals {
	excl := quantity.Mul(unitPrice)
	vat := excl.Mul(VATPercent(vatRate))
	return LineTotals{
		ExclVAT: excl,
		VAT:     vat,
		Gross:   excl.Add(vat),
	}
}

// Aggregate sums line totals into document totals.
func Aggregate(lines []LineTotals) Totals {
	t := Totals{
		Subtotal:   decimal.Zero,
		TotalVAT:   decimal.Zero,
		GrandTotal: decimal.Zero,
	}
	for _, l := range lines {
		t.Subtotal = t.Subtotal.Add(l.ExclVAT)
		t.TotalVAT = t.TotalVAT.Add(l.VAT)
		t.GrandTotal = t.GrandTotal.Add(l.Gross)
	}
	return t
}

// Prorate splits a payment amount into excl-VAT and VAT components in the
// same ratio as the invoice totals, preserving the invoice's VAT rate mix
// across partial payments. The VAT component is derived by subtraction so
// that exclVAT + vat == amount exactly.
func Prorate(amount, subtotal, grandTotal decimal.Decimal) (exclVAT, vat decimal.Decimal) {
	if grandTotal.IsZero() {
		return amount, decimal.Zero
	}
	exclVAT = subtotal.Mul(amount).Div(grandTotal)
	vat = amount.Sub(exclVAT)
	return exclVAT, vat
}

// FromGross back-computes the excl-VAT and VAT components of a gross amount
// at the given rate. Used for recurring expense records, which store a gross
// amount only.
func FromGross(gross decimal.Decimal, vatRate int) (exclVAT, vat decimal.Decimal) {
	divisor := decimal.NewFromInt(1).Add(VATPercent(vatRate))
	exclVAT = gross.Div(divisor)
	vat = gross.Sub(exclVAT)
	return exclVAT, vat
}
