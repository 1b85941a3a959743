package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestIsValidVATRate(t *testing.T) {
	for _, rate := range []int{0, 6, 12, 25} {
		assert.True(t, IsValidVATRate(rate), "rate %d should be valid", rate)
	}
	for _, rate := range []int{-1, 1, 10, 20, 24, 100} {
		assert.False(t, IsValidVATRate(rate), "rate %d should be invalid", rate)
	}
}

func TestComputeLine(t *testing.T) {
	tests := []struct {
		name      string
		quantity  string
		unitPrice string
		vatRate   int
		wantExcl  string
		wantVAT   string
		wantGross string
	}{
		{"standard rate", "2", "100", 25, "200", "50", "250"},
		{"reduced rate", "1", "100", 12, "100", "12", "112"},
		{"zero rate", "3", "50", 0, "150", "0", "150"},
		{"fractional quantity", "1.5", "99.90", 25, "149.85", "37.4625", "187.3125"},
		{"zero quantity", "0", "100", 25, "0", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := ComputeLine(d(tt.quantity), d(tt.unitPrice), tt.vatRate)
			assert.True(t, d(tt.wantExcl).Equal(line.ExclVAT), "excl: got %s", line.ExclVAT)
			assert.True(t, d(tt.wantVAT).Equal(line.VAT), "vat: got %s", line.VAT)
			assert.True(t, d(tt.wantGross).Equal(line.Gross), "gross: got %s", line.Gross)
		})
	}
}

func TestComputeLineInvalidRateContributesZeroVAT(t *testing.T) {
	line := ComputeLine(d("2"), d("100"), 17)
	assert.True(t, d("200").Equal(line.ExclVAT))
	assert.True(t, line.VAT.IsZero())
	assert.True(t, d("200").Equal(line.Gross))
}

func TestAggregate(t *testing.T) {
	lines := []LineTotals{
		ComputeLine(d("2"), d("100"), 25),
		ComputeLine(d("1"), d("100"), 12),
		ComputeLine(d("4"), d("25"), 0),
	}

	totals := Aggregate(lines)

	assert.True(t, d("400").Equal(totals.Subtotal), "subtotal: got %s", totals.Subtotal)
	assert.True(t, d("62").Equal(totals.TotalVAT), "vat: got %s", totals.TotalVAT)
	assert.True(t, d("462").Equal(totals.GrandTotal), "grand: got %s", totals.GrandTotal)
	assert.True(t, totals.Subtotal.Add(totals.TotalVAT).Equal(totals.GrandTotal))
}

func TestAggregateEmpty(t *testing.T) {
	totals := Aggregate(nil)
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.TotalVAT.IsZero())
	assert.True(t, totals.GrandTotal.IsZero())
}

func TestProrate(t *testing.T) {
	// Invoice: 200 excl, 50 VAT, 250 gross. A payment of 100 splits in the
	// same 4:1 ratio.
	excl, vat := Prorate(d("100"), d("200"), d("250"))

	assert.True(t, d("80").Equal(excl), "excl: got %s", excl)
	assert.True(t, d("20").Equal(vat), "vat: got %s", vat)
}

func TestProrateComponentsSumToAmount(t *testing.T) {
	// Awkward ratio: the VAT component comes from subtraction so the two
	// parts always reconstruct the paid amount exactly.
	amount := d("33.33")
	excl, vat := Prorate(amount, d("137.41"), d("171.76"))

	assert.True(t, excl.Add(vat).Equal(amount), "sum: got %s", excl.Add(vat))
}

func TestProrateFullPayment(t *testing.T) {
	excl, vat := Prorate(d("250"), d("200"), d("250"))
	assert.True(t, d("200").Equal(excl))
	assert.True(t, d("50").Equal(vat))
}

func TestProrateZeroGrandTotal(t *testing.T) {
	excl, vat := Prorate(d("10"), d("0"), d("0"))
	assert.True(t, d("10").Equal(excl))
	assert.True(t, vat.IsZero())
}

func TestFromGross(t *testing.T) {
	tests := []struct {
		name     string
		gross    string
		vatRate  int
		wantExcl string
		wantVAT  string
	}{
		{"standard rate", "125", 25, "100", "25"},
		{"reduced rate", "112", 12, "100", "12"},
		{"zero rate", "100", 0, "100", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			excl, vat := FromGross(d(tt.gross), tt.vatRate)
			assert.True(t, d(tt.wantExcl).Equal(excl), "excl: got %s", excl)
			assert.True(t, d(tt.wantVAT).Equal(vat), "vat: got %s", vat)
			assert.True(t, excl.Add(vat).Equal(d(tt.gross)))
		})
	}
}
