package service_test

import (
	"testing"
	"time"

	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/fakturo-as/billing-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func templateRequest(name string, due time.Time, amount string) *domain.CreateRecurringTemplateRequest {
	return &domain.CreateRecurringTemplateRequest{
		Name:        name,
		Type:        domain.TransactionTypeExpense,
		Party:       "Hyresvärden AB",
		Amount:      d(amount),
		NextDueDate: due,
	}
}

func TestRecurringCreateDefaults(t *testing.T) {
	f := newFixture(t)
	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	dto, err := f.recurring.Create(f.ctx, &domain.CreateRecurringTemplateRequest{
		Name:        "Office rent",
		Type:        domain.TransactionTypeExpense,
		Amount:      d("12500"),
		NextDueDate: due,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RecurrenceMonthly, dto.Frequency)
	assert.Equal(t, domain.VATRateStandard, dto.VATRate)
	assert.True(t, dto.IsActive)
	assert.Equal(t, "2026-09-01", dto.NextDueDate)
}

func TestRecurringCreateRejectsNonPositiveAmount(t *testing.T) {
	f := newFixture(t)

	_, err := f.recurring.Create(f.ctx, &domain.CreateRecurringTemplateRequest{
		Name:        "Broken",
		Type:        domain.TransactionTypeExpense,
		Amount:      d("0"),
		NextDueDate: time.Now(),
	})
	assert.ErrorIs(t, err, service.ErrInvalidAmount)
}

func TestMaterializeCreatesOneRecordPerDueTemplate(t *testing.T) {
	f := newFixture(t)
	due := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	today := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	_, err := f.recurring.Create(f.ctx, templateRequest("Office rent", due, "12500"))
	require.NoError(t, err)
	_, err = f.recurring.Create(f.ctx, templateRequest("Insurance", due, "1200"))
	require.NoError(t, err)
	// Not yet due
	_, err = f.recurring.Create(f.ctx, templateRequest("Leasing", today.AddDate(0, 1, 0), "3000"))
	require.NoError(t, err)

	result, err := f.recurring.Materialize(f.ctx, f.company.ID, today)
	require.NoError(t, err)
	assert.Equal(t, 2, result.CreatedCount)
	require.Len(t, result.Transactions, 2)

	// Records are dated on the due date, not the run date
	for _, tx := range result.Transactions {
		assert.Equal(t, domain.TransactionSourceRecurring, tx.Source)
		assert.Equal(t, "2026-08-01", tx.Date[:10])
	}

	// Gross amounts split back into net and VAT
	var rent domain.Transaction
	require.NoError(t, f.db.Where("description = ?", "Office rent").First(&rent).Error)
	assert.True(t, d("10000").Equal(rent.AmountExclVAT), "excl: got %s", rent.AmountExclVAT)
	assert.True(t, d("2500").Equal(rent.VATAmount), "vat: got %s", rent.VATAmount)
	assert.True(t, d("12500").Equal(rent.GrossAmount))
}

func TestMaterializeExpenseVATFixedAtStandardRate(t *testing.T) {
	f := newFixture(t)
	due := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	today := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	// The caller never chooses a rate; every expense template back-computes
	// 25% from its gross amount.
	_, err := f.recurring.Create(f.ctx, &domain.CreateRecurringTemplateRequest{
		Name:        "Cleaning",
		Type:        domain.TransactionTypeExpense,
		Amount:      d("1000"),
		NextDueDate: due,
	})
	require.NoError(t, err)
	_, err = f.recurring.Create(f.ctx, &domain.CreateRecurringTemplateRequest{
		Name:        "Retainer",
		Type:        domain.TransactionTypeIncome,
		Amount:      d("1000"),
		NextDueDate: due,
	})
	require.NoError(t, err)

	result, err := f.recurring.Materialize(f.ctx, f.company.ID, today)
	require.NoError(t, err)
	require.Equal(t, 2, result.CreatedCount)

	var expense domain.Transaction
	require.NoError(t, f.db.Where("description = ?", "Cleaning").First(&expense).Error)
	assert.True(t, d("800").Equal(expense.AmountExclVAT), "excl: got %s", expense.AmountExclVAT)
	assert.True(t, d("200").Equal(expense.VATAmount), "vat: got %s", expense.VATAmount)
	assert.True(t, d("1000").Equal(expense.GrossAmount))

	// Income templates record the gross with no VAT component
	var income domain.Transaction
	require.NoError(t, f.db.Where("description = ?", "Retainer").First(&income).Error)
	assert.True(t, d("1000").Equal(income.AmountExclVAT))
	assert.True(t, income.VATAmount.IsZero())
}

func TestMaterializeIsIdempotentWithinMonth(t *testing.T) {
	f := newFixture(t)
	due := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	today := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	_, err := f.recurring.Create(f.ctx, templateRequest("Office rent", due, "12500"))
	require.NoError(t, err)

	result, err := f.recurring.Materialize(f.ctx, f.company.ID, today)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CreatedCount)

	// A second run the same day finds nothing due
	result, err = f.recurring.Materialize(f.ctx, f.company.ID, today)
	require.NoError(t, err)
	assert.Zero(t, result.CreatedCount)

	var count int64
	require.NoError(t, f.db.Model(&domain.Transaction{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestMaterializeCatchesUpOneMonthPerRun(t *testing.T) {
	f := newFixture(t)
	due := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	created, err := f.recurring.Create(f.ctx, templateRequest("Office rent", due, "12500"))
	require.NoError(t, err)

	// First run covers January and advances to February
	result, err := f.recurring.Materialize(f.ctx, f.company.ID, today)
	require.NoError(t, err)
	require.Equal(t, 1, result.CreatedCount)
	assert.Equal(t, "2026-01-01", result.Transactions[0].Date[:10])

	template, err := f.recurring.GetByID(f.ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-01", template.NextDueDate)

	// The next runs cover February and March
	result, err = f.recurring.Materialize(f.ctx, f.company.ID, today)
	require.NoError(t, err)
	require.Equal(t, 1, result.CreatedCount)
	assert.Equal(t, "2026-02-01", result.Transactions[0].Date[:10])

	result, err = f.recurring.Materialize(f.ctx, f.company.ID, today)
	require.NoError(t, err)
	require.Equal(t, 1, result.CreatedCount)
	assert.Equal(t, "2026-03-01", result.Transactions[0].Date[:10])

	// Fully caught up: next due is April, beyond today
	result, err = f.recurring.Materialize(f.ctx, f.company.ID, today)
	require.NoError(t, err)
	assert.Zero(t, result.CreatedCount)
}

func TestMaterializeSkipsInactiveTemplates(t *testing.T) {
	f := newFixture(t)
	due := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	today := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	created, err := f.recurring.Create(f.ctx, templateRequest("Office rent", due, "12500"))
	require.NoError(t, err)

	inactive := false
	_, err = f.recurring.Update(f.ctx, created.ID, &domain.UpdateRecurringTemplateRequest{
		Name:        "Office rent",
		Amount:      d("12500"),
		NextDueDate: due,
		IsActive:    &inactive,
	})
	require.NoError(t, err)

	result, err := f.recurring.Materialize(f.ctx, f.company.ID, today)
	require.NoError(t, err)
	assert.Zero(t, result.CreatedCount)
}
