package repository_test

import (
	"context"
	"testing"

	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/fakturo-as/billing-api/internal/repository"
	"github.com/fakturo-as/billing-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextNumberStartsAtOneAndIncrements(t *testing.T) {
	db := testutil.SetupTestDB(t)
	company := testutil.SeedCompany(t, db, "Acme AB")
	repo := repository.NewNumberSequenceRepository(db)
	ctx := context.Background()

	for want := 1; want <= 5; want++ {
		got, err := repo.NextNumber(ctx, db, company.ID, domain.SequenceDocTypeInvoice)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestNextNumberSequencesAreIndependentPerDocType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	company := testutil.SeedCompany(t, db, "Acme AB")
	repo := repository.NewNumberSequenceRepository(db)
	ctx := context.Background()

	n, err := repo.NextNumber(ctx, db, company.ID, domain.SequenceDocTypeInvoice)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = repo.NextNumber(ctx, db, company.ID, domain.SequenceDocTypeInvoice)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// A different doc type starts its own sequence
	n, err = repo.NextNumber(ctx, db, company.ID, domain.SequenceDocTypeQuote)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = repo.NextNumber(ctx, db, company.ID, domain.SequenceDocTypePurchaseOrder)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNextNumberSequencesAreIndependentPerCompany(t *testing.T) {
	db := testutil.SetupTestDB(t)
	companyA := testutil.SeedCompany(t, db, "Acme AB")
	companyB := testutil.SeedCompany(t, db, "Umbrella AB")
	repo := repository.NewNumberSequenceRepository(db)
	ctx := context.Background()

	n, err := repo.NextNumber(ctx, db, companyA.ID, domain.SequenceDocTypeInvoice)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = repo.NextNumber(ctx, db, companyA.ID, domain.SequenceDocTypeInvoice)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.NextNumber(ctx, db, companyB.ID, domain.SequenceDocTypeInvoice)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNextNumberAbortedTransactionDoesNotConsumeNumber(t *testing.T) {
	db := testutil.SetupTestDB(t)
	company := testutil.SeedCompany(t, db, "Acme AB")
	repo := repository.NewNumberSequenceRepository(db)
	ctx := context.Background()

	n, err := repo.NextNumber(ctx, db, company.ID, domain.SequenceDocTypeInvoice)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Increment inside a transaction that rolls back
	tx := db.Begin()
	n, err = repo.NextNumber(ctx, tx, company.ID, domain.SequenceDocTypeInvoice)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	tx.Rollback()

	// The rolled-back number is reused by the next post
	n, err = repo.NextNumber(ctx, db, company.ID, domain.SequenceDocTypeInvoice)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCurrentSequence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	company := testutil.SeedCompany(t, db, "Acme AB")
	repo := repository.NewNumberSequenceRepository(db)
	ctx := context.Background()

	cur, err := repo.CurrentSequence(ctx, company.ID, domain.SequenceDocTypeInvoice)
	require.NoError(t, err)
	assert.Equal(t, 0, cur)

	_, err = repo.NextNumber(ctx, db, company.ID, domain.SequenceDocTypeInvoice)
	require.NoError(t, err)

	cur, err = repo.CurrentSequence(ctx, company.ID, domain.SequenceDocTypeInvoice)
	require.NoError(t, err)
	assert.Equal(t, 1, cur)
}

func TestSetSequenceNeverMovesBackwards(t *testing.T) {
	db := testutil.SetupTestDB(t)
	company := testutil.SeedCompany(t, db, "Acme AB")
	repo := repository.NewNumberSequenceRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.SetSequence(ctx, company.ID, domain.SequenceDocTypeInvoice, 100))

	cur, err := repo.CurrentSequence(ctx, company.ID, domain.SequenceDocTypeInvoice)
	require.NoError(t, err)
	assert.Equal(t, 100, cur)

	// Lower value is ignored
	require.NoError(t, repo.SetSequence(ctx, company.ID, domain.SequenceDocTypeInvoice, 50))

	cur, err = repo.CurrentSequence(ctx, company.ID, domain.SequenceDocTypeInvoice)
	require.NoError(t, err)
	assert.Equal(t, 100, cur)

	n, err := repo.NextNumber(ctx, db, company.ID, domain.SequenceDocTypeInvoice)
	require.NoError(t, err)
	assert.Equal(t, 101, n)
}
