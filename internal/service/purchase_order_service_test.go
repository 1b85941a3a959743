package service_test

import (
	"testing"

	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/fakturo-as/billing-api/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderRequest(supplierID *uuid.UUID, items ...domain.LineItemRequest) *domain.CreatePurchaseOrderRequest {
	return &domain.CreatePurchaseOrderRequest{
		SupplierID: supplierID,
		Items:      items,
	}
}

func TestPurchaseOrderMarkOrderedAssignsSequence(t *testing.T) {
	f := newFixture(t)
	supplier := f.seedSupplier(t, "Grossist AB")

	order, err := f.orders.Create(f.ctx, orderRequest(&supplier.ID,
		line("Widgets", "10", "40", domain.VATRateStandard)))
	require.NoError(t, err)
	assert.Equal(t, domain.PurchaseOrderStatusDraft, order.Status)
	assert.Equal(t, 0, order.SequenceNumber)

	ordered, err := f.orders.MarkOrdered(f.ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PurchaseOrderStatusOrdered, ordered.Status)
	assert.Equal(t, 1, ordered.SequenceNumber)
	assert.NotNil(t, ordered.OrderedAt)

	// Ordering twice is rejected
	_, err = f.orders.MarkOrdered(f.ctx, order.ID)
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestPurchaseOrderMarkOrderedGuards(t *testing.T) {
	f := newFixture(t)
	supplier := f.seedSupplier(t, "Grossist AB")

	empty, err := f.orders.Create(f.ctx, orderRequest(&supplier.ID))
	require.NoError(t, err)
	_, err = f.orders.MarkOrdered(f.ctx, empty.ID)
	assert.ErrorIs(t, err, service.ErrNoLineItems)

	anonymous, err := f.orders.Create(f.ctx, orderRequest(nil,
		line("Widgets", "1", "40", domain.VATRateStandard)))
	require.NoError(t, err)
	_, err = f.orders.MarkOrdered(f.ctx, anonymous.ID)
	assert.ErrorIs(t, err, service.ErrMissingCounterparty)
}

func TestPurchaseOrderReceiveIncrementsStockAndRecordsExpense(t *testing.T) {
	f := newFixture(t)
	supplier := f.seedSupplier(t, "Grossist AB")
	product := f.seedProduct(t, "Widget", 2, true)

	item := line("Widget", "5", "40", domain.VATRateStandard)
	item.ProductID = &product.ID

	order, err := f.orders.Create(f.ctx, orderRequest(&supplier.ID, item))
	require.NoError(t, err)
	_, err = f.orders.MarkOrdered(f.ctx, order.ID)
	require.NoError(t, err)

	received, err := f.orders.Receive(f.ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PurchaseOrderStatusReceived, received.Status)
	assert.NotNil(t, received.ReceivedAt)
	assert.Equal(t, 7, f.productStock(t, product.ID))

	var records []domain.Transaction
	require.NoError(t, f.db.Where("purchase_order_id = ?", order.ID).Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, domain.TransactionTypeExpense, records[0].Type)
	assert.Equal(t, domain.TransactionSourcePurchaseOrder, records[0].Source)
	assert.Equal(t, "Grossist AB", records[0].Party)
	assert.True(t, d("200").Equal(records[0].AmountExclVAT), "excl: got %s", records[0].AmountExclVAT)
	assert.True(t, d("50").Equal(records[0].VATAmount))
	assert.True(t, d("250").Equal(records[0].GrossAmount))

	// Receiving again changes neither stock nor the ledger
	_, err = f.orders.Receive(f.ctx, order.ID)
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
	assert.Equal(t, 7, f.productStock(t, product.ID))
	require.NoError(t, f.db.Where("purchase_order_id = ?", order.ID).Find(&records).Error)
	assert.Len(t, records, 1)
}

func TestPurchaseOrderReceiveRequiresOrdered(t *testing.T) {
	f := newFixture(t)
	supplier := f.seedSupplier(t, "Grossist AB")

	order, err := f.orders.Create(f.ctx, orderRequest(&supplier.ID,
		line("Widgets", "1", "40", domain.VATRateStandard)))
	require.NoError(t, err)

	_, err = f.orders.Receive(f.ctx, order.ID)
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestPurchaseOrderCancel(t *testing.T) {
	f := newFixture(t)
	supplier := f.seedSupplier(t, "Grossist AB")

	order, err := f.orders.Create(f.ctx, orderRequest(&supplier.ID,
		line("Widgets", "1", "40", domain.VATRateStandard)))
	require.NoError(t, err)

	cancelled, err := f.orders.Cancel(f.ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PurchaseOrderStatusCancelled, cancelled.Status)

	// Cancelled is terminal
	_, err = f.orders.MarkOrdered(f.ctx, order.ID)
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
	_, err = f.orders.Receive(f.ctx, order.ID)
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestPurchaseOrderCancelAfterOrdering(t *testing.T) {
	f := newFixture(t)
	supplier := f.seedSupplier(t, "Grossist AB")
	product := f.seedProduct(t, "Widget", 2, true)

	item := line("Widget", "5", "40", domain.VATRateStandard)
	item.ProductID = &product.ID

	order, err := f.orders.Create(f.ctx, orderRequest(&supplier.ID, item))
	require.NoError(t, err)
	_, err = f.orders.MarkOrdered(f.ctx, order.ID)
	require.NoError(t, err)

	cancelled, err := f.orders.Cancel(f.ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PurchaseOrderStatusCancelled, cancelled.Status)

	// Nothing was received, so stock and the ledger stay untouched
	assert.Equal(t, 2, f.productStock(t, product.ID))
	var count int64
	require.NoError(t, f.db.Model(&domain.Transaction{}).Where("purchase_order_id = ?", order.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPurchaseOrderDeleteLockedAfterOrdering(t *testing.T) {
	f := newFixture(t)
	supplier := f.seedSupplier(t, "Grossist AB")

	order, err := f.orders.Create(f.ctx, orderRequest(&supplier.ID,
		line("Widgets", "1", "40", domain.VATRateStandard)))
	require.NoError(t, err)
	_, err = f.orders.MarkOrdered(f.ctx, order.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, f.orders.Delete(f.ctx, order.ID), service.ErrDocumentLocked)
}
