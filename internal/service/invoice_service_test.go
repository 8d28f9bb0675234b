package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahu431/snapbill-service/internal/billing"
	"github.com/rahu431/snapbill-service/internal/domain"
	"github.com/rahu431/snapbill-service/internal/repository"
)

func newTestStore(t *testing.T) repository.Store {
	t.Helper()
	store, err := repository.NewBlobRepository(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestCreateInvoiceComputesBreakdown(t *testing.T) {
	svc := NewInvoiceService(newTestStore(t))
	ctx := context.Background()

	inv, err := svc.CreateInvoice(ctx, CreateInvoiceInput{
		CustomerName: "Acme Corp",
		Items: []domain.LineItem{
			{Description: "Consulting", Quantity: 2, Price: 25},
		},
		Fees: billing.FeeInputs{Discount: 10, TaxRate: 8, Shipping: 5},
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-0001", inv.Number)
	assert.Equal(t, domain.StatusDraft, inv.Status)
	assert.InDelta(t, 50.0, inv.Subtotal, 1e-9)
	assert.InDelta(t, 48.2, inv.Total, 1e-9)
	assert.Equal(t, "$", inv.Currency)
	assert.NotEmpty(t, inv.ID)
	assert.NotEmpty(t, inv.Date)
}

func TestCreateInvoiceRejectsEmptyCustomer(t *testing.T) {
	svc := NewInvoiceService(newTestStore(t))

	for _, name := range []string{"", "   ", "\t"} {
		_, err := svc.CreateInvoice(context.Background(), CreateInvoiceInput{CustomerName: name})
		assert.ErrorIs(t, err, ErrEmptyCustomerName)
	}
}

func TestCreateInvoiceDropsEmptyItems(t *testing.T) {
	svc := NewInvoiceService(newTestStore(t))

	inv, err := svc.CreateInvoice(context.Background(), CreateInvoiceInput{
		CustomerName: "Acme Corp",
		Items: []domain.LineItem{
			{Description: "Real item", Quantity: 1, Price: 10},
			{Description: "", Quantity: 1, Price: 0},
		},
	})
	require.NoError(t, err)

	require.Len(t, inv.Items, 1)
	assert.Equal(t, "Real item", inv.Items[0].Description)
}

func TestCreateInvoiceSequentialNumbers(t *testing.T) {
	store := newTestStore(t)
	svc := NewInvoiceService(store)
	ctx := context.Background()

	first, err := svc.CreateInvoice(ctx, CreateInvoiceInput{CustomerName: "A"})
	require.NoError(t, err)
	second, err := svc.CreateInvoice(ctx, CreateInvoiceInput{CustomerName: "B"})
	require.NoError(t, err)

	assert.Equal(t, "INV-0001", first.Number)
	assert.Equal(t, "INV-0002", second.Number)

	// Numbering follows the current count, so deletion frees a number
	require.NoError(t, svc.DeleteInvoice(ctx, second.ID))
	third, err := svc.CreateInvoice(ctx, CreateInvoiceInput{CustomerName: "C"})
	require.NoError(t, err)
	assert.Equal(t, "INV-0002", third.Number)
}

func TestCreateInvoiceDecrementsTrackedStock(t *testing.T) {
	store := newTestStore(t)
	svc := NewInvoiceService(store)
	ctx := context.Background()

	require.NoError(t, store.CreateProduct(ctx, &domain.Product{
		ID: "p1", Name: "Beans", Price: 18, Stock: 5, TrackStock: true,
	}))

	_, err := svc.CreateInvoice(ctx, CreateInvoiceInput{
		CustomerName: "Acme Corp",
		Items: []domain.LineItem{
			{ProductID: "p1", Description: "Beans", Quantity: 3, Price: 18},
		},
	})
	require.NoError(t, err)

	product, err := store.GetProductByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2.0, product.Stock)
}

func TestCreateInvoiceStockMayGoNegative(t *testing.T) {
	store := newTestStore(t)
	svc := NewInvoiceService(store)
	ctx := context.Background()

	require.NoError(t, store.CreateProduct(ctx, &domain.Product{
		ID: "p1", Name: "Beans", Price: 18, Stock: 1, TrackStock: true,
	}))

	_, err := svc.CreateInvoice(ctx, CreateInvoiceInput{
		CustomerName: "Acme Corp",
		Items: []domain.LineItem{
			{ProductID: "p1", Description: "Beans", Quantity: 4, Price: 18},
		},
	})
	require.NoError(t, err)

	product, err := store.GetProductByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, -3.0, product.Stock)
}

func TestCreateInvoiceIgnoresUntrackedStock(t *testing.T) {
	store := newTestStore(t)
	svc := NewInvoiceService(store)
	ctx := context.Background()

	require.NoError(t, store.CreateProduct(ctx, &domain.Product{
		ID: "p2", Name: "Consulting", Price: 50, Stock: 0, TrackStock: false,
	}))

	_, err := svc.CreateInvoice(ctx, CreateInvoiceInput{
		CustomerName: "Acme Corp",
		Items: []domain.LineItem{
			{ProductID: "p2", Description: "Consulting", Quantity: 10, Price: 50},
		},
	})
	require.NoError(t, err)

	product, err := store.GetProductByID(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, 0.0, product.Stock)
}

func TestCreateInvoiceRecordsCustomerOnce(t *testing.T) {
	store := newTestStore(t)
	svc := NewInvoiceService(store)
	ctx := context.Background()

	_, err := svc.CreateInvoice(ctx, CreateInvoiceInput{CustomerName: "Alice Walker"})
	require.NoError(t, err)
	_, err = svc.CreateInvoice(ctx, CreateInvoiceInput{CustomerName: "ALICE WALKER"})
	require.NoError(t, err)

	customers, err := store.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, customers, 1)
}

func TestUpdateStatusValidation(t *testing.T) {
	store := newTestStore(t)
	svc := NewInvoiceService(store)
	ctx := context.Background()

	inv, err := svc.CreateInvoice(ctx, CreateInvoiceInput{CustomerName: "A"})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, inv.ID, domain.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, updated.Status)

	_, err = svc.UpdateStatus(ctx, inv.ID, domain.InvoiceStatus("archived"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
