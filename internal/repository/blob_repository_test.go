package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahu431/snapbill-service/internal/domain"
)

func newTestRepo(t *testing.T) *BlobRepository {
	t.Helper()
	repo, err := NewBlobRepository(t.TempDir())
	require.NoError(t, err)
	return repo
}

func newTestRepoAt(t *testing.T, dir string) *BlobRepository {
	t.Helper()
	repo, err := NewBlobRepository(dir)
	require.NoError(t, err)
	return repo
}

func TestBlobRepositorySeedsDefaults(t *testing.T) {
	repo := newTestRepo(t)

	profile, err := repo.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "$", profile.Currency)

	count, err := repo.CountInvoices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestBlobRepositoryInvoiceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	repo := newTestRepoAt(t, dir)
	ctx := context.Background()

	inv := domain.Invoice{
		ID:     "inv1",
		Number: "INV-0001",
		Date:   "2026-09-01T10:00:00Z",
		Customer: domain.Customer{
			ID:   "c1",
			Name: "Alice Walker",
		},
		Items: []domain.LineItem{
			{ID: "i1", ProductID: "p1", Description: "Coffee", Quantity: 2.5, Price: 18},
		},
		Status:   domain.StatusDraft,
		Currency: "$",
		Subtotal: 45,
		TaxRate:  8,
		Total:    48.6,
	}
	require.NoError(t, repo.CreateInvoice(ctx, &inv))

	// Reload from disk into a fresh repository to prove the blob round-trips
	reloaded := newTestRepoAt(t, dir)

	got, err := reloaded.GetInvoiceByID(ctx, "inv1")
	require.NoError(t, err)
	assert.Equal(t, inv, *got)
}

func TestBlobRepositoryNewestInvoiceFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateInvoice(ctx, &domain.Invoice{ID: "a", Number: "INV-0001", Status: domain.StatusDraft}))
	require.NoError(t, repo.CreateInvoice(ctx, &domain.Invoice{ID: "b", Number: "INV-0002", Status: domain.StatusDraft}))

	invoices, err := repo.ListInvoices(ctx)
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.Equal(t, "b", invoices[0].ID)
}

func TestBlobRepositoryStatusUpdateOnly(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateInvoice(ctx, &domain.Invoice{ID: "a", Number: "INV-0001", Status: domain.StatusDraft, Total: 10}))

	updated, err := repo.UpdateInvoiceStatus(ctx, "a", domain.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, updated.Status)
	assert.Equal(t, 10.0, updated.Total)

	_, err = repo.UpdateInvoiceStatus(ctx, "missing", domain.StatusPaid)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBlobRepositoryCustomerLookupCaseInsensitive(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateCustomer(ctx, &domain.Customer{ID: "c1", Name: "Alice Walker"}))

	found, err := repo.FindCustomerByName(ctx, "alice walker")
	require.NoError(t, err)
	assert.Equal(t, "c1", found.ID)

	_, err = repo.FindCustomerByName(ctx, "Bob")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBlobRepositoryProductLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	p := domain.Product{ID: "p1", Name: "Beans", Price: 18, Stock: 5, TrackStock: true}
	require.NoError(t, repo.CreateProduct(ctx, &p))

	p.Stock = 2
	require.NoError(t, repo.UpdateProduct(ctx, &p))

	got, err := repo.GetProductByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2.0, got.Stock)

	require.NoError(t, repo.DeleteProduct(ctx, "p1"))
	_, err = repo.GetProductByID(ctx, "p1")
	assert.ErrorIs(t, err, ErrNotFound)
}
