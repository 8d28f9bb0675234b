package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahu431/snapbill-service/internal/domain"
	"github.com/rahu431/snapbill-service/internal/repository"
)

func seedInvoice(t *testing.T, store repository.Store, inv domain.Invoice) {
	t.Helper()
	require.NoError(t, store.CreateInvoice(context.Background(), &inv))
}

func TestExportInvoicesCSV(t *testing.T) {
	store := newTestStore(t)
	svc := NewExportService(store)

	seedInvoice(t, store, domain.Invoice{
		ID:       "inv-1",
		Number:   "INV-0001",
		Date:     "2026-08-30T10:00:00Z",
		Customer: domain.Customer{ID: "c1", Name: "Smith, John"},
		Status:   domain.StatusPaid,
		Currency: "$",
		Subtotal: 50,
		Total:    48.2,
	})

	out, err := svc.ExportInvoicesCSV(context.Background())
	require.NoError(t, err)

	// UTF-8 BOM prefix
	require.True(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}))

	records, err := csv.NewReader(bytes.NewReader(out[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{
		"Invoice Number", "Date", "Customer Name", "Status",
		"Currency", "Subtotal", "Tax", "Total",
	}, records[0])

	row := records[1]
	assert.Equal(t, "INV-0001", row[0])
	assert.Equal(t, "2026-08-30", row[1])
	assert.Equal(t, "Smith, John", row[2]) // comma survives quoting
	assert.Equal(t, "paid", row[3])
	assert.Equal(t, "50", row[5])
	assert.Equal(t, "48.2", row[7])
}

func TestExportInvoicesCSVEmpty(t *testing.T) {
	svc := NewExportService(newTestStore(t))

	out, err := svc.ExportInvoicesCSV(context.Background())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out[3:])).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1) // header only
}

func TestExportInvoicePDF(t *testing.T) {
	store := newTestStore(t)
	svc := NewExportService(store)

	seedInvoice(t, store, domain.Invoice{
		ID:       "inv-1",
		Number:   "INV-0001",
		Date:     "2026-08-30T10:00:00Z",
		Customer: domain.Customer{ID: "c1", Name: "Acme Corp"},
		Items: []domain.LineItem{
			{ID: "i1", Description: "Consulting", Quantity: 2, Price: 25},
		},
		Status:   domain.StatusDraft,
		Currency: "$",
		Subtotal: 50,
		Discount: 10,
		TaxRate:  5,
		Total:    42,
	})

	out, err := svc.ExportInvoicePDF(context.Background(), "inv-1")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestExportInvoicePDFNotFound(t *testing.T) {
	svc := NewExportService(newTestStore(t))

	_, err := svc.ExportInvoicePDF(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
