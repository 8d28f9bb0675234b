package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/rahu431/snapbill-service/internal/repository"
)

// ExportService renders invoices into downloadable formats
type ExportService interface {
	ExportInvoicesCSV(ctx context.Context) ([]byte, error)
	ExportInvoicePDF(ctx context.Context, invoiceID string) ([]byte, error)
}

type exportService struct {
	store repository.Store
}

// NewExportService creates a new export service
func NewExportService(store repository.Store) ExportService {
	return &exportService{store: store}
}

var csvHeader = []string{
	"Invoice Number", "Date", "Customer Name", "Status",
	"Currency", "Subtotal", "Tax", "Total",
}

// ExportInvoicesCSV renders all invoices as a CSV document. The output starts
// with a UTF-8 BOM so spreadsheet applications pick the right encoding.
func (s *exportService) ExportInvoicesCSV(ctx context.Context) ([]byte, error) {
	invoices, err := s.store.ListInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF}) // UTF-8 BOM

	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, inv := range invoices {
		row := []string{
			inv.Number,
			formatInvoiceDate(inv.Date),
			inv.Customer.Name,
			string(inv.Status),
			inv.Currency,
			formatAmount(inv.Subtotal),
			formatAmount(inv.Total - inv.Subtotal),
			formatAmount(inv.Total),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportInvoicePDF renders a single invoice as a printable PDF
func (s *exportService) ExportInvoicePDF(ctx context.Context, invoiceID string) ([]byte, error) {
	inv, err := s.store.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	profile, err := s.store.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load business profile: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, profile.Name)
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 10, "Invoice "+inv.Number, "", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	if profile.Address != "" {
		pdf.CellFormat(0, 5, profile.Address, "", 1, "L", false, 0, "")
	}
	if profile.Phone != "" {
		pdf.CellFormat(0, 5, profile.Phone, "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(30, 6, "Bill To:")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, inv.Customer.Name, "", 1, "L", false, 0, "")
	pdf.Cell(30, 6, "Date:")
	pdf.CellFormat(0, 6, formatInvoiceDate(inv.Date), "", 1, "L", false, 0, "")
	pdf.Cell(30, 6, "Status:")
	pdf.CellFormat(0, 6, string(inv.Status), "", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Item table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(90, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, 8, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range inv.Items {
		pdf.CellFormat(90, 8, item.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, formatAmount(item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, money(inv.Currency, item.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, money(inv.Currency, item.Quantity*item.Price), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	writeTotal := func(label string, value float64) {
		pdf.CellFormat(150, 6, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, money(inv.Currency, value), "", 1, "R", false, 0, "")
	}
	writeTotal("Subtotal", inv.Subtotal)
	if inv.Discount != 0 {
		writeTotal("Discount", -inv.Discount)
	}
	if inv.TaxRate != 0 {
		writeTotal(fmt.Sprintf("Tax (%s%%)", formatAmount(inv.TaxRate)), (inv.Subtotal-inv.Discount)*inv.TaxRate/100)
	}
	if inv.Shipping != 0 {
		writeTotal("Shipping", inv.Shipping)
	}
	if inv.Handling != 0 {
		writeTotal("Handling", inv.Handling)
	}
	if inv.Packaging != 0 {
		writeTotal("Packaging", inv.Packaging)
	}
	pdf.SetFont("Arial", "B", 11)
	writeTotal("Total", inv.Total)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// formatInvoiceDate renders a stored RFC3339 timestamp as a plain date,
// falling back to the raw value for anything it cannot parse
func formatInvoiceDate(raw string) string {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.Format("2006-01-02")
	}
	return raw
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func money(currency string, v float64) string {
	return currency + strconv.FormatFloat(v, 'f', 2, 64)
}
