package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rahu431/snapbill-service/internal/billing"
	"github.com/rahu431/snapbill-service/internal/domain"
	"github.com/rahu431/snapbill-service/internal/repository"
)

// Validation errors surfaced to the caller
var (
	ErrEmptyCustomerName = errors.New("customer name is required")
	ErrInvalidStatus     = errors.New("invalid invoice status")
)

// CreateInvoiceInput carries the finalized draft state for assembly. Fee
// scalars are expected to be sanitized at the HTTP boundary.
type CreateInvoiceInput struct {
	CustomerName string
	Items        []domain.LineItem
	Notes        string
	Fees         billing.FeeInputs
}

// InvoiceService handles invoice assembly and the side effects that run on
// creation: stock adjustment and customer roster maintenance
type InvoiceService interface {
	CreateInvoice(ctx context.Context, input CreateInvoiceInput) (*domain.Invoice, error)
	ListInvoices(ctx context.Context) ([]domain.Invoice, error)
	GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	UpdateStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus) (*domain.Invoice, error)
	DeleteInvoice(ctx context.Context, invoiceID string) error
}

type invoiceService struct {
	store repository.Store
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(store repository.Store) InvoiceService {
	return &invoiceService{store: store}
}

// CreateInvoice assembles an immutable invoice from the draft state. The
// customer name is the single hard precondition; everything else degrades
// gracefully. Once the invoice is stored, tracked product stock is
// decremented and the customer roster is extended, both best-effort.
func (s *invoiceService) CreateInvoice(ctx context.Context, input CreateInvoiceInput) (*domain.Invoice, error) {
	customerName := strings.TrimSpace(input.CustomerName)
	if customerName == "" {
		return nil, ErrEmptyCustomerName
	}

	// Rows the user never filled in are dropped from the persisted invoice
	items := make([]domain.LineItem, 0, len(input.Items))
	for _, item := range input.Items {
		if strings.TrimSpace(item.Description) == "" {
			continue
		}
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		items = append(items, item)
	}

	count, err := s.store.CountInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count invoices: %w", err)
	}

	profile, err := s.store.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load business profile: %w", err)
	}

	fees := billing.SanitizeFees(input.Fees)
	breakdown := billing.Totals(items, fees)

	invoice := &domain.Invoice{
		ID:     uuid.NewString(),
		Number: billing.FormatInvoiceNumber(count),
		Date:   time.Now().UTC().Format(time.RFC3339),
		Customer: domain.Customer{
			ID:   uuid.NewString(),
			Name: customerName,
		},
		Items:     items,
		Notes:     input.Notes,
		Status:    domain.StatusDraft,
		Currency:  profile.Currency,
		Subtotal:  breakdown.Subtotal,
		Discount:  fees.Discount,
		TaxRate:   fees.TaxRate,
		Shipping:  fees.Shipping,
		Handling:  fees.Handling,
		Packaging: fees.Packaging,
		Total:     breakdown.Total,
	}

	if err := s.store.CreateInvoice(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to store invoice: %w", err)
	}

	s.adjustStock(ctx, invoice.Items)
	s.recordCustomer(ctx, invoice.Customer)

	return invoice, nil
}

// adjustStock decrements tracked stock for every line item that references a
// catalog product. Stock may go negative; there is no backorder prevention.
// Failures are logged and never block invoice creation.
func (s *invoiceService) adjustStock(ctx context.Context, items []domain.LineItem) {
	for _, item := range items {
		if item.ProductID == "" {
			continue
		}

		product, err := s.store.GetProductByID(ctx, item.ProductID)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				log.Printf("stock adjustment: failed to load product %s: %v", item.ProductID, err)
			}
			continue
		}
		if !product.TrackStock {
			continue
		}

		product.Stock -= item.Quantity
		if err := s.store.UpdateProduct(ctx, product); err != nil {
			log.Printf("stock adjustment: failed to update product %s: %v", item.ProductID, err)
		}
	}
}

// recordCustomer appends the invoice's customer to the roster unless a
// customer with the same name (case-insensitive) already exists
func (s *invoiceService) recordCustomer(ctx context.Context, customer domain.Customer) {
	_, err := s.store.FindCustomerByName(ctx, customer.Name)
	if err == nil {
		return
	}
	if !errors.Is(err, repository.ErrNotFound) {
		log.Printf("customer roster: lookup failed for %q: %v", customer.Name, err)
		return
	}

	if err := s.store.CreateCustomer(ctx, &customer); err != nil {
		log.Printf("customer roster: failed to record %q: %v", customer.Name, err)
	}
}

// ListInvoices returns all invoices, newest first
func (s *invoiceService) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	return s.store.ListInvoices(ctx)
}

// GetInvoice retrieves a single invoice
func (s *invoiceService) GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	return s.store.GetInvoiceByID(ctx, invoiceID)
}

// UpdateStatus transitions an invoice between draft, sent and paid
func (s *invoiceService) UpdateStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus) (*domain.Invoice, error) {
	if !domain.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	return s.store.UpdateInvoiceStatus(ctx, invoiceID, status)
}

// DeleteInvoice removes an invoice permanently
func (s *invoiceService) DeleteInvoice(ctx context.Context, invoiceID string) error {
	return s.store.DeleteInvoice(ctx, invoiceID)
}
