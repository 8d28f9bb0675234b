package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/rahu431/snapbill-service/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// RepositoryError represents an error that occurred within a repository
type RepositoryError struct {
	// Op is the operation that failed
	Op string

	// Err is the underlying error
	Err error
}

// Error returns a string representation of the error
func (e *RepositoryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

// Unwrap returns the underlying error
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// InvoiceRepository defines data operations for invoices. Invoices are stored
// as immutable snapshots; only the status can be updated after creation.
type InvoiceRepository interface {
	ListInvoices(ctx context.Context) ([]domain.Invoice, error)
	GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	CreateInvoice(ctx context.Context, invoice *domain.Invoice) error
	UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus) (*domain.Invoice, error)
	DeleteInvoice(ctx context.Context, invoiceID string) error
	CountInvoices(ctx context.Context) (int, error)
}

// ProductRepository defines data operations for the product catalog
type ProductRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProductByID(ctx context.Context, productID string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, productID string) error
}

// CustomerRepository defines data operations for the customer roster
type CustomerRepository interface {
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	FindCustomerByName(ctx context.Context, name string) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, customer *domain.Customer) error
}

// UserRepository defines data operations for user accounts
type UserRepository interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) error
	UpdateUserStatus(ctx context.Context, userID string, status string) (*domain.User, error)
}

// ProfileRepository defines data operations for the business profile
type ProfileRepository interface {
	GetProfile(ctx context.Context) (*domain.BusinessProfile, error)
	SaveProfile(ctx context.Context, profile *domain.BusinessProfile) error
}

// Store aggregates all repositories behind a single storage backend
type Store interface {
	InvoiceRepository
	ProductRepository
	CustomerRepository
	UserRepository
	ProfileRepository

	Close()
}
