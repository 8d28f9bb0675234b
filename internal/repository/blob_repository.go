package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rahu431/snapbill-service/internal/domain"
)

const blobFileName = "snapbill.json"

// appState is the single serialized object holding all application data.
// It is read wholesale at startup and written wholesale after every mutation,
// mirroring the storage model the mobile client uses.
type appState struct {
	Invoices    []domain.Invoice       `json:"invoices"`
	Customers   []domain.Customer      `json:"customers"`
	Products    []domain.Product       `json:"products"`
	Profile     domain.BusinessProfile `json:"profile"`
	Users       []domain.User          `json:"users"`
	CurrentUser *domain.User           `json:"currentUser,omitempty"`
}

// BlobRepository implements Store on top of a single JSON file
type BlobRepository struct {
	path  string
	mutex sync.RWMutex
	state appState
}

// NewBlobRepository loads the blob from baseDir, initializing it with default
// data on first run
func NewBlobRepository(baseDir string) (*BlobRepository, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, &RepositoryError{
			Op:  "create_repository",
			Err: fmt.Errorf("failed to create base directory: %w", err),
		}
	}

	r := &BlobRepository{path: filepath.Join(baseDir, blobFileName)}

	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		r.state = appState{Profile: domain.DefaultProfile()}
		if err := r.save(); err != nil {
			return nil, err
		}
		return r, nil
	}
	if err != nil {
		return nil, &RepositoryError{
			Op:  "load_blob",
			Err: fmt.Errorf("failed to read data file: %w", err),
		}
	}

	if err := json.Unmarshal(data, &r.state); err != nil {
		return nil, &RepositoryError{
			Op:  "load_blob",
			Err: fmt.Errorf("failed to deserialize data file: %w", err),
		}
	}
	if r.state.Profile.Currency == "" {
		r.state.Profile = domain.DefaultProfile()
	}

	return r, nil
}

// Close is a no-op; the blob is flushed after every mutation
func (r *BlobRepository) Close() {}

// save writes the whole state back to disk. Callers must hold the write lock.
func (r *BlobRepository) save() error {
	data, err := json.MarshalIndent(r.state, "", "  ")
	if err != nil {
		return &RepositoryError{
			Op:  "save_blob",
			Err: fmt.Errorf("failed to serialize state: %w", err),
		}
	}
	if err := os.WriteFile(r.path, data, 0644); err != nil {
		return &RepositoryError{
			Op:  "save_blob",
			Err: fmt.Errorf("failed to write data file: %w", err),
		}
	}
	return nil
}

// ctxGuard returns early when the caller's context is already done
func ctxGuard(ctx context.Context, op string) error {
	select {
	case <-ctx.Done():
		return &RepositoryError{Op: op, Err: ctx.Err()}
	default:
		return nil
	}
}

// ListInvoices returns all invoices, newest first
func (r *BlobRepository) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	if err := ctxGuard(ctx, "list_invoices"); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	invoices := make([]domain.Invoice, len(r.state.Invoices))
	copy(invoices, r.state.Invoices)
	return invoices, nil
}

// GetInvoiceByID retrieves an invoice by its ID
func (r *BlobRepository) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	if err := ctxGuard(ctx, "get_invoice"); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, inv := range r.state.Invoices {
		if inv.ID == invoiceID {
			found := inv
			return &found, nil
		}
	}
	return nil, &RepositoryError{Op: "get_invoice", Err: ErrNotFound}
}

// CreateInvoice stores a new invoice at the head of the list
func (r *BlobRepository) CreateInvoice(ctx context.Context, invoice *domain.Invoice) error {
	if err := ctxGuard(ctx, "create_invoice"); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.state.Invoices = append([]domain.Invoice{*invoice}, r.state.Invoices...)
	return r.save()
}

// UpdateInvoiceStatus transitions an invoice to a new status. All other
// invoice fields stay frozen.
func (r *BlobRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus) (*domain.Invoice, error) {
	if err := ctxGuard(ctx, "update_invoice_status"); err != nil {
		return nil, err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i := range r.state.Invoices {
		if r.state.Invoices[i].ID == invoiceID {
			r.state.Invoices[i].Status = status
			if err := r.save(); err != nil {
				return nil, err
			}
			updated := r.state.Invoices[i]
			return &updated, nil
		}
	}
	return nil, &RepositoryError{Op: "update_invoice_status", Err: ErrNotFound}
}

// DeleteInvoice removes an invoice by ID
func (r *BlobRepository) DeleteInvoice(ctx context.Context, invoiceID string) error {
	if err := ctxGuard(ctx, "delete_invoice"); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i := range r.state.Invoices {
		if r.state.Invoices[i].ID == invoiceID {
			r.state.Invoices = append(r.state.Invoices[:i], r.state.Invoices[i+1:]...)
			return r.save()
		}
	}
	return &RepositoryError{Op: "delete_invoice", Err: ErrNotFound}
}

// CountInvoices returns the current number of stored invoices
func (r *BlobRepository) CountInvoices(ctx context.Context) (int, error) {
	if err := ctxGuard(ctx, "count_invoices"); err != nil {
		return 0, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.state.Invoices), nil
}

// ListProducts returns the product catalog in insertion order
func (r *BlobRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if err := ctxGuard(ctx, "list_products"); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	products := make([]domain.Product, len(r.state.Products))
	copy(products, r.state.Products)
	return products, nil
}

// GetProductByID retrieves a product by its ID
func (r *BlobRepository) GetProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	if err := ctxGuard(ctx, "get_product"); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, p := range r.state.Products {
		if p.ID == productID {
			found := p
			return &found, nil
		}
	}
	return nil, &RepositoryError{Op: "get_product", Err: ErrNotFound}
}

// CreateProduct appends a product to the catalog
func (r *BlobRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	if err := ctxGuard(ctx, "create_product"); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.state.Products = append(r.state.Products, *product)
	return r.save()
}

// UpdateProduct replaces a product in place, preserving catalog order
func (r *BlobRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	if err := ctxGuard(ctx, "update_product"); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i := range r.state.Products {
		if r.state.Products[i].ID == product.ID {
			r.state.Products[i] = *product
			return r.save()
		}
	}
	return &RepositoryError{Op: "update_product", Err: ErrNotFound}
}

// DeleteProduct removes a product from the catalog. Invoices referencing it
// keep their snapshots untouched.
func (r *BlobRepository) DeleteProduct(ctx context.Context, productID string) error {
	if err := ctxGuard(ctx, "delete_product"); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i := range r.state.Products {
		if r.state.Products[i].ID == productID {
			r.state.Products = append(r.state.Products[:i], r.state.Products[i+1:]...)
			return r.save()
		}
	}
	return &RepositoryError{Op: "delete_product", Err: ErrNotFound}
}

// ListCustomers returns the customer roster in insertion order
func (r *BlobRepository) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	if err := ctxGuard(ctx, "list_customers"); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	customers := make([]domain.Customer, len(r.state.Customers))
	copy(customers, r.state.Customers)
	return customers, nil
}

// FindCustomerByName looks up a customer by case-insensitive name match
func (r *BlobRepository) FindCustomerByName(ctx context.Context, name string) (*domain.Customer, error) {
	if err := ctxGuard(ctx, "find_customer"); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, c := range r.state.Customers {
		if strings.EqualFold(c.Name, name) {
			found := c
			return &found, nil
		}
	}
	return nil, &RepositoryError{Op: "find_customer", Err: ErrNotFound}
}

// CreateCustomer appends a customer to the roster
func (r *BlobRepository) CreateCustomer(ctx context.Context, customer *domain.Customer) error {
	if err := ctxGuard(ctx, "create_customer"); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.state.Customers = append(r.state.Customers, *customer)
	return r.save()
}

// ListUsers returns all user accounts
func (r *BlobRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	if err := ctxGuard(ctx, "list_users"); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	users := make([]domain.User, len(r.state.Users))
	copy(users, r.state.Users)
	return users, nil
}

// GetUserByID retrieves a user by ID
func (r *BlobRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	if err := ctxGuard(ctx, "get_user"); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, u := range r.state.Users {
		if u.ID == userID {
			found := u
			return &found, nil
		}
	}
	return nil, &RepositoryError{Op: "get_user", Err: ErrNotFound}
}

// GetUserByEmail retrieves a user by case-insensitive email match
func (r *BlobRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctxGuard(ctx, "get_user_by_email"); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, u := range r.state.Users {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, &RepositoryError{Op: "get_user_by_email", Err: ErrNotFound}
}

// CreateUser appends a new user account
func (r *BlobRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if err := ctxGuard(ctx, "create_user"); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.state.Users = append(r.state.Users, *user)
	return r.save()
}

// UpdateUserStatus sets a user's approval status
func (r *BlobRepository) UpdateUserStatus(ctx context.Context, userID string, status string) (*domain.User, error) {
	if err := ctxGuard(ctx, "update_user_status"); err != nil {
		return nil, err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i := range r.state.Users {
		if r.state.Users[i].ID == userID {
			r.state.Users[i].Status = status
			if err := r.save(); err != nil {
				return nil, err
			}
			updated := r.state.Users[i]
			return &updated, nil
		}
	}
	return nil, &RepositoryError{Op: "update_user_status", Err: ErrNotFound}
}

// GetProfile returns the business profile
func (r *BlobRepository) GetProfile(ctx context.Context) (*domain.BusinessProfile, error) {
	if err := ctxGuard(ctx, "get_profile"); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	profile := r.state.Profile
	return &profile, nil
}

// SaveProfile replaces the business profile
func (r *BlobRepository) SaveProfile(ctx context.Context, profile *domain.BusinessProfile) error {
	if err := ctxGuard(ctx, "save_profile"); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.state.Profile = *profile
	return r.save()
}
