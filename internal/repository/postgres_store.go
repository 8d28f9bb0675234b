package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rahu431/snapbill-service/internal/domain"
)

// PostgresStore implements Store using PostgreSQL. Invoice line items and the
// customer snapshot are stored as JSONB so the snapshot round-trips exactly
// as created, independent of later catalog changes.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Close releases the underlying connection pool
func (s *PostgresStore) Close() {
	s.db.Close()
}

// Migrate creates the schema if it does not exist yet
func (s *PostgresStore) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS invoices (
			id TEXT PRIMARY KEY,
			number TEXT NOT NULL,
			date TEXT NOT NULL,
			customer JSONB NOT NULL,
			items JSONB NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			currency TEXT NOT NULL,
			subtotal DOUBLE PRECISION NOT NULL,
			discount DOUBLE PRECISION NOT NULL,
			tax_rate DOUBLE PRECISION NOT NULL,
			shipping DOUBLE PRECISION NOT NULL,
			handling DOUBLE PRECISION NOT NULL,
			packaging DOUBLE PRECISION NOT NULL,
			total DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price DOUBLE PRECISION NOT NULL,
			stock DOUBLE PRECISION NOT NULL DEFAULT 0,
			track_stock BOOLEAN NOT NULL DEFAULT FALSE,
			image TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			password_hash TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL,
			status TEXT NOT NULL,
			registered_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS business_profile (
			id INT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
			profile JSONB NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return &RepositoryError{Op: "migrate", Err: err}
		}
	}
	return nil
}

// ListInvoices returns all invoices, newest first
func (s *PostgresStore) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, number, date, customer, items, notes, status, currency,
		       subtotal, discount, tax_rate, shipping, handling, packaging, total
		FROM invoices
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoices: %w", err)
	}
	return invoices, nil
}

// GetInvoiceByID retrieves an invoice by its ID
func (s *PostgresStore) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, number, date, customer, items, notes, status, currency,
		       subtotal, discount, tax_rate, shipping, handling, packaging, total
		FROM invoices
		WHERE id = $1
	`, invoiceID)

	inv, err := scanInvoice(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &RepositoryError{Op: "get_invoice", Err: ErrNotFound}
		}
		return nil, err
	}
	return inv, nil
}

// CreateInvoice stores a new invoice
func (s *PostgresStore) CreateInvoice(ctx context.Context, invoice *domain.Invoice) error {
	customerJSON, err := json.Marshal(invoice.Customer)
	if err != nil {
		return fmt.Errorf("failed to serialize customer: %w", err)
	}
	itemsJSON, err := json.Marshal(invoice.Items)
	if err != nil {
		return fmt.Errorf("failed to serialize items: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO invoices (id, number, date, customer, items, notes, status, currency,
		                      subtotal, discount, tax_rate, shipping, handling, packaging, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, invoice.ID, invoice.Number, invoice.Date, customerJSON, itemsJSON, invoice.Notes,
		invoice.Status, invoice.Currency, invoice.Subtotal, invoice.Discount, invoice.TaxRate,
		invoice.Shipping, invoice.Handling, invoice.Packaging, invoice.Total)
	if err != nil {
		return fmt.Errorf("failed to insert invoice: %w", err)
	}
	return nil
}

// UpdateInvoiceStatus transitions an invoice to a new status
func (s *PostgresStore) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus) (*domain.Invoice, error) {
	tag, err := s.db.Exec(ctx, `UPDATE invoices SET status = $1 WHERE id = $2`, status, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to update invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, &RepositoryError{Op: "update_invoice_status", Err: ErrNotFound}
	}
	return s.GetInvoiceByID(ctx, invoiceID)
}

// DeleteInvoice removes an invoice by ID
func (s *PostgresStore) DeleteInvoice(ctx context.Context, invoiceID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &RepositoryError{Op: "delete_invoice", Err: ErrNotFound}
	}
	return nil
}

// CountInvoices returns the current number of stored invoices
func (s *PostgresStore) CountInvoices(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	return count, nil
}

// ListProducts returns the product catalog in insertion order
func (s *PostgresStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, description, price, stock, track_stock, image
		FROM products
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.TrackStock, &p.Image); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}

// GetProductByID retrieves a product by its ID
func (s *PostgresStore) GetProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	var p domain.Product
	err := s.db.QueryRow(ctx, `
		SELECT id, name, description, price, stock, track_stock, image
		FROM products
		WHERE id = $1
	`, productID).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.TrackStock, &p.Image)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &RepositoryError{Op: "get_product", Err: ErrNotFound}
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

// CreateProduct inserts a catalog product
func (s *PostgresStore) CreateProduct(ctx context.Context, product *domain.Product) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO products (id, name, description, price, stock, track_stock, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, product.ID, product.Name, product.Description, product.Price, product.Stock, product.TrackStock, product.Image)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// UpdateProduct replaces a product's fields
func (s *PostgresStore) UpdateProduct(ctx context.Context, product *domain.Product) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE products
		SET name = $1, description = $2, price = $3, stock = $4, track_stock = $5, image = $6
		WHERE id = $7
	`, product.Name, product.Description, product.Price, product.Stock, product.TrackStock, product.Image, product.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &RepositoryError{Op: "update_product", Err: ErrNotFound}
	}
	return nil
}

// DeleteProduct removes a product from the catalog
func (s *PostgresStore) DeleteProduct(ctx context.Context, productID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &RepositoryError{Op: "delete_product", Err: ErrNotFound}
	}
	return nil
}

// ListCustomers returns the customer roster in insertion order
func (s *PostgresStore) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, phone, email FROM customers ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}
	return customers, nil
}

// FindCustomerByName looks up a customer by case-insensitive name match
func (s *PostgresStore) FindCustomerByName(ctx context.Context, name string) (*domain.Customer, error) {
	var c domain.Customer
	err := s.db.QueryRow(ctx, `
		SELECT id, name, phone, email FROM customers WHERE LOWER(name) = LOWER($1) LIMIT 1
	`, name).Scan(&c.ID, &c.Name, &c.Phone, &c.Email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &RepositoryError{Op: "find_customer", Err: ErrNotFound}
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &c, nil
}

// CreateCustomer appends a customer to the roster
func (s *PostgresStore) CreateCustomer(ctx context.Context, customer *domain.Customer) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO customers (id, name, phone, email) VALUES ($1, $2, $3, $4)
	`, customer.ID, customer.Name, customer.Phone, customer.Email)
	if err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	return nil
}

// ListUsers returns all user accounts
func (s *PostgresStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, email, name, password_hash, role, status, registered_at
		FROM users
		ORDER BY registered_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.Status, &u.RegisteredAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// GetUserByID retrieves a user by ID
func (s *PostgresStore) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(ctx, `
		SELECT id, email, name, password_hash, role, status, registered_at
		FROM users WHERE id = $1
	`, userID).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.Status, &u.RegisteredAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &RepositoryError{Op: "get_user", Err: ErrNotFound}
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// GetUserByEmail retrieves a user by case-insensitive email match
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(ctx, `
		SELECT id, email, name, password_hash, role, status, registered_at
		FROM users WHERE LOWER(email) = LOWER($1)
	`, email).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.Status, &u.RegisteredAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &RepositoryError{Op: "get_user_by_email", Err: ErrNotFound}
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, nil
}

// CreateUser inserts a new user account
func (s *PostgresStore) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO users (id, email, name, password_hash, role, status, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, user.ID, user.Email, user.Name, user.PasswordHash, user.Role, user.Status, user.RegisteredAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// UpdateUserStatus sets a user's approval status
func (s *PostgresStore) UpdateUserStatus(ctx context.Context, userID string, status string) (*domain.User, error) {
	tag, err := s.db.Exec(ctx, `UPDATE users SET status = $1 WHERE id = $2`, status, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, &RepositoryError{Op: "update_user_status", Err: ErrNotFound}
	}
	return s.GetUserByID(ctx, userID)
}

// GetProfile returns the business profile, seeding the default on first read
func (s *PostgresStore) GetProfile(ctx context.Context) (*domain.BusinessProfile, error) {
	var data []byte
	err := s.db.QueryRow(ctx, `SELECT profile FROM business_profile WHERE id = 1`).Scan(&data)
	if err != nil {
		if err == pgx.ErrNoRows {
			profile := domain.DefaultProfile()
			if err := s.SaveProfile(ctx, &profile); err != nil {
				return nil, err
			}
			return &profile, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var profile domain.BusinessProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to deserialize profile: %w", err)
	}
	return &profile, nil
}

// SaveProfile upserts the single business profile row
func (s *PostgresStore) SaveProfile(ctx context.Context, profile *domain.BusinessProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to serialize profile: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO business_profile (id, profile) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET profile = EXCLUDED.profile
	`, data)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// scanInvoice reads one invoice row, decoding the JSONB snapshot columns
func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var inv domain.Invoice
	var customerJSON, itemsJSON []byte

	err := row.Scan(&inv.ID, &inv.Number, &inv.Date, &customerJSON, &itemsJSON, &inv.Notes,
		&inv.Status, &inv.Currency, &inv.Subtotal, &inv.Discount, &inv.TaxRate,
		&inv.Shipping, &inv.Handling, &inv.Packaging, &inv.Total)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(customerJSON, &inv.Customer); err != nil {
		return nil, fmt.Errorf("failed to deserialize customer: %w", err)
	}
	if err := json.Unmarshal(itemsJSON, &inv.Items); err != nil {
		return nil, fmt.Errorf("failed to deserialize items: %w", err)
	}
	return &inv, nil
}
