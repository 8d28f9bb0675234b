package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rahu431/snapbill-service/internal/billing"
	"github.com/rahu431/snapbill-service/internal/domain"
	"github.com/rahu431/snapbill-service/internal/imaging"
	"github.com/rahu431/snapbill-service/internal/repository"
	"github.com/rahu431/snapbill-service/internal/storage"
)

// Catalog validation errors
var (
	ErrEmptyProductName = errors.New("product name is required")
	ErrNoImageStore     = errors.New("image storage is not configured")
)

// CatalogService manages the product catalog, the customer roster and the
// business profile
type CatalogService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
	AttachProductImage(ctx context.Context, productID string, imageData []byte) (*domain.Product, error)

	ListCustomers(ctx context.Context) ([]domain.Customer, error)

	GetProfile(ctx context.Context) (*domain.BusinessProfile, error)
	UpdateProfile(ctx context.Context, profile *domain.BusinessProfile) (*domain.BusinessProfile, error)
}

type catalogService struct {
	store  repository.Store
	images storage.ImageStore
}

// NewCatalogService creates a new catalog service. The image store may be nil
// when no object storage is configured; image uploads then fail cleanly.
func NewCatalogService(store repository.Store, images storage.ImageStore) CatalogService {
	return &catalogService{store: store, images: images}
}

// ListProducts returns the full product catalog
func (s *catalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.store.ListProducts(ctx)
}

// GetProduct retrieves a single product
func (s *catalogService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	return s.store.GetProductByID(ctx, productID)
}

// CreateProduct adds a product to the catalog. Numeric fields are sanitized
// so a malformed payload cannot poison later invoice math.
func (s *catalogService) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		return nil, ErrEmptyProductName
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	product.Price = billing.Sanitize(product.Price)
	product.Stock = billing.Sanitize(product.Stock)

	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to store product: %w", err)
	}
	return product, nil
}

// UpdateProduct replaces an existing product's details
func (s *catalogService) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		return nil, ErrEmptyProductName
	}
	product.Price = billing.Sanitize(product.Price)
	product.Stock = billing.Sanitize(product.Stock)

	if err := s.store.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product. Invoices referencing it keep their
// snapshotted line items.
func (s *catalogService) DeleteProduct(ctx context.Context, productID string) error {
	return s.store.DeleteProduct(ctx, productID)
}

// AttachProductImage normalizes an uploaded photo, stores it and records its
// public URL on the product
func (s *catalogService) AttachProductImage(ctx context.Context, productID string, imageData []byte) (*domain.Product, error) {
	if s.images == nil {
		return nil, ErrNoImageStore
	}

	product, err := s.store.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	normalized, err := imaging.NormalizeProductImage(imageData)
	if err != nil {
		return nil, fmt.Errorf("failed to process image: %w", err)
	}

	url, err := s.images.UploadProductImage(ctx, product.ID, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	product.Image = url
	if err := s.store.UpdateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save image url: %w", err)
	}
	return product, nil
}

// ListCustomers returns the customer roster
func (s *catalogService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.store.ListCustomers(ctx)
}

// GetProfile returns the business profile
func (s *catalogService) GetProfile(ctx context.Context) (*domain.BusinessProfile, error) {
	return s.store.GetProfile(ctx)
}

// UpdateProfile saves the business profile. Default fee values are sanitized
// since they feed directly into invoice creation.
func (s *catalogService) UpdateProfile(ctx context.Context, profile *domain.BusinessProfile) (*domain.BusinessProfile, error) {
	profile.Name = strings.TrimSpace(profile.Name)
	if profile.Name == "" {
		profile.Name = domain.DefaultProfile().Name
	}
	if profile.Currency == "" {
		profile.Currency = domain.DefaultProfile().Currency
	}
	profile.DefaultTaxRate = billing.Sanitize(profile.DefaultTaxRate)
	profile.DefaultHandling = billing.Sanitize(profile.DefaultHandling)
	profile.DefaultPackaging = billing.Sanitize(profile.DefaultPackaging)

	if err := s.store.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return profile, nil
}
