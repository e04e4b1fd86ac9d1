// Package service provides the implementation of catalog business logic.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abgdnv/stockroom/internal/catalog/notify"
	"github.com/abgdnv/stockroom/internal/catalog/store"
	"github.com/google/uuid"
)

// ProductService defines the methods for managing catalog products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*ProductDto, error)

	// FindAll returns all available products in unspecified order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// Create adds a new product to the catalog and notifies the inventory
	// service so a stock record is created alongside it. The notification is
	// fire-and-forget: a sync failure is logged and the product is still
	// considered created.
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// Update replaces an existing product's fields, preserving its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	// The inventory record is NOT re-synchronized: its location keeps the
	// category the product had at creation time.
	Update(ctx context.Context, id uuid.UUID, product ProductCreateDto) (*ProductDto, error)

	// DeleteByID removes a product and notifies the inventory service so the
	// stock record is dropped. The notification follows the same
	// fire-and-forget policy as Create.
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// Snapshot returns the full id-to-product mapping for the inventory
	// service's enrichment step. Internal-only, not a public API surface.
	Snapshot(ctx context.Context) (map[string]ProductDto, error)
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository store.ProductStore
	notifier   notify.InventoryNotifier
}

// NewService creates a new instance of ProductService with the provided
// repository and inventory notifier.
func NewService(repo store.ProductStore, notifier notify.InventoryNotifier) *Service {
	return &Service{
		repository: repo,
		notifier:   notifier,
	}
}

// ProductCreateDto represents the data transfer object for creating a new product.
type ProductCreateDto struct {
	Name      string `json:"name"       validate:"required,max=100"`
	Category  string `json:"category"   validate:"required,max=100"`
	Unit      string `json:"unit"       validate:"max=20"`
	SalePrice int64  `json:"sale_price" validate:"min=0"`
	CostPrice int64  `json:"cost_price" validate:"min=0"`
	IsActive  bool   `json:"is_active"`
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID        string `json:"id"`
	Name      string `json:"name"       validate:"required,max=100"`
	Category  string `json:"category"   validate:"required,max=100"`
	Unit      string `json:"unit"       validate:"max=20"`
	SalePrice int64  `json:"sale_price" validate:"min=0"`
	CostPrice int64  `json:"cost_price" validate:"min=0"`
	IsActive  bool   `json:"is_active"`
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*ProductDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", id, err)
	}

	return toDto(product), nil
}

// FindAll retrieves a list of all products and returns them as ProductDtos.
func (s *Service) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	productDtos := make([]ProductDto, len(products))

	for i, item := range products {
		productDtos[i] = *toDto(&item)
	}

	return productDtos, nil
}

// Create creates a new product and returns it as a ProductDto.
// The inventory sync call is fire-and-forget: its error is logged, never surfaced.
func (s *Service) Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error) {
	created, err := s.repository.Create(ctx, store.Product{
		Name:      product.Name,
		Category:  product.Category,
		Unit:      product.Unit,
		SalePrice: product.SalePrice,
		CostPrice: product.CostPrice,
		IsActive:  product.IsActive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	if err := s.notifier.ProductCreated(ctx, notify.ProductRef{
		ID:       created.ID,
		Name:     created.Name,
		Category: created.Category,
	}); err != nil {
		slog.ErrorContext(ctx, "Failed to create inventory record for product", "ID", created.ID, "error", err)
	}

	return toDto(created), nil
}

// Update replaces an existing product's fields and returns the updated product.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) Update(ctx context.Context, id uuid.UUID, product ProductCreateDto) (*ProductDto, error) {
	updated, err := s.repository.Update(ctx, store.Product{
		ID:        id,
		Name:      product.Name,
		Category:  product.Category,
		Unit:      product.Unit,
		SalePrice: product.SalePrice,
		CostPrice: product.CostPrice,
		IsActive:  product.IsActive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %s: %w", id, err)
	}

	return toDto(updated), nil
}

// DeleteByID deletes a product by its ID and notifies the inventory service.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if err := s.repository.DeleteByID(ctx, id); err != nil {
		return err
	}

	if err := s.notifier.ProductDeleted(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to delete inventory record for product", "ID", id, "error", err)
	}
	return nil
}

// Snapshot returns the full id-to-product mapping as DTOs.
func (s *Service) Snapshot(ctx context.Context) (map[string]ProductDto, error) {
	products, err := s.repository.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product snapshot: %w", err)
	}
	snapshot := make(map[string]ProductDto, len(products))
	for id, p := range products {
		snapshot[id.String()] = *toDto(&p)
	}
	return snapshot, nil
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:        product.ID.String(),
		Name:      product.Name,
		Category:  product.Category,
		Unit:      product.Unit,
		SalePrice: product.SalePrice,
		CostPrice: product.CostPrice,
		IsActive:  product.IsActive,
	}
}
