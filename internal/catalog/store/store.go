// Package store provides an interface for product storage operations.
package store

import (
	"context"

	"github.com/google/uuid"
)

// Product represents a product entity in the catalog.
// Prices are stored in minor currency units (cents).
type Product struct {
	ID        uuid.UUID
	Name      string
	Category  string
	Unit      string
	SalePrice int64
	CostPrice int64
	IsActive  bool
}

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type ProductStore interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindAll returns all available products in unspecified order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]Product, error)

	// Snapshot returns the full id-to-product mapping. It backs the internal
	// endpoint the inventory service uses for enrichment.
	Snapshot(ctx context.Context) (map[uuid.UUID]Product, error)

	// Create adds a new product to the catalog and assigns its identifier.
	Create(ctx context.Context, product Product) (*Product, error)

	// Update replaces the stored fields of an existing product, preserving its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, product Product) (*Product, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
