package store

import (
	"context"
	"sync"

	catalogerrors "github.com/abgdnv/stockroom/internal/catalog/errors"
	"github.com/google/uuid"
)

// inMemory implements ProductStore using an in-memory map.
type inMemory struct {
	mu       sync.RWMutex
	products map[uuid.UUID]Product
}

// NewInMemoryStore creates a new instance of ProductStore backed by a map.
func NewInMemoryStore() ProductStore {
	return &inMemory{
		products: make(map[uuid.UUID]Product),
	}
}

// FindByID retrieves a product by its ID.
func (s *inMemory) FindByID(_ context.Context, id uuid.UUID) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, catalogerrors.ErrProductNotFound
	}
	return &p, nil
}

// FindAll retrieves all products. Map iteration order is not deterministic.
func (s *inMemory) FindAll(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		list = append(list, p)
	}
	return list, nil
}

// Snapshot returns a copy of the full id-to-product mapping.
func (s *inMemory) Snapshot(_ context.Context) (map[uuid.UUID]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[uuid.UUID]Product, len(s.products))
	for id, p := range s.products {
		snapshot[id] = p
	}
	return snapshot, nil
}

// Create assigns a new ID to the product and stores it.
func (s *inMemory) Create(_ context.Context, product Product) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product.ID = uuid.New()
	s.products[product.ID] = product
	return &product, nil
}

// Update replaces the stored fields of an existing product, preserving its ID.
func (s *inMemory) Update(_ context.Context, product Product) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[product.ID]; !exists {
		return nil, catalogerrors.ErrProductNotFound
	}
	s.products[product.ID] = product
	return &product, nil
}

// DeleteByID deletes a product by its ID.
func (s *inMemory) DeleteByID(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[id]; !exists {
		return catalogerrors.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}
