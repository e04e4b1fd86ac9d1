package store

import (
	"context"
	"sync"
	"time"

	inventoryerrors "github.com/abgdnv/stockroom/internal/inventory/errors"
	"github.com/google/uuid"
)

// defaultGlobalWarningLevel is the threshold applied to new records until
// the global warning level is changed.
const defaultGlobalWarningLevel = 10

// inMemory implements RecordStore using an in-memory map.
// A single RWMutex serializes mutations store-wide.
type inMemory struct {
	mu            sync.RWMutex
	records       map[uuid.UUID]Record
	globalWarning int
}

// NewInMemoryStore creates a new instance of RecordStore backed by a map.
func NewInMemoryStore() RecordStore {
	return &inMemory{
		records:       make(map[uuid.UUID]Record),
		globalWarning: defaultGlobalWarningLevel,
	}
}

// FindByID retrieves a record by product ID.
func (s *inMemory) FindByID(_ context.Context, productID uuid.UUID) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[productID]
	if !ok {
		return nil, inventoryerrors.ErrRecordNotFound
	}
	return &rec, nil
}

// FindAll retrieves all records. Map iteration order is not deterministic.
func (s *inMemory) FindAll(_ context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		list = append(list, rec)
	}
	return list, nil
}

// Upsert inserts a record, silently overwriting any existing one.
func (s *inMemory) Upsert(_ context.Context, record Record) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record.LastUpdate = time.Now()
	s.records[record.ProductID] = record
	return &record, nil
}

// DeleteByID removes the record if present. Absence is not an error.
func (s *inMemory) DeleteByID(_ context.Context, productID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, productID)
	return nil
}

// AdjustStock applies a delta to the stock level under the store lock.
func (s *inMemory) AdjustStock(_ context.Context, productID uuid.UUID, delta int) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[productID]
	if !ok {
		return nil, inventoryerrors.ErrRecordNotFound
	}
	newStock := rec.CurrentStock + delta
	if newStock < 0 {
		return nil, inventoryerrors.ErrInsufficientStock
	}
	rec.CurrentStock = newStock
	rec.LastUpdate = time.Now()
	s.records[productID] = rec
	return &rec, nil
}

// SetWarningLevel overwrites the threshold for one record.
func (s *inMemory) SetWarningLevel(_ context.Context, productID uuid.UUID, level int) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[productID]
	if !ok {
		return nil, inventoryerrors.ErrRecordNotFound
	}
	rec.WarningLevel = level
	s.records[productID] = rec
	return &rec, nil
}

// GlobalWarningLevel returns the default threshold for new records.
func (s *inMemory) GlobalWarningLevel(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.globalWarning, nil
}

// SetGlobalWarningLevel sets the default and overwrites every record's threshold.
func (s *inMemory) SetGlobalWarningLevel(_ context.Context, level int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.globalWarning = level
	for id, rec := range s.records {
		rec.WarningLevel = level
		s.records[id] = rec
	}
	return nil
}
