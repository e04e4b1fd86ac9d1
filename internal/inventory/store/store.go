// Package store provides an interface for inventory record storage operations.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record represents a stock record for a single product.
//
// ProductID references the catalog, but the reference is not enforced here:
// a record may outlive its product and is then rendered with placeholder
// catalog fields at read time.
type Record struct {
	ProductID    uuid.UUID
	CurrentStock int
	WarningLevel int
	Location     string
	LastUpdate   time.Time
}

// RecordStore is an interface for inventory record storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
//
// The store also owns the global warning level: the default threshold for
// newly created records. Setting it overwrites the threshold of every
// existing record as well; that mass mutation is part of the contract.
type RecordStore interface {
	// FindByID retrieves a single record by product ID.
	// Returns ErrRecordNotFound if no record exists for the product.
	FindByID(ctx context.Context, productID uuid.UUID) (*Record, error)

	// FindAll returns all records in unspecified order.
	// Returns an empty slice if no records exist.
	FindAll(ctx context.Context) ([]Record, error)

	// Upsert inserts a record, silently overwriting any existing record for
	// the same product.
	Upsert(ctx context.Context, record Record) (*Record, error)

	// DeleteByID removes the record for the product if present.
	// Deleting an absent record is not an error.
	DeleteByID(ctx context.Context, productID uuid.UUID) error

	// AdjustStock applies a delta to the record's stock level and bumps its
	// last-update time, atomically with respect to this operation.
	// Returns ErrRecordNotFound if no record exists for the product and
	// ErrInsufficientStock if the delta would drive the stock negative;
	// in the latter case the stored value is unchanged.
	AdjustStock(ctx context.Context, productID uuid.UUID, delta int) (*Record, error)

	// SetWarningLevel overwrites the threshold for one record. Negative levels
	// are accepted: such a record can never be low-stock while stock is >= 0.
	// Returns ErrRecordNotFound if no record exists for the product.
	SetWarningLevel(ctx context.Context, productID uuid.UUID, level int) (*Record, error)

	// GlobalWarningLevel returns the default threshold applied to new records.
	GlobalWarningLevel(ctx context.Context) (int, error)

	// SetGlobalWarningLevel sets the default threshold for new records AND
	// overwrites the threshold of every existing record. There is no
	// selective opt-out.
	SetGlobalWarningLevel(ctx context.Context, level int) error
}
