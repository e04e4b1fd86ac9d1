// Package service provides the implementation of inventory business logic.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abgdnv/stockroom/internal/inventory/catalogclient"
	"github.com/abgdnv/stockroom/internal/inventory/store"
	"github.com/abgdnv/stockroom/pkg/messaging"
	"github.com/abgdnv/stockroom/pkg/messaging/events"
	"github.com/google/uuid"
)

// Placeholder values rendered when a record references a product the catalog
// no longer knows about. Records are allowed to outlive their catalog entry.
const (
	unknownProductName = "unknown product"
	unknownCategory    = "unknown"
)

// InventoryService defines the methods for managing inventory records.
// It abstracts the underlying business logic and data access.
type InventoryService interface {
	// Create inserts a record for a product, silently overwriting any existing
	// record for the same product. Stock defaults to zero and the warning
	// level to the global default when the caller specifies neither. The
	// record's location is derived from the product category at creation time
	// and never updated afterwards.
	Create(ctx context.Context, record RecordCreateDto) (*RecordDto, error)

	// Delete removes the record for the product if present.
	// Deleting an absent record is not an error.
	Delete(ctx context.Context, productID uuid.UUID) error

	// FindByID returns the enriched record for the product.
	// Returns ErrRecordNotFound if no record exists for the product.
	FindByID(ctx context.Context, productID uuid.UUID) (*RecordDto, error)

	// FindAll returns all enriched records matching the filter, in
	// unspecified order.
	FindAll(ctx context.Context, filter Filter) ([]RecordDto, error)

	// FindLowStock returns all enriched records whose stock is at or below
	// their warning level.
	FindLowStock(ctx context.Context) ([]RecordDto, error)

	// AdjustStock applies a delta to the record's stock level.
	// Returns ErrRecordNotFound if no record exists for the product and
	// ErrInsufficientStock if the delta would drive the stock negative.
	AdjustStock(ctx context.Context, productID uuid.UUID, delta int) (*RecordDto, error)

	// WarningLevel returns the threshold for one record.
	// Returns ErrRecordNotFound if no record exists for the product.
	WarningLevel(ctx context.Context, productID uuid.UUID) (int, error)

	// SetWarningLevel overwrites the threshold for one record. Negative
	// levels are accepted as documented on the store.
	// Returns ErrRecordNotFound if no record exists for the product.
	SetWarningLevel(ctx context.Context, productID uuid.UUID, level int) error

	// GlobalWarningLevel returns the default threshold for new records.
	GlobalWarningLevel(ctx context.Context) (int, error)

	// SetGlobalWarningLevel sets the default threshold AND overwrites the
	// threshold of every existing record.
	SetGlobalWarningLevel(ctx context.Context, level int) error

	// Stats returns aggregate counters over all records.
	Stats(ctx context.Context) (*StatsDto, error)

	// DailyReport returns the aggregate counters plus a per-category record
	// count and the low-stock records, with a generation timestamp.
	DailyReport(ctx context.Context) (*ReportDto, error)
}

// Service implements InventoryService and provides methods to manage records.
type Service struct {
	records   store.RecordStore
	catalog   catalogclient.Directory
	publisher messaging.Publisher
}

// NewService creates a new instance of InventoryService with the provided
// record store, catalog directory and event publisher.
func NewService(records store.RecordStore, catalog catalogclient.Directory, publisher messaging.Publisher) *Service {
	return &Service{
		records:   records,
		catalog:   catalog,
		publisher: publisher,
	}
}

// RecordCreateDto represents the payload of the internal create endpoint.
// InitialStock and WarningLevel are optional; the catalog sync call sets
// neither and gets the documented defaults.
type RecordCreateDto struct {
	ID           uuid.UUID `json:"id" validate:"required"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	InitialStock int       `json:"initial_stock"`
	WarningLevel *int      `json:"warning_level"`
}

// RecordDto represents an enriched inventory record. ProductName and
// Category come from the catalog snapshot; IsLowStock is recomputed on
// every read, never stored.
type RecordDto struct {
	ProductID    string    `json:"product_id"`
	ProductName  string    `json:"product_name"`
	Category     string    `json:"category"`
	CurrentStock int       `json:"current_stock"`
	WarningLevel int       `json:"warning_level"`
	Location     string    `json:"location"`
	IsLowStock   bool      `json:"is_low_stock"`
	LastUpdate   time.Time `json:"last_update"`
}

// Filter restricts FindAll results. Zero-valued fields impose no constraint;
// all present fields must match (conjunction).
type Filter struct {
	Name     string // case-insensitive substring match on the enriched name
	Category string // case-insensitive exact match on the enriched category
	MinStock *int
	MaxStock *int
}

// StatsDto carries the aggregate counters over all records.
// TotalStockValue is the sum of stock levels across records.
type StatsDto struct {
	TotalProducts     int `json:"total_products"`
	LowStockCount     int `json:"low_stock_count"`
	HealthyStockCount int `json:"healthy_stock_count"`
	TotalStockValue   int `json:"total_stock_value"`
}

// ReportDto is the daily report payload.
type ReportDto struct {
	GeneratedAt          time.Time         `json:"generated_at"`
	TotalProducts        int               `json:"total_products"`
	LowStockCount        int               `json:"low_stock_count"`
	HealthyStockCount    int               `json:"healthy_stock_count"`
	TotalStockValue      int               `json:"total_stock_value"`
	CategoryDistribution map[string]int    `json:"category_distribution"`
	LowStockProducts     []LowStockItemDto `json:"low_stock_products"`
}

// LowStockItemDto is the reduced low-stock entry used in the daily report.
type LowStockItemDto struct {
	ProductName  string `json:"product_name"`
	CurrentStock int    `json:"current_stock"`
	WarningLevel int    `json:"warning_level"`
}

// Create inserts a record for a product, overwriting any existing one.
func (s *Service) Create(ctx context.Context, record RecordCreateDto) (*RecordDto, error) {
	warning := 0
	if record.WarningLevel != nil {
		warning = *record.WarningLevel
	} else {
		globalLevel, err := s.records.GlobalWarningLevel(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read global warning level: %w", err)
		}
		warning = globalLevel
	}

	created, err := s.records.Upsert(ctx, store.Record{
		ProductID:    record.ID,
		CurrentStock: record.InitialStock,
		WarningLevel: warning,
		Location:     "shelf-" + record.Category,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create inventory record for product %s: %w", record.ID, err)
	}

	// The catalog fields are known from the payload here, so no snapshot
	// round trip is needed for the response.
	dto := toDto(created, record.Name, record.Category)
	return &dto, nil
}

// Delete removes the record for the product if present.
func (s *Service) Delete(ctx context.Context, productID uuid.UUID) error {
	return s.records.DeleteByID(ctx, productID)
}

// FindByID returns the enriched record for the product.
func (s *Service) FindByID(ctx context.Context, productID uuid.UUID) (*RecordDto, error) {
	rec, err := s.records.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inventory record for product %s: %w", productID, err)
	}
	dto := s.enrichOne(ctx, rec)
	return &dto, nil
}

// FindAll returns all enriched records matching the filter.
func (s *Service) FindAll(ctx context.Context, filter Filter) ([]RecordDto, error) {
	enriched, err := s.enrichAll(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]RecordDto, 0, len(enriched))
	for _, dto := range enriched {
		if filter.matches(dto) {
			list = append(list, dto)
		}
	}
	return list, nil
}

// FindLowStock returns all enriched records flagged as low-stock.
func (s *Service) FindLowStock(ctx context.Context) ([]RecordDto, error) {
	enriched, err := s.enrichAll(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]RecordDto, 0, len(enriched))
	for _, dto := range enriched {
		if dto.IsLowStock {
			list = append(list, dto)
		}
	}
	return list, nil
}

// AdjustStock applies a delta to the record's stock level and publishes
// stock events. Publish failures are logged, never surfaced: the mutation
// is already committed.
func (s *Service) AdjustStock(ctx context.Context, productID uuid.UUID, delta int) (*RecordDto, error) {
	adjusted, err := s.records.AdjustStock(ctx, productID, delta)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust stock for product %s: %w", productID, err)
	}

	dto := s.enrichOne(ctx, adjusted)

	if err := s.publisher.Publish(ctx, events.StockAdjustedEvent{
		ProductID:  productID,
		Delta:      delta,
		NewStock:   adjusted.CurrentStock,
		AdjustedAt: adjusted.LastUpdate,
	}); err != nil {
		slog.ErrorContext(ctx, "Failed to publish StockAdjustedEvent", "ID", productID, "error", err)
	}
	if dto.IsLowStock {
		if err := s.publisher.Publish(ctx, events.StockLowEvent{
			ProductID:    productID,
			ProductName:  dto.ProductName,
			CurrentStock: dto.CurrentStock,
			WarningLevel: dto.WarningLevel,
			DetectedAt:   adjusted.LastUpdate,
		}); err != nil {
			slog.ErrorContext(ctx, "Failed to publish StockLowEvent", "ID", productID, "error", err)
		}
	}

	return &dto, nil
}

// WarningLevel returns the threshold for one record.
func (s *Service) WarningLevel(ctx context.Context, productID uuid.UUID) (int, error) {
	rec, err := s.records.FindByID(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch inventory record for product %s: %w", productID, err)
	}
	return rec.WarningLevel, nil
}

// SetWarningLevel overwrites the threshold for one record.
func (s *Service) SetWarningLevel(ctx context.Context, productID uuid.UUID, level int) error {
	if _, err := s.records.SetWarningLevel(ctx, productID, level); err != nil {
		return fmt.Errorf("failed to set warning level for product %s: %w", productID, err)
	}
	return nil
}

// GlobalWarningLevel returns the default threshold for new records.
func (s *Service) GlobalWarningLevel(ctx context.Context) (int, error) {
	return s.records.GlobalWarningLevel(ctx)
}

// SetGlobalWarningLevel sets the default threshold and overwrites every
// existing record's threshold.
func (s *Service) SetGlobalWarningLevel(ctx context.Context, level int) error {
	return s.records.SetGlobalWarningLevel(ctx, level)
}

// Stats returns aggregate counters over all records.
func (s *Service) Stats(ctx context.Context) (*StatsDto, error) {
	enriched, err := s.enrichAll(ctx)
	if err != nil {
		return nil, err
	}
	stats := computeStats(enriched)
	return &stats, nil
}

// DailyReport returns the aggregate counters plus a per-category breakdown
// and the low-stock records reduced to name/stock/threshold triples.
func (s *Service) DailyReport(ctx context.Context) (*ReportDto, error) {
	enriched, err := s.enrichAll(ctx)
	if err != nil {
		return nil, err
	}
	stats := computeStats(enriched)

	categories := make(map[string]int)
	lowStock := make([]LowStockItemDto, 0)
	for _, dto := range enriched {
		categories[dto.Category]++
		if dto.IsLowStock {
			lowStock = append(lowStock, LowStockItemDto{
				ProductName:  dto.ProductName,
				CurrentStock: dto.CurrentStock,
				WarningLevel: dto.WarningLevel,
			})
		}
	}

	return &ReportDto{
		GeneratedAt:          time.Now(),
		TotalProducts:        stats.TotalProducts,
		LowStockCount:        stats.LowStockCount,
		HealthyStockCount:    stats.HealthyStockCount,
		TotalStockValue:      stats.TotalStockValue,
		CategoryDistribution: categories,
		LowStockProducts:     lowStock,
	}, nil
}

// enrichAll loads all records and enriches them against one catalog snapshot.
func (s *Service) enrichAll(ctx context.Context) ([]RecordDto, error) {
	records, err := s.records.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inventory records: %w", err)
	}
	snapshot := s.snapshot(ctx)

	list := make([]RecordDto, len(records))
	for i, rec := range records {
		list[i] = enrich(&rec, snapshot)
	}
	return list, nil
}

// enrichOne enriches a single record against a fresh catalog snapshot.
func (s *Service) enrichOne(ctx context.Context, rec *store.Record) RecordDto {
	return enrich(rec, s.snapshot(ctx))
}

// snapshot fetches the catalog mapping. A failed call degrades to an empty
// snapshot so reads keep working with placeholder values.
func (s *Service) snapshot(ctx context.Context) map[string]catalogclient.Product {
	snapshot, err := s.catalog.Snapshot(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to fetch catalog snapshot, rendering placeholders", "error", err)
		return map[string]catalogclient.Product{}
	}
	return snapshot
}

// enrich resolves the record's product against the snapshot and derives the
// low-stock flag.
func enrich(rec *store.Record, snapshot map[string]catalogclient.Product) RecordDto {
	name, category := unknownProductName, unknownCategory
	if product, ok := snapshot[rec.ProductID.String()]; ok {
		name, category = product.Name, product.Category
	}
	return toDto(rec, name, category)
}

// matches reports whether the enriched record satisfies every present
// filter field.
func (f Filter) matches(dto RecordDto) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(dto.ProductName), strings.ToLower(f.Name)) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(dto.Category, f.Category) {
		return false
	}
	if f.MinStock != nil && dto.CurrentStock < *f.MinStock {
		return false
	}
	if f.MaxStock != nil && dto.CurrentStock > *f.MaxStock {
		return false
	}
	return true
}

// computeStats derives the aggregate counters from enriched records.
func computeStats(enriched []RecordDto) StatsDto {
	stats := StatsDto{TotalProducts: len(enriched)}
	for _, dto := range enriched {
		if dto.IsLowStock {
			stats.LowStockCount++
		}
		stats.TotalStockValue += dto.CurrentStock
	}
	stats.HealthyStockCount = stats.TotalProducts - stats.LowStockCount
	return stats
}

// toDto converts a store.Record and its catalog fields to a RecordDto.
func toDto(rec *store.Record, name, category string) RecordDto {
	return RecordDto{
		ProductID:    rec.ProductID.String(),
		ProductName:  name,
		Category:     category,
		CurrentStock: rec.CurrentStock,
		WarningLevel: rec.WarningLevel,
		Location:     rec.Location,
		IsLowStock:   rec.CurrentStock <= rec.WarningLevel,
		LastUpdate:   rec.LastUpdate,
	}
}
