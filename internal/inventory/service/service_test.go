package service

import (
	"context"
	"errors"
	"testing"

	"github.com/abgdnv/stockroom/internal/inventory/catalogclient"
	inventoryerrors "github.com/abgdnv/stockroom/internal/inventory/errors"
	"github.com/abgdnv/stockroom/internal/inventory/store"
	"github.com/abgdnv/stockroom/pkg/messaging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDirectory returns a fixed snapshot, or an error when set.
type stubDirectory struct {
	snapshot map[string]catalogclient.Product
	err      error
}

func (d *stubDirectory) Snapshot(_ context.Context) (map[string]catalogclient.Product, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.snapshot, nil
}

// capturingPublisher records every published event, or fails when set.
type capturingPublisher struct {
	events []messaging.Event
	err    error
}

func (p *capturingPublisher) Publish(_ context.Context, event messaging.Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func newTestService(t *testing.T, dir catalogclient.Directory) (*Service, store.RecordStore, *capturingPublisher) {
	t.Helper()
	records := store.NewInMemoryStore()
	publisher := &capturingPublisher{}
	return NewService(records, dir, publisher), records, publisher
}

func intPtr(v int) *int { return &v }

func Test_Create_Defaults(t *testing.T) {
	mockID := uuid.New()
	testCases := []struct {
		name            string
		dto             RecordCreateDto
		expectedStock   int
		expectedWarning int
	}{
		{
			name:            "Defaults - zero stock, global warning level",
			dto:             RecordCreateDto{ID: mockID, Name: "Milk", Category: "Dairy"},
			expectedStock:   0,
			expectedWarning: 10,
		},
		{
			name: "Explicit initial stock and warning level",
			dto: RecordCreateDto{
				ID:           mockID,
				Name:         "Milk",
				Category:     "Dairy",
				InitialStock: 50,
				WarningLevel: intPtr(5),
			},
			expectedStock:   50,
			expectedWarning: 5,
		},
		{
			name: "Explicit warning level zero is honored",
			dto: RecordCreateDto{
				ID:           mockID,
				Name:         "Milk",
				Category:     "Dairy",
				WarningLevel: intPtr(0),
			},
			expectedStock:   0,
			expectedWarning: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc, _, _ := newTestService(t, &stubDirectory{})
			// when
			created, err := svc.Create(context.Background(), tc.dto)
			// then
			require.NoError(t, err)
			assert.Equal(t, mockID.String(), created.ProductID)
			assert.Equal(t, "Milk", created.ProductName)
			assert.Equal(t, "Dairy", created.Category)
			assert.Equal(t, tc.expectedStock, created.CurrentStock)
			assert.Equal(t, tc.expectedWarning, created.WarningLevel)
			assert.Equal(t, "shelf-Dairy", created.Location)
		})
	}
}

func Test_Create_OverwritesExisting(t *testing.T) {
	// given
	mockID := uuid.New()
	svc, records, _ := newTestService(t, &stubDirectory{})
	_, err := svc.Create(context.Background(), RecordCreateDto{ID: mockID, Category: "Dairy", InitialStock: 50})
	require.NoError(t, err)
	// when: a second create for the same product silently replaces the record
	_, err = svc.Create(context.Background(), RecordCreateDto{ID: mockID, Category: "Bakery"})
	require.NoError(t, err)
	// then
	rec, err := records.FindByID(context.Background(), mockID)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.CurrentStock)
	assert.Equal(t, "shelf-Bakery", rec.Location)
}

func Test_AdjustStock(t *testing.T) {
	mockID := uuid.New()
	testCases := []struct {
		name          string
		initialStock  int
		delta         int
		expectedStock int
		expectError   error
	}{
		{
			name:          "Success - replenishment",
			initialStock:  5,
			delta:         45,
			expectedStock: 50,
		},
		{
			name:          "Success - withdrawal down to five",
			initialStock:  50,
			delta:         -45,
			expectedStock: 5,
		},
		{
			name:         "Error - withdrawal below zero is rejected",
			initialStock: 5,
			delta:        -10,
			expectError:  inventoryerrors.ErrInsufficientStock,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc, _, _ := newTestService(t, &stubDirectory{})
			_, err := svc.Create(context.Background(), RecordCreateDto{
				ID:           mockID,
				InitialStock: tc.initialStock,
				WarningLevel: intPtr(10),
			})
			require.NoError(t, err)
			// when
			adjusted, err := svc.AdjustStock(context.Background(), mockID, tc.delta)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				// a rejected adjustment leaves the stored value intact
				current, findErr := svc.FindByID(context.Background(), mockID)
				require.NoError(t, findErr)
				assert.Equal(t, tc.initialStock, current.CurrentStock)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedStock, adjusted.CurrentStock)
		})
	}
}

func Test_AdjustStock_NotFound(t *testing.T) {
	// given
	svc, _, _ := newTestService(t, &stubDirectory{})
	// when
	_, err := svc.AdjustStock(context.Background(), uuid.New(), 1)
	// then
	assert.ErrorIs(t, err, inventoryerrors.ErrRecordNotFound)
}

func Test_AdjustStock_PublishesEvents(t *testing.T) {
	// given: stock 50, warning 10
	mockID := uuid.New()
	svc, _, publisher := newTestService(t, &stubDirectory{})
	_, err := svc.Create(context.Background(), RecordCreateDto{
		ID:           mockID,
		Name:         "Milk",
		InitialStock: 50,
		WarningLevel: intPtr(10),
	})
	require.NoError(t, err)

	// when: withdrawal leaves the record low on stock
	adjusted, err := svc.AdjustStock(context.Background(), mockID, -45)

	// then: both the adjustment and the low-stock alert are published
	require.NoError(t, err)
	assert.True(t, adjusted.IsLowStock)
	require.Len(t, publisher.events, 2)
	assert.Equal(t, messaging.StockAdjustedSubject, publisher.events[0].Subject())
	assert.Equal(t, messaging.StockLowSubject, publisher.events[1].Subject())
}

func Test_AdjustStock_PublishFailureIsSwallowed(t *testing.T) {
	// given
	mockID := uuid.New()
	records := store.NewInMemoryStore()
	publisher := &capturingPublisher{err: errors.New("nats connection closed")}
	svc := NewService(records, &stubDirectory{}, publisher)
	_, err := svc.Create(context.Background(), RecordCreateDto{ID: mockID, InitialStock: 10})
	require.NoError(t, err)
	// when
	adjusted, err := svc.AdjustStock(context.Background(), mockID, 5)
	// then: the committed mutation is returned despite the publish failure
	require.NoError(t, err)
	assert.Equal(t, 15, adjusted.CurrentStock)
}

func Test_IsLowStock_Recomputed(t *testing.T) {
	// given: stock 5, warning 10 -> low
	mockID := uuid.New()
	svc, _, _ := newTestService(t, &stubDirectory{})
	_, err := svc.Create(context.Background(), RecordCreateDto{
		ID:           mockID,
		InitialStock: 5,
		WarningLevel: intPtr(10),
	})
	require.NoError(t, err)

	dto, err := svc.FindByID(context.Background(), mockID)
	require.NoError(t, err)
	assert.True(t, dto.IsLowStock)

	// when: the threshold drops below the stock level
	require.NoError(t, svc.SetWarningLevel(context.Background(), mockID, 3))

	// then: the flag flips on the next read without any stock mutation
	dto, err = svc.FindByID(context.Background(), mockID)
	require.NoError(t, err)
	assert.False(t, dto.IsLowStock)
}

func Test_SetGlobalWarningLevel_OverwritesAll(t *testing.T) {
	// given: two records with stock 50 and 100, both above the default threshold
	idA, idB := uuid.New(), uuid.New()
	svc, _, _ := newTestService(t, &stubDirectory{})
	_, err := svc.Create(context.Background(), RecordCreateDto{ID: idA, InitialStock: 50})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), RecordCreateDto{ID: idB, InitialStock: 100})
	require.NoError(t, err)

	// when
	require.NoError(t, svc.SetGlobalWarningLevel(context.Background(), 60))

	// then: the record with stock 50 becomes low, the one with 100 stays healthy
	level, err := svc.GlobalWarningLevel(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 60, level)

	low, err := svc.FindLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, idA.String(), low[0].ProductID)
}

func Test_Enrichment(t *testing.T) {
	knownID, orphanID := uuid.New(), uuid.New()
	dir := &stubDirectory{snapshot: map[string]catalogclient.Product{
		knownID.String(): {ID: knownID.String(), Name: "Milk", Category: "Dairy"},
	}}

	testCases := []struct {
		name             string
		productID        uuid.UUID
		expectedName     string
		expectedCategory string
	}{
		{
			name:             "Known product gets catalog fields",
			productID:        knownID,
			expectedName:     "Milk",
			expectedCategory: "Dairy",
		},
		{
			name:             "Orphaned record gets placeholders",
			productID:        orphanID,
			expectedName:     "unknown product",
			expectedCategory: "unknown",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc, records, _ := newTestService(t, dir)
			_, err := records.Upsert(context.Background(), store.Record{ProductID: tc.productID})
			require.NoError(t, err)
			// when
			dto, err := svc.FindByID(context.Background(), tc.productID)
			// then
			require.NoError(t, err)
			assert.Equal(t, tc.expectedName, dto.ProductName)
			assert.Equal(t, tc.expectedCategory, dto.Category)
		})
	}
}

func Test_Enrichment_SnapshotFailureDegradesToPlaceholders(t *testing.T) {
	// given
	mockID := uuid.New()
	svc, records, _ := newTestService(t, &stubDirectory{err: errors.New("catalog unreachable")})
	_, err := records.Upsert(context.Background(), store.Record{ProductID: mockID, CurrentStock: 7})
	require.NoError(t, err)
	// when
	dto, err := svc.FindByID(context.Background(), mockID)
	// then: the read still succeeds, rendered with placeholder catalog fields
	require.NoError(t, err)
	assert.Equal(t, "unknown product", dto.ProductName)
	assert.Equal(t, "unknown", dto.Category)
	assert.Equal(t, 7, dto.CurrentStock)
}

func Test_FindAll_Filters(t *testing.T) {
	idMilk, idBread, idWater := uuid.New(), uuid.New(), uuid.New()
	dir := &stubDirectory{snapshot: map[string]catalogclient.Product{
		idMilk.String():  {Name: "Milk", Category: "Dairy"},
		idBread.String(): {Name: "Bread", Category: "Bakery"},
		idWater.String(): {Name: "Mineral Water", Category: "Beverages"},
	}}

	testCases := []struct {
		name          string
		filter        Filter
		expectedNames []string
	}{
		{
			name:          "No filter returns everything",
			filter:        Filter{},
			expectedNames: []string{"Milk", "Bread", "Mineral Water"},
		},
		{
			name:          "Name is a case-insensitive substring match",
			filter:        Filter{Name: "water"},
			expectedNames: []string{"Mineral Water"},
		},
		{
			name:          "Category is a case-insensitive exact match",
			filter:        Filter{Category: "dairy"},
			expectedNames: []string{"Milk"},
		},
		{
			name:          "Stock bounds are inclusive",
			filter:        Filter{MinStock: intPtr(20), MaxStock: intPtr(30)},
			expectedNames: []string{"Bread"},
		},
		{
			name:          "Conjunction of filters",
			filter:        Filter{Name: "m", MinStock: intPtr(50)},
			expectedNames: []string{"Mineral Water"},
		},
		{
			name:          "No match returns empty slice",
			filter:        Filter{Category: "Frozen"},
			expectedNames: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given: Milk at 10, Bread at 30, Mineral Water at 50
			svc, _, _ := newTestService(t, dir)
			for id, stock := range map[uuid.UUID]int{idMilk: 10, idBread: 30, idWater: 50} {
				_, err := svc.Create(context.Background(), RecordCreateDto{ID: id, InitialStock: stock})
				require.NoError(t, err)
			}
			// when
			list, err := svc.FindAll(context.Background(), tc.filter)
			// then
			require.NoError(t, err)
			names := make([]string, 0, len(list))
			for _, dto := range list {
				names = append(names, dto.ProductName)
			}
			assert.ElementsMatch(t, tc.expectedNames, names)
		})
	}
}

func Test_Stats(t *testing.T) {
	// given: stock levels 5, 30, 50 against the default warning level of 10
	svc, _, _ := newTestService(t, &stubDirectory{})
	for _, stock := range []int{5, 30, 50} {
		_, err := svc.Create(context.Background(), RecordCreateDto{ID: uuid.New(), InitialStock: stock})
		require.NoError(t, err)
	}
	// when
	stats, err := svc.Stats(context.Background())
	// then
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalProducts)
	assert.Equal(t, 1, stats.LowStockCount)
	assert.Equal(t, 2, stats.HealthyStockCount)
	assert.Equal(t, 85, stats.TotalStockValue)
	assert.Equal(t, stats.TotalProducts, stats.LowStockCount+stats.HealthyStockCount)
}

func Test_DailyReport(t *testing.T) {
	// given
	idMilk, idBread := uuid.New(), uuid.New()
	dir := &stubDirectory{snapshot: map[string]catalogclient.Product{
		idMilk.String():  {Name: "Milk", Category: "Dairy"},
		idBread.String(): {Name: "Bread", Category: "Bakery"},
	}}
	svc, _, _ := newTestService(t, dir)
	_, err := svc.Create(context.Background(), RecordCreateDto{ID: idMilk, InitialStock: 5})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), RecordCreateDto{ID: idBread, InitialStock: 40})
	require.NoError(t, err)
	// when
	report, err := svc.DailyReport(context.Background())
	// then
	require.NoError(t, err)
	assert.False(t, report.GeneratedAt.IsZero())
	assert.Equal(t, 2, report.TotalProducts)
	assert.Equal(t, map[string]int{"Dairy": 1, "Bakery": 1}, report.CategoryDistribution)
	require.Len(t, report.LowStockProducts, 1)
	assert.Equal(t, "Milk", report.LowStockProducts[0].ProductName)
	assert.Equal(t, 5, report.LowStockProducts[0].CurrentStock)
	assert.Equal(t, 10, report.LowStockProducts[0].WarningLevel)
}

func Test_Delete_Idempotent(t *testing.T) {
	// given
	mockID := uuid.New()
	svc, _, _ := newTestService(t, &stubDirectory{})
	_, err := svc.Create(context.Background(), RecordCreateDto{ID: mockID})
	require.NoError(t, err)
	// when / then
	require.NoError(t, svc.Delete(context.Background(), mockID))
	require.NoError(t, svc.Delete(context.Background(), mockID))

	_, err = svc.FindByID(context.Background(), mockID)
	assert.ErrorIs(t, err, inventoryerrors.ErrRecordNotFound)
}

func Test_WarningLevel(t *testing.T) {
	// given
	mockID := uuid.New()
	svc, _, _ := newTestService(t, &stubDirectory{})
	_, err := svc.Create(context.Background(), RecordCreateDto{ID: mockID, WarningLevel: intPtr(15)})
	require.NoError(t, err)
	// when
	level, err := svc.WarningLevel(context.Background(), mockID)
	// then
	require.NoError(t, err)
	assert.Equal(t, 15, level)

	_, err = svc.WarningLevel(context.Background(), uuid.New())
	assert.ErrorIs(t, err, inventoryerrors.ErrRecordNotFound)
}
