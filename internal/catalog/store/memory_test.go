package store

import (
	"context"
	"testing"

	catalogerrors "github.com/abgdnv/stockroom/internal/catalog/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_InMemory_CreateAndFind(t *testing.T) {
	// given
	s := NewInMemoryStore()
	// when
	created, err := s.Create(context.Background(), Product{Name: "Milk", Category: "Dairy", IsActive: true})
	// then
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	found, err := s.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Milk", found.Name)
	assert.Equal(t, "Dairy", found.Category)
	assert.True(t, found.IsActive)
}

func Test_InMemory_FindByID_NotFound(t *testing.T) {
	s := NewInMemoryStore()
	_, err := s.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, catalogerrors.ErrProductNotFound)
}

func Test_InMemory_FindAll(t *testing.T) {
	// given
	s := NewInMemoryStore()
	for _, name := range []string{"Milk", "Bread"} {
		_, err := s.Create(context.Background(), Product{Name: name})
		require.NoError(t, err)
	}
	// when
	list, err := s.FindAll(context.Background())
	// then
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func Test_InMemory_Update(t *testing.T) {
	testCases := []struct {
		name        string
		exists      bool
		expectError error
	}{
		{
			name:   "Success - fields replaced, ID preserved",
			exists: true,
		},
		{
			name:        "Error - product not found",
			exists:      false,
			expectError: catalogerrors.ErrProductNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			s := NewInMemoryStore()
			id := uuid.New()
			if tc.exists {
				created, err := s.Create(context.Background(), Product{Name: "Milk", Category: "Dairy"})
				require.NoError(t, err)
				id = created.ID
			}
			// when
			updated, err := s.Update(context.Background(), Product{ID: id, Name: "Whole Milk", Category: "Dairy"})
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, id, updated.ID)
			assert.Equal(t, "Whole Milk", updated.Name)
		})
	}
}

func Test_InMemory_DeleteByID(t *testing.T) {
	// given
	s := NewInMemoryStore()
	created, err := s.Create(context.Background(), Product{Name: "Milk"})
	require.NoError(t, err)
	// when
	require.NoError(t, s.DeleteByID(context.Background(), created.ID))
	// then
	_, err = s.FindByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, catalogerrors.ErrProductNotFound)
	// deleting again fails: the catalog delete is not idempotent
	assert.ErrorIs(t, s.DeleteByID(context.Background(), created.ID), catalogerrors.ErrProductNotFound)
}

func Test_InMemory_Snapshot(t *testing.T) {
	// given
	s := NewInMemoryStore()
	created, err := s.Create(context.Background(), Product{Name: "Milk", Category: "Dairy"})
	require.NoError(t, err)
	// when
	snapshot, err := s.Snapshot(context.Background())
	// then
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	assert.Equal(t, "Milk", snapshot[created.ID].Name)

	// mutating the snapshot must not leak back into the store
	delete(snapshot, created.ID)
	_, err = s.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
}
