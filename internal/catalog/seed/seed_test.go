package seed

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/abgdnv/stockroom/internal/catalog/notify"
	"github.com/abgdnv/stockroom/internal/catalog/service"
	"github.com/abgdnv/stockroom/internal/catalog/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopNotifier struct{}

func (noopNotifier) ProductCreated(context.Context, notify.ProductRef) error { return nil }
func (noopNotifier) ProductDeleted(context.Context, uuid.UUID) error         { return nil }

func Test_Run(t *testing.T) {
	// given
	svc := service.NewService(store.NewInMemoryStore(), noopNotifier{})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// when
	Run(context.Background(), svc, logger)
	// then
	list, err := svc.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)

	names := make([]string, len(list))
	for i, p := range list {
		names[i] = p.Name
	}
	assert.ElementsMatch(t, []string{"Milk", "Bread", "Mineral Water"}, names)
}
