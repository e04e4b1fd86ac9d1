package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_HTTPNotifier_ProductCreated(t *testing.T) {
	// given
	mockID := uuid.New()
	var gotRef ProductRef
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/internal/inventory", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRef))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()
	notifier := NewHTTPNotifier(srv.URL, time.Second)

	// when
	err := notifier.ProductCreated(context.Background(), ProductRef{ID: mockID, Name: "Milk", Category: "Dairy"})

	// then
	require.NoError(t, err)
	assert.Equal(t, mockID, gotRef.ID)
	assert.Equal(t, "Milk", gotRef.Name)
	assert.Equal(t, "Dairy", gotRef.Category)
}

func Test_HTTPNotifier_ProductDeleted(t *testing.T) {
	// given
	mockID := uuid.New()
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	notifier := NewHTTPNotifier(srv.URL, time.Second)

	// when
	err := notifier.ProductDeleted(context.Background(), mockID)

	// then
	require.NoError(t, err)
	assert.Equal(t, "/internal/inventory/"+mockID.String(), gotPath)
}

func Test_HTTPNotifier_Non2xxIsAnError(t *testing.T) {
	// given
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	notifier := NewHTTPNotifier(srv.URL, time.Second)

	// when / then
	assert.Error(t, notifier.ProductCreated(context.Background(), ProductRef{ID: uuid.New()}))
	assert.Error(t, notifier.ProductDeleted(context.Background(), uuid.New()))
}

func Test_HTTPNotifier_ConnectionRefused(t *testing.T) {
	// given: a server that is already closed
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()
	notifier := NewHTTPNotifier(srv.URL, time.Second)
	// when
	err := notifier.ProductDeleted(context.Background(), uuid.New())
	// then
	assert.Error(t, err)
}
