// Package notify implements the catalog-to-inventory synchronization contract.
//
// Delivery is at-most-once: the catalog fires a single synchronous call per
// structural change and never retries. Callers are expected to log and swallow
// any error so a failed sync cannot roll back a committed catalog mutation.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ProductRef carries the product fields the inventory service needs to
// create a record: the identity and the category the location is derived from.
type ProductRef struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
}

// InventoryNotifier notifies the inventory service about catalog changes.
type InventoryNotifier interface {
	// ProductCreated asks the inventory service to create a record for the product.
	ProductCreated(ctx context.Context, product ProductRef) error

	// ProductDeleted asks the inventory service to drop the record for the product.
	ProductDeleted(ctx context.Context, id uuid.UUID) error
}

// HTTPNotifier implements InventoryNotifier over the inventory service's
// internal HTTP endpoints.
type HTTPNotifier struct {
	baseURL string
	client  *http.Client
}

// NewHTTPNotifier creates a notifier for the inventory service at baseURL.
// The timeout bounds each sync call so a slow peer cannot block product
// creation or deletion indefinitely.
func NewHTTPNotifier(baseURL string, timeout time.Duration) *HTTPNotifier {
	return &HTTPNotifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// ProductCreated POSTs the product to the inventory internal create endpoint.
func (n *HTTPNotifier) ProductCreated(ctx context.Context, product ProductRef) error {
	body, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product %s: %w", product.ID, err)
	}
	url := n.baseURL + "/internal/inventory"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build inventory create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return n.do(req)
}

// ProductDeleted calls the inventory internal delete endpoint.
func (n *HTTPNotifier) ProductDeleted(ctx context.Context, id uuid.UUID) error {
	url := fmt.Sprintf("%s/internal/inventory/%s", n.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build inventory delete request: %w", err)
	}
	return n.do(req)
}

func (n *HTTPNotifier) do(req *http.Request) error {
	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("inventory sync call failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("inventory sync call returned status %d", resp.StatusCode)
	}
	return nil
}
