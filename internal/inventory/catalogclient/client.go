// Package catalogclient reads product metadata from the catalog service's
// internal snapshot endpoint for enrichment of inventory records.
package catalogclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Product carries the catalog fields the inventory service renders on reads.
type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Directory resolves product identifiers to catalog metadata.
type Directory interface {
	// Snapshot returns the full id-to-product mapping from the catalog.
	Snapshot(ctx context.Context) (map[string]Product, error)
}

// HTTPDirectory implements Directory over the catalog service's internal
// snapshot endpoint.
type HTTPDirectory struct {
	baseURL string
	client  *http.Client
}

// NewHTTPDirectory creates a directory for the catalog service at baseURL.
func NewHTTPDirectory(baseURL string, timeout time.Duration) *HTTPDirectory {
	return &HTTPDirectory{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Snapshot fetches the full product mapping from the catalog service.
func (d *HTTPDirectory) Snapshot(ctx context.Context) (map[string]Product, error) {
	url := d.baseURL + "/internal/products"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot request: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog snapshot call failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog snapshot call returned status %d", resp.StatusCode)
	}
	var snapshot map[string]Product
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode catalog snapshot: %w", err)
	}
	return snapshot, nil
}
