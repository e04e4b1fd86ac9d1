// Package seed loads demo catalog data at startup when enabled in config.
package seed

import (
	"context"
	"log/slog"

	"github.com/abgdnv/stockroom/internal/catalog/service"
)

// Run creates the demo products through the service layer so the inventory
// sync fires for each of them, exactly like a regular API create would.
func Run(ctx context.Context, svc service.ProductService, logger *slog.Logger) {
	products := []service.ProductCreateDto{
		{Name: "Milk", Category: "Dairy", Unit: "box", SalePrice: 550, CostPrice: 300, IsActive: true},
		{Name: "Bread", Category: "Bakery", Unit: "piece", SalePrice: 800, CostPrice: 450, IsActive: true},
		{Name: "Mineral Water", Category: "Beverages", Unit: "bottle", SalePrice: 200, CostPrice: 100, IsActive: true},
	}
	for _, p := range products {
		created, err := svc.Create(ctx, p)
		if err != nil {
			logger.Error("Failed to seed product", "name", p.Name, "error", err)
			continue
		}
		logger.Info("Seeded product", "ID", created.ID, "name", created.Name)
	}
}
