// Package export renders inventory records as a flat CSV table.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/abgdnv/stockroom/internal/inventory/service"
)

const timeLayout = "2006-01-02 15:04:05"

var header = []string{
	"product_name", "category", "current_stock", "warning_level",
	"location", "status", "last_update",
}

// WriteCSV writes the enriched records to w with one row per record.
// Status is "low stock" or "normal" depending on the derived low-stock flag.
func WriteCSV(w io.Writer, records []service.RecordDto) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, rec := range records {
		status := "normal"
		if rec.IsLowStock {
			status = "low stock"
		}
		lastUpdate := "N/A"
		if !rec.LastUpdate.IsZero() {
			lastUpdate = rec.LastUpdate.Format(timeLayout)
		}
		row := []string{
			rec.ProductName,
			rec.Category,
			fmt.Sprintf("%d", rec.CurrentStock),
			fmt.Sprintf("%d", rec.WarningLevel),
			rec.Location,
			status,
			lastUpdate,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
