package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/stockroom/pkg/messaging"
	"github.com/google/uuid"
)

// StockAdjustedEvent is published after every successful stock mutation.
type StockAdjustedEvent struct {
	ProductID  uuid.UUID `json:"product_id"`
	Delta      int       `json:"delta"`
	NewStock   int       `json:"new_stock"`
	AdjustedAt time.Time `json:"adjusted_at"`
}

func (e StockAdjustedEvent) Subject() string {
	return messaging.StockAdjustedSubject
}

func (e StockAdjustedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// StockLowEvent is published when a stock mutation leaves a record at or
// below its warning level.
type StockLowEvent struct {
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	CurrentStock int       `json:"current_stock"`
	WarningLevel int       `json:"warning_level"`
	DetectedAt   time.Time `json:"detected_at"`
}

func (e StockLowEvent) Subject() string {
	return messaging.StockLowSubject
}

func (e StockLowEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
