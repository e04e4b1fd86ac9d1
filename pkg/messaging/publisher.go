package messaging

import (
	"context"
)

const (
	StockAdjustedSubject = "inventory.stock.adjusted"
	StockLowSubject      = "inventory.stock.low"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
