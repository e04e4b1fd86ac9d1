package messaging

import "context"

// NoopPublisher discards events. Used when messaging is disabled in config.
type NoopPublisher struct{}

func (NoopPublisher) Publish(_ context.Context, _ Event) error {
	return nil
}
