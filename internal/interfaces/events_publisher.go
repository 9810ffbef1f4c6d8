package interfaces

import "context"

// KeyedEvent is an event paired with its partition key.
type KeyedEvent struct {
	Key   string
	Event any
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
	PublishBatch(ctx context.Context, batch []KeyedEvent) error
	Close() error
}
