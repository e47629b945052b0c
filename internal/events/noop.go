package events

import "context"

// NoopPublisher discards every event. It is used when MOCKIFY_NATS_URL is empty.
type NoopPublisher struct{}

func (n *NoopPublisher) Publish(ctx context.Context, topic string, event any) error {
	return nil
}

func (n *NoopPublisher) Close() error {
	return nil
}
