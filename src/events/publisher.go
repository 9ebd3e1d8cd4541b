// Package events carries transaction change notifications between the HTTP
// handlers and background consumers over AMQP.
package events

import "context"

// Publisher announces changes to a user's transactions.
type Publisher interface {
	PublishTransactionsChanged(ctx context.Context, userID int64, reason string) error
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishTransactionsChanged(context.Context, int64, string) error {
	return nil
}
