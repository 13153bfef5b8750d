package notifier

import (
	"context"

	"media-notify/internal/domain/message"
)

// NoOpNotifier is a no-operation implementation of the Notifier interface.
// It is used when delivery is disabled to avoid nil checks in the code.
// This follows the Null Object pattern.
type NoOpNotifier struct{}

// NewNoOpNotifier creates a new NoOpNotifier instance.
func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

// SendCard does nothing and returns nil immediately.
func (n *NoOpNotifier) SendCard(ctx context.Context, card *message.Card) error {
	return nil
}

// SendText does nothing and returns nil immediately.
func (n *NoOpNotifier) SendText(ctx context.Context, content string) error {
	return nil
}
