// Package notifier provides the webhook transports that deliver assembled
// chat messages. It defines the Notifier interface which allows different
// webhook endpoints (Discord today, others later) to be used interchangeably
// through dependency injection.
//
// The package includes the Discord webhook implementation and a no-op
// notifier for when delivery is disabled.
package notifier

import (
	"context"

	"media-notify/internal/domain/message"
)

// Notifier is an interface for posting messages to a webhook endpoint.
// Implementations handle rate limiting, retries and error logging
// internally; callers only learn whether delivery ultimately succeeded.
type Notifier interface {
	// SendCard posts a rich card message.
	//
	// Implementations must:
	//   - Apply rate limiting before the first attempt
	//   - Retry failed attempts according to their retry policy
	//   - Respect context cancellation
	//
	// Returns a non-nil error only after the retry budget is exhausted.
	SendCard(ctx context.Context, card *message.Card) error

	// SendText posts a plain text message with no embeds.
	// Same retry and rate limiting contract as SendCard.
	SendText(ctx context.Context, content string) error
}
