// Package notify implements the event-to-message notification pipeline:
// incoming platform events are resolved against the catalog metadata
// sources, merged, normalized into presentation fields, rendered as a card
// message and delivered to the configured chat channels.
package notify

import (
	"context"

	"media-notify/internal/domain/message"
)

// Channel represents a notification delivery channel (Discord today).
// Each channel implementation handles its own rate limiting, retries and
// error handling; the router only learns whether delivery ultimately
// succeeded.
//
// Thread safety: all methods must be safe for concurrent use.
type Channel interface {
	// Name returns the channel identifier (lowercase, alphanumeric).
	// Used for logging, metrics labels and health endpoints.
	Name() string

	// IsEnabled returns true if this channel is enabled via configuration.
	// Disabled channels are skipped during delivery.
	IsEnabled() bool

	// SendCard delivers a rich card message.
	// Returns a non-nil error only after the channel's retry budget is
	// exhausted or its circuit breaker rejects the send.
	SendCard(ctx context.Context, card *message.Card) error

	// SendText delivers a plain text message with no embeds.
	// Same contract as SendCard.
	SendText(ctx context.Context, content string) error
}
