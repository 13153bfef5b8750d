package notify

import (
	"context"
	"errors"

	"github.com/sony/gobreaker"

	"media-notify/internal/domain/message"
	"media-notify/internal/infra/notifier"
	"media-notify/internal/resilience/circuitbreaker"
)

// DiscordChannel implements the Channel interface for Discord delivery.
// It wraps the webhook transport from the infrastructure layer and guards
// it with a circuit breaker: once deliveries keep failing through the
// transport's own retry budget, further sends are shed for a few minutes
// instead of blocking the pipeline on a dead endpoint.
type DiscordChannel struct {
	notifier notifier.Notifier
	breaker  *circuitbreaker.CircuitBreaker
	enabled  bool
}

// NewDiscordChannel creates a Discord channel around the given transport.
// When disabled, a NoOpNotifier is used so the Channel contract is always
// satisfied without nil checks.
func NewDiscordChannel(n notifier.Notifier, enabled bool) *DiscordChannel {
	if !enabled || n == nil {
		n = notifier.NewNoOpNotifier()
	}
	return &DiscordChannel{
		notifier: n,
		breaker:  circuitbreaker.New(circuitbreaker.WebhookConfig("discord-webhook")),
		enabled:  enabled,
	}
}

// Name returns the channel identifier "discord".
func (c *DiscordChannel) Name() string {
	return "discord"
}

// IsEnabled returns whether Discord delivery is enabled via configuration.
func (c *DiscordChannel) IsEnabled() bool {
	return c.enabled
}

// BreakerOpen reports whether the delivery circuit breaker is currently
// open. Used by the channel health endpoint.
func (c *DiscordChannel) BreakerOpen() bool {
	return c.breaker.IsOpen()
}

// SendCard delivers a card message through the circuit breaker.
func (c *DiscordChannel) SendCard(ctx context.Context, card *message.Card) error {
	return c.send(ctx, func() error {
		return c.notifier.SendCard(ctx, card)
	})
}

// SendText delivers a plain text message through the circuit breaker.
func (c *DiscordChannel) SendText(ctx context.Context, content string) error {
	return c.send(ctx, func() error {
		return c.notifier.SendText(ctx, content)
	})
}

func (c *DiscordChannel) send(ctx context.Context, fn func() error) error {
	if !c.enabled {
		return ErrChannelDisabled
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrCircuitOpen
	}
	return err
}
