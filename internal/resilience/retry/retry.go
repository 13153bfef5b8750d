// Package retry provides fixed-delay retry logic for outbound HTTP calls.
// It helps handle transient failures gracefully by automatically retrying
// failed operations, with an injectable sleep function so tests can run
// without real delays.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"syscall"
	"time"
)

// Config holds the configuration for retry logic.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first one.
	MaxAttempts int

	// Delay is the fixed delay between attempts.
	Delay time.Duration

	// Classify decides whether an error is worth retrying.
	// When nil, IsRetryable is used.
	Classify func(error) bool

	// Sleep waits for the given duration or until the context is done.
	// When nil, a real time.After based sleep is used. Tests inject a fake
	// to make retry timing deterministic.
	Sleep func(ctx context.Context, d time.Duration) error
}

// WebhookConfig returns the retry policy for webhook message delivery:
// up to 5 attempts with a fixed 3 second delay, retrying on every failure
// including 4xx responses, since the webhook endpoint is the single
// configured destination and there is no alternative route.
func WebhookConfig() Config {
	return Config{
		MaxAttempts: 5,
		Delay:       3 * time.Second,
		Classify:    RetryAll,
	}
}

// DefaultConfig returns a conservative policy for general HTTP lookups.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		Delay:       1 * time.Second,
	}
}

// Do executes fn with retry logic and a fixed delay between attempts.
// It returns nil as soon as fn succeeds, or the last error once the attempt
// budget is exhausted or a non-retryable error occurs.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	classify := cfg.Classify
	if classify == nil {
		classify = IsRetryable
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = realSleep
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastErr = fn()

		if lastErr == nil {
			if attempt > 1 {
				slog.Info("operation succeeded after retry",
					slog.Int("attempt", attempt))
			}
			return nil
		}

		if !classify(lastErr) {
			slog.Warn("non-retryable error, aborting",
				slog.Int("attempt", attempt),
				slog.Any("error", lastErr))
			return lastErr
		}

		if attempt == cfg.MaxAttempts {
			break
		}

		slog.Warn("operation failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.MaxAttempts),
			slog.Duration("delay", cfg.Delay),
			slog.Any("error", lastErr))

		if err := sleep(ctx, cfg.Delay); err != nil {
			return fmt.Errorf("retry aborted: %w", err)
		}
	}

	return fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, lastErr)
}

// realSleep waits for d with context cancellation support.
func realSleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RetryAll treats every non-nil error as retryable. Used by the webhook
// delivery policy, where any transport or HTTP status failure is retried.
func RetryAll(err error) bool {
	return err != nil
}

// IsRetryable determines if an error is worth retrying for general lookups.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Context errors are not retryable
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Network errors (timeout)
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// Syscall errors
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ETIMEDOUT) ||
		errors.Is(err, syscall.ENETUNREACH) {
		return true
	}

	// HTTP status codes
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		// 5xx server errors are retryable
		if httpErr.StatusCode >= 500 && httpErr.StatusCode < 600 {
			return true
		}
		// 429 Too Many Requests is retryable
		if httpErr.StatusCode == http.StatusTooManyRequests {
			return true
		}
		// 408 Request Timeout is retryable
		if httpErr.StatusCode == http.StatusRequestTimeout {
			return true
		}
	}

	return false
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}
