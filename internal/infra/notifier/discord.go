package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"media-notify/internal/domain/message"
	"media-notify/internal/resilience/retry"
)

// cardColor is the accent color of every card embed.
const cardColor = 5814783

// DiscordConfig contains configuration for the Discord webhook transport.
type DiscordConfig struct {
	// Enabled indicates whether Discord delivery is enabled
	Enabled bool

	// WebhookURL is the Discord webhook URL (includes authentication token)
	WebhookURL string

	// ProxyURL optionally routes requests through an outbound HTTP proxy
	ProxyURL string

	// Timeout is the HTTP request timeout for a single webhook attempt
	Timeout time.Duration

	// Retry is the delivery retry policy. Zero value falls back to
	// retry.WebhookConfig (5 attempts, fixed 3s delay).
	Retry retry.Config

	// RatePerSecond and RateBurst bound the sustained request rate.
	// Zero values fall back to the Discord webhook limit of 30 req/min.
	RatePerSecond float64
	RateBurst     int
}

// DiscordNotifier posts messages to a Discord webhook.
type DiscordNotifier struct {
	config      DiscordConfig
	httpClient  *http.Client
	rateLimiter *RateLimiter
	retry       retry.Config
}

// NewDiscordNotifier creates a DiscordNotifier with the given configuration.
// It returns an error when the configured proxy URL cannot be parsed.
func NewDiscordNotifier(config DiscordConfig) (*DiscordNotifier, error) {
	transport := http.DefaultTransport
	if config.ProxyURL != "" {
		proxyURL, err := url.Parse(config.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy URL: %w", err)
		}
		transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}

	retryCfg := config.Retry
	if retryCfg.MaxAttempts == 0 {
		retryCfg = retry.WebhookConfig()
	}

	ratePerSecond := config.RatePerSecond
	burst := config.RateBurst
	if ratePerSecond <= 0 {
		ratePerSecond = 0.5 // Discord webhook limit: 30 req/min
	}
	if burst <= 0 {
		burst = 3
	}

	return &DiscordNotifier{
		config: config,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		},
		rateLimiter: NewRateLimiter(ratePerSecond, burst),
		retry:       retryCfg,
	}, nil
}

// webhookPayload is the JSON body posted to the Discord webhook.
// Content is null for card messages; Embeds is null for text messages;
// Attachments is always an empty array.
type webhookPayload struct {
	Content     *string        `json:"content"`
	Embeds      []webhookEmbed `json:"embeds"`
	Attachments []any          `json:"attachments"`
}

// webhookEmbed is one rich embed in a webhook payload.
type webhookEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	URL         *string        `json:"url"`
	Color       int            `json:"color"`
	Fields      []webhookField `json:"fields"`
	Author      webhookAuthor  `json:"author"`
	Image       webhookImage   `json:"image"`
}

type webhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type webhookAuthor struct {
	Name string `json:"name"`
}

type webhookImage struct {
	URL *string `json:"url"`
}

// buildCardPayload translates a channel-agnostic card into the Discord wire
// form. Absent URL values are passed through as JSON null; title and
// description are clipped to the Discord embed limits.
func buildCardPayload(card *message.Card) webhookPayload {
	embed := webhookEmbed{
		Title:       truncate(card.Title, maxTitleLength, ""),
		Description: truncate(card.Description, maxDescriptionLength, truncationSuffix),
		URL:         nullableString(card.URL),
		Color:       cardColor,
		Fields:      make([]webhookField, 0, len(card.Fields)),
		Author:      webhookAuthor{Name: card.AuthorName},
		Image:       webhookImage{URL: nullableString(card.ImageURL)},
	}
	for _, f := range card.Fields {
		embed.Fields = append(embed.Fields, webhookField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}

	return webhookPayload{
		Embeds:      []webhookEmbed{embed},
		Attachments: []any{},
	}
}

// nullableString maps "" to JSON null.
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// SendCard implements Notifier.
func (d *DiscordNotifier) SendCard(ctx context.Context, card *message.Card) error {
	payload := buildCardPayload(card)
	return d.post(ctx, payload)
}

// SendText implements Notifier.
func (d *DiscordNotifier) SendText(ctx context.Context, content string) error {
	payload := webhookPayload{
		Content:     &content,
		Embeds:      nil,
		Attachments: []any{},
	}
	return d.post(ctx, payload)
}

// post serializes the payload and delivers it with the configured retry
// policy. Any transport error or non-2xx status counts as a failed attempt.
func (d *DiscordNotifier) post(ctx context.Context, payload webhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	if err := d.rateLimiter.Allow(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	err = retry.Do(ctx, d.retry, func() error {
		return d.postOnce(ctx, body)
	})
	if err != nil {
		slog.Error("discord webhook delivery failed",
			slog.Int("max_attempts", d.retry.MaxAttempts),
			slog.Any("error", err))
		return fmt.Errorf("discord webhook delivery failed: %w", err)
	}
	return nil
}

// postOnce performs a single webhook POST.
func (d *DiscordNotifier) postOnce(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.config.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	// Keep a little of the body for the error message
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &retry.HTTPError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("discord webhook: %s", string(snippet)),
	}
}
