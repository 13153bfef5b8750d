package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"media-notify/internal/domain/event"
	"media-notify/internal/domain/message"
	"media-notify/internal/observability/tracing"
)

// Router dispatches incoming platform events to the notification pipeline.
// Each event is processed to completion before Route returns: metadata
// resolution, merge, normalization, card construction and delivery all run
// in the calling flow. Concurrent invocations share no mutable state.
type Router struct {
	catalog  CatalogLookup
	library  LibraryLookup
	images   ImageLookup
	users    UserLookup
	channels []Channel
}

// NewRouter creates a Router over the given metadata collaborators and
// delivery channels.
func NewRouter(catalog CatalogLookup, library LibraryLookup, images ImageLookup, users UserLookup, channels []Channel) *Router {
	return &Router{
		catalog:  catalog,
		library:  library,
		images:   images,
		users:    users,
		channels: channels,
	}
}

// ChannelHealthStatus is a point-in-time health snapshot of one channel.
type ChannelHealthStatus struct {
	Name               string `json:"name"`
	Enabled            bool   `json:"enabled"`
	CircuitBreakerOpen bool   `json:"circuit_breaker_open"`
}

// ChannelHealth returns the health status of all delivery channels for
// monitoring endpoints.
func (r *Router) ChannelHealth() []ChannelHealthStatus {
	statuses := make([]ChannelHealthStatus, 0, len(r.channels))
	for _, ch := range r.channels {
		status := ChannelHealthStatus{
			Name:    ch.Name(),
			Enabled: ch.IsEnabled(),
		}
		if dc, ok := ch.(*DiscordChannel); ok {
			status.CircuitBreakerOpen = dc.BreakerOpen()
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// Route dispatches one event by its declared type. Unrecognized event
// types are ignored on purpose. No error ever propagates out of Route:
// every failure path degrades to "notification not sent" and surfaces only
// in logs and metrics.
func (r *Router) Route(ctx context.Context, eventType string, payload map[string]any) {
	kind, ok := event.ParseKind(eventType)
	if !ok {
		RecordEvent(eventType, "ignored")
		slog.Default().Debug("ignoring unrecognized event type",
			slog.String("event_type", eventType))
		return
	}

	eventID := uuid.New().String()
	ctx, span := tracing.GetTracer().Start(ctx, "notify.route",
		oteltrace.WithAttributes(
			attribute.String("event.type", eventType),
			attribute.String("event.id", eventID)))
	defer span.End()

	logger := slog.Default().With(
		slog.String("event_id", eventID),
		slog.String("event_type", eventType))

	p := event.Payload(payload)

	if kind == event.SiteError {
		RecordEvent(eventType, "routed")
		content := fmt.Sprintf("访问%s异常，错误原因：%s",
			p.String("site_name"), p.String("reason"))
		r.deliverText(ctx, logger, content)
		return
	}

	// A card is only produced when the event carries at least one
	// recognized media identifier; adult or unclassified items arrive
	// without one and are intentionally excluded from notification.
	if !hasMediaIdentifier(p) {
		RecordEvent(eventType, "skipped")
		logger.Debug("event carries no media identifier, skipping")
		return
	}
	RecordEvent(eventType, "routed")

	res := r.resolve(ctx, p)
	nickname := r.nickname(ctx, p)

	data := cardData{
		Kind:     res.Kind,
		Meta:     res.Meta,
		ImageURL: res.ImageURL,
		Stream:   p.Stream(),
		FileSize: p.String("file_size"),
	}

	var author string
	switch kind {
	case event.DownloadCompleted:
		data.Season = normalizeSeason(p)
		data.Episodes = normalizeEpisodes(p)
		if p.String("site_name") != "" {
			author = fmt.Sprintf("来自%s的资源下载完成", nickname)
		} else {
			author = "下载完成"
		}
	case event.DownloadStart:
		data.Season = normalizeSeason(p)
		data.Episodes = normalizeEpisodes(p)
		if p.String("site_name") != "" {
			author = fmt.Sprintf("来自%s的资源开始下载", nickname)
		} else {
			author = "来自手动下载"
		}
	case event.SubMedia:
		// subscription events carry presentation-ready values already
		data.Season = p.String("season_number")
		data.Episodes = p.String("episodes")
		author = fmt.Sprintf("新增来自%s的订阅", nickname)
	}

	r.deliverCard(ctx, logger, buildCard(author, data))
}

// hasMediaIdentifier reports whether the payload carries a catalog id, a
// library id or a curated custom record.
func hasMediaIdentifier(p event.Payload) bool {
	if _, ok := p.Int("tmdb_id"); ok {
		return true
	}
	if _, ok := p.Int("douban_id"); ok {
		return true
	}
	return p.Map("x_meta") != nil
}

// deliverCard sends the card to every enabled channel, logging and counting
// failures without propagating them.
func (r *Router) deliverCard(ctx context.Context, logger *slog.Logger, card *message.Card) {
	r.deliver(ctx, logger, func(ch Channel) error {
		return ch.SendCard(ctx, card)
	})
}

// deliverText sends a plain text message to every enabled channel.
func (r *Router) deliverText(ctx context.Context, logger *slog.Logger, content string) {
	r.deliver(ctx, logger, func(ch Channel) error {
		return ch.SendText(ctx, content)
	})
}

func (r *Router) deliver(ctx context.Context, logger *slog.Logger, send func(Channel) error) {
	for _, ch := range r.channels {
		if !ch.IsEnabled() {
			continue
		}

		RecordDispatch(ch.Name())
		start := time.Now()
		err := send(ch)
		duration := time.Since(start)

		switch {
		case err == nil:
			RecordSuccess(ch.Name(), duration)
			logger.Info("notification delivered",
				slog.String("channel", ch.Name()),
				slog.Duration("send_duration", duration))
		case err == ErrCircuitOpen:
			RecordDropped(ch.Name(), "circuit_open")
			logger.Warn("notification dropped, channel circuit open",
				slog.String("channel", ch.Name()))
		default:
			RecordFailure(ch.Name(), duration)
			logger.Warn("notification delivery failed",
				slog.String("channel", ch.Name()),
				slog.Duration("send_duration", duration),
				slog.Any("error", err))
		}
	}
}
