package notify

import (
	"context"
	"log/slog"

	"media-notify/internal/domain/event"
	"media-notify/internal/format"
)

// normalizeSeason derives the presentation season number: a two-digit
// zero-padded string, or "" when the payload carries no season.
func normalizeSeason(p event.Payload) string {
	if n, ok := p.Int("season_number"); ok {
		return format.Season(int(n))
	}
	return format.ZeroPad(p.String("season_number"), 2)
}

// normalizeEpisodes derives the presentation episode value: the shortest
// readable rendering of the episode set, or the raw string value when the
// payload carries an already-formatted one.
func normalizeEpisodes(p event.Payload) string {
	if eps := p.Ints("episodes"); len(eps) > 0 {
		return format.Episodes(eps)
	}
	return p.String("episodes")
}

// nickname resolves the acting user's display name: the supplied value,
// else a directory lookup by uid, else the literal unknown-user label.
// Lookup failures fall through to the label; they never block the card.
func (r *Router) nickname(ctx context.Context, p event.Payload) string {
	if name := p.String("nickname"); name != "" {
		return name
	}

	if uid, ok := p.Int("uid"); ok {
		name, err := r.users.Nickname(ctx, uid)
		if err != nil {
			slog.Default().Warn("user lookup failed, using fallback nickname",
				slog.Int64("uid", uid),
				slog.Any("error", err))
		} else if name != "" {
			return name
		}
	}

	return "未知用户"
}
