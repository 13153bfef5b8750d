package notify

import (
	"context"
	"log/slog"

	"media-notify/internal/domain/event"
	"media-notify/internal/domain/media"
)

// resolved is the outcome of metadata resolution for one event: the
// effective record after precedence rules, plus the independently resolved
// presentation image. Meta may be nil and ImageURL empty; the card builder
// tolerates every field being absent.
type resolved struct {
	Kind     media.Kind
	Meta     *media.Record
	ImageURL string
}

// mediaKind determines the media kind from the payload's explicit type
// field, falling back to the alternate key used by subscription events.
func mediaKind(p event.Payload) (media.Kind, bool) {
	raw := p.String("media_type")
	if raw == "" {
		// subscription events carry the kind under "type"
		raw = p.String("type")
	}
	return media.ParseKind(raw)
}

// resolve produces the effective metadata for an event.
//
// Precedence: a curated custom record (x_meta) wins entirely, with no
// field-level merge. Otherwise the catalog record (primary) and the
// id-only library record (secondary) are merged field by field. Lookups
// that fail or return nothing are treated as "no data from that source",
// never as fatal errors.
func (r *Router) resolve(ctx context.Context, p event.Payload) resolved {
	kind, kindKnown := mediaKind(p)
	seasonNumber := seasonFromPayload(p)

	if custom := p.Map("x_meta"); custom != nil {
		return r.resolveCustom(ctx, kind, kindKnown, custom, seasonNumber)
	}

	logger := slog.Default()

	// Primary source: embedded pre-fetched record wins over a network call.
	var primary *media.Record
	tmdbID, hasTMDB := p.Int("tmdb_id")
	if embedded := p.Map("tmdb_meta"); embedded != nil {
		primary = recordFromPayload(embedded)
	} else if hasTMDB && kindKnown {
		rec, err := r.catalog.Lookup(ctx, kind, tmdbID)
		if err != nil {
			logger.Warn("catalog lookup failed, continuing without it",
				slog.Int64("tmdb_id", tmdbID),
				slog.Any("error", err))
		} else {
			primary = rec
		}
	}

	// Secondary source, id-only.
	var secondary *media.Record
	doubanID, hasDouban := p.Int("douban_id")
	if embedded := p.Map("douban_meta"); embedded != nil {
		secondary = recordFromPayload(embedded)
	} else if hasDouban {
		rec, err := r.library.Lookup(ctx, doubanID)
		if err != nil {
			logger.Warn("library lookup failed, continuing without it",
				slog.Int64("douban_id", doubanID),
				slog.Any("error", err))
		} else {
			secondary = rec
		}
	}

	// The image is resolved independently of the field merge: prefer the
	// image service keyed by the primary id, fall back to the secondary
	// record's own cover.
	imageURL := ""
	if hasTMDB && kindKnown && primary != nil {
		imageURL = r.backdrop(ctx, kind, tmdbID, seasonNumber)
	}
	if imageURL == "" && secondary != nil {
		imageURL = secondary.CoverImage
	}

	return resolved{
		Kind:     kind,
		Meta:     media.Merge(primary, secondary),
		ImageURL: imageURL,
	}
}

// resolveCustom builds the effective metadata from a curated custom record.
// Its fields are used verbatim; the link target is the public subject page
// for its library id and the image comes from the image service keyed by
// its catalog id.
func (r *Router) resolveCustom(ctx context.Context, kind media.Kind, kindKnown bool, custom event.Payload, seasonNumber *int) resolved {
	rec := &media.Record{
		Title:       custom.String("title"),
		Year:        custom.String("releaseYear"),
		Rating:      custom.Float("rating"),
		Genres:      custom.Strings("genres"),
		Country:     custom.Strings("country"),
		Intro:       custom.String("intro"),
		ReleaseDate: custom.String("premiereDate"),
	}
	if doubanID, ok := custom.Int("doubanId"); ok {
		rec.URL = r.library.SubjectURL(doubanID)
	}

	imageURL := ""
	if tmdbID, ok := custom.Int("tmdbId"); ok && kindKnown {
		imageURL = r.backdrop(ctx, kind, tmdbID, seasonNumber)
	}

	return resolved{Kind: kind, Meta: rec, ImageURL: imageURL}
}

// backdrop asks the image service for a background image; absence of an
// image is not an error and yields "".
func (r *Router) backdrop(ctx context.Context, kind media.Kind, tmdbID int64, seasonNumber *int) string {
	url, err := r.images.Backdrop(ctx, kind, tmdbID, seasonNumber)
	if err != nil {
		slog.Default().Warn("image lookup failed, sending card without image",
			slog.Int64("tmdb_id", tmdbID),
			slog.Any("error", err))
		return ""
	}
	return url
}

// seasonFromPayload extracts the raw season number for image lookups.
func seasonFromPayload(p event.Payload) *int {
	if n, ok := p.Int("season_number"); ok {
		season := int(n)
		return &season
	}
	return nil
}

// recordFromPayload converts an embedded pre-fetched metadata mapping into
// a Record. The payload may carry the link under either "url" or
// "link_url" depending on which service prefetched it.
func recordFromPayload(m event.Payload) *media.Record {
	url := m.String("url")
	if url == "" {
		url = m.String("link_url")
	}
	return &media.Record{
		Title:       m.String("title"),
		Year:        m.String("year"),
		Rating:      m.Float("rating"),
		Genres:      m.Strings("genres"),
		Country:     m.Strings("country"),
		Intro:       m.String("intro"),
		ReleaseDate: m.String("release_date"),
		URL:         url,
		CoverImage:  m.String("cover_image"),
	}
}
